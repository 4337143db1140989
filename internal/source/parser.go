package source

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

// Parser wraps tree-sitter for syntax tree parsing.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser   *sitter.Parser
	registry *LanguageRegistry
}

// NewParser creates a new parser with default language registry
func NewParser() *Parser {
	return NewParserWithRegistry(DefaultRegistry())
}

// NewParserWithRegistry creates a new parser with a custom language registry
func NewParserWithRegistry(registry *LanguageRegistry) *Parser {
	return &Parser{
		parser:   sitter.NewParser(),
		registry: registry,
	}
}

// Parse parses source in the named language. The returned tree is a copy
// that stays valid after the parser is reused.
func (p *Parser) Parse(ctx context.Context, source []byte, language string) (*Tree, error) {
	grammar, ok := p.registry.GetTreeSitterLanguage(language)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeParseFailed, "unsupported language: %s", language)
	}
	p.parser.SetLanguage(grammar)

	tsTree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "failed to parse source", err).WithDetail("language", language)
	}
	if tsTree == nil {
		return nil, errors.New(errors.ErrCodeParseFailed, "parser returned no tree", nil).WithDetail("language", language)
	}

	return &Tree{
		Root:     convertNode(tsTree.RootNode(), nil, ""),
		Source:   source,
		Language: language,
	}, nil
}

// Close releases parser resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// convertNode copies a tree-sitter node into our Node type so the tree
// outlives the tree-sitter allocation.
func convertNode(tsNode *sitter.Node, parent *Node, field string) *Node {
	if tsNode == nil {
		return nil
	}

	node := &Node{
		Type:      tsNode.Type(),
		Field:     field,
		Named:     tsNode.IsNamed(),
		StartByte: tsNode.StartByte(),
		EndByte:   tsNode.EndByte(),
		StartPoint: Point{
			Row:    tsNode.StartPoint().Row,
			Column: tsNode.StartPoint().Column,
		},
		EndPoint: Point{
			Row:    tsNode.EndPoint().Row,
			Column: tsNode.EndPoint().Column,
		},
		Parent:   parent,
		HasError: tsNode.HasError(),
		Children: make([]*Node, 0, int(tsNode.ChildCount())),
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil {
			node.Children = append(node.Children, convertNode(child, node, tsNode.FieldNameForChild(i)))
		}
	}

	return node
}

// Content returns the source text covered by the node
func (n *Node) Content(source []byte) string {
	if n == nil || n.StartByte >= n.EndByte || int(n.EndByte) > len(source) {
		return ""
	}
	return string(source[n.StartByte:n.EndByte])
}

// ChildByField returns the first child stored under the field name
func (n *Node) ChildByField(field string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Field == field {
			return child
		}
	}
	return nil
}

// FindChildByType finds the first child with the given type
func (n *Node) FindChildByType(nodeType string) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Type == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType finds all children with the given type (non-recursive)
func (n *Node) FindChildrenByType(nodeType string) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Type == nodeType {
			result = append(result, child)
		}
	}
	return result
}

// FindAllByType recursively finds all nodes with the given type
func (n *Node) FindAllByType(nodeType string) []*Node {
	var result []*Node

	if n.Type == nodeType {
		result = append(result, n)
	}

	for _, child := range n.Children {
		result = append(result, child.FindAllByType(nodeType)...)
	}

	return result
}

// NamedChildren returns the named children, skipping punctuation and keywords
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	for _, child := range n.Children {
		if child.Named {
			result = append(result, child)
		}
	}
	return result
}

// HasChildType reports whether any direct child has the given type.
func (n *Node) HasChildType(nodeType string) bool {
	return n.FindChildByType(nodeType) != nil
}

// Walk traverses the tree depth-first and calls fn for each node
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// precedingDocs returns the doc comments directly above the child at index i
// of parent, in source order.
func precedingDocs(parent *Node, i int, source []byte) []*DocComment {
	var docs []*DocComment
	for j := i - 1; j >= 0; j-- {
		sib := parent.Children[j]
		if sib.Type != "comment" {
			if sib.Named {
				break
			}
			// skip separators such as ";" and "," between members
			continue
		}
		text := sib.Content(source)
		if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") {
			docs = append([]*DocComment{ParseDocComment(text)}, docs...)
		}
	}
	return docs
}

// unquote strips matching string delimiters.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
