package source

import (
	"context"
	"strings"
)

// maxShapeDepth bounds nested and referenced type expansion.
const maxShapeDepth = 8

// Props returns the prop shape of a declaration: the first parameter of a
// function or component, or the members of an interface or type alias.
// Union types yield one property list per object variant. Declarations
// without a structural shape return nil.
func (p *Project) Props(ctx context.Context, d *Declaration) ([]*Prop, [][]*Prop) {
	if d == nil || d.Node == nil {
		return nil, nil
	}
	s := &shaper{project: p, ctx: ctx, visited: make(map[Symbol]bool)}
	s.visited[d.Symbol()] = true
	f := d.File

	switch d.Node.Type {
	case "interface_declaration":
		return s.interfaceMembers(f, d.Node, nil, 0), nil
	case "type_alias_declaration":
		return s.shape(f, d.Node.ChildByField("value"), nil, 0)
	case "variable_declarator":
		if value := d.Node.ChildByField("value"); value != nil && isFunctionNode(value) {
			return s.parameters(f, value)
		}
		// const Button: FC<ButtonProps> = ...
		if typ := typeOf(d.Node); typ != nil && typ.Type == "generic_type" {
			if args := typ.ChildByField("type_arguments"); args != nil {
				if named := args.NamedChildren(); len(named) > 0 {
					return s.shape(f, named[0], nil, 0)
				}
			}
		}
		return nil, nil
	}
	if isFunctionNode(d.Node) {
		return s.parameters(f, d.Node)
	}
	return nil, nil
}

func isFunctionNode(n *Node) bool {
	switch n.Type {
	case "function_declaration", "generator_function_declaration", "function_signature",
		"function", "function_expression", "arrow_function", "generator_function":
		return true
	}
	return false
}

// typeOf returns the type inside a node's type annotation.
func typeOf(n *Node) *Node {
	ann := n.ChildByField("type")
	if ann == nil {
		return nil
	}
	if ann.Type != "type_annotation" {
		return ann
	}
	if named := ann.NamedChildren(); len(named) > 0 {
		return named[0]
	}
	return nil
}

type shaper struct {
	project *Project
	ctx     context.Context
	visited map[Symbol]bool
}

// parameters shapes the first parameter of a function node.
func (s *shaper) parameters(f *File, fn *Node) ([]*Prop, [][]*Prop) {
	params := fn.ChildByField("parameters")
	if params == nil {
		return nil, nil
	}
	var first *Node
	for _, c := range params.NamedChildren() {
		if c.Type == "required_parameter" || c.Type == "optional_parameter" {
			first = c
			break
		}
	}
	if first == nil {
		return nil, nil
	}

	defaults := s.defaults(f, first.ChildByField("pattern"))
	typ := typeOf(first)
	if typ == nil {
		return nil, nil
	}
	return s.shape(f, typ, defaults, 0)
}

// defaults collects default values from a destructuring pattern.
func (s *shaper) defaults(f *File, pattern *Node) map[string]string {
	out := make(map[string]string)
	if pattern == nil || pattern.Type != "object_pattern" {
		return out
	}
	for _, c := range pattern.NamedChildren() {
		switch c.Type {
		case "object_assignment_pattern":
			left, right := c.ChildByField("left"), c.ChildByField("right")
			if left != nil && right != nil {
				out[f.text(left)] = f.text(right)
			}
		case "pair_pattern":
			key, value := c.ChildByField("key"), c.ChildByField("value")
			if key != nil && value != nil && value.Type == "assignment_pattern" {
				if right := value.ChildByField("right"); right != nil {
					out[unquote(f.text(key))] = f.text(right)
				}
			}
		}
	}
	return out
}

// shape expands a type node into properties or union variants.
func (s *shaper) shape(f *File, typ *Node, defaults map[string]string, depth int) ([]*Prop, [][]*Prop) {
	if typ == nil || depth > maxShapeDepth {
		return nil, nil
	}

	switch typ.Type {
	case "object_type", "interface_body":
		return s.members(f, typ, defaults, depth), nil
	case "parenthesized_type":
		if named := typ.NamedChildren(); len(named) > 0 {
			return s.shape(f, named[0], defaults, depth)
		}
	case "union_type":
		var variants [][]*Prop
		for _, v := range unionVariants(typ) {
			props, nested := s.shape(f, v, defaults, depth+1)
			if props != nil {
				variants = append(variants, props)
			}
			variants = append(variants, nested...)
		}
		if len(variants) == 0 {
			return nil, nil
		}
		return nil, variants
	case "intersection_type":
		var merged []*Prop
		for _, part := range typ.NamedChildren() {
			props, _ := s.shape(f, part, defaults, depth+1)
			merged = append(merged, props...)
		}
		return merged, nil
	case "type_identifier", "generic_type", "nested_type_identifier":
		decl := s.resolveType(f, typ)
		if decl == nil {
			return nil, nil
		}
		sym := decl.Symbol()
		if s.visited[sym] {
			return nil, nil
		}
		s.visited[sym] = true
		defer delete(s.visited, sym)

		switch decl.Node.Type {
		case "interface_declaration":
			return s.interfaceMembers(decl.File, decl.Node, defaults, depth+1), nil
		case "type_alias_declaration":
			return s.shape(decl.File, decl.Node.ChildByField("value"), defaults, depth+1)
		}
	}
	return nil, nil
}

// interfaceMembers shapes an interface body followed by the members it
// inherits through extends clauses. Own members shadow inherited ones.
func (s *shaper) interfaceMembers(f *File, decl *Node, defaults map[string]string, depth int) []*Prop {
	props := s.members(f, decl.ChildByField("body"), defaults, depth)
	clause := decl.FindChildByType("extends_type_clause")
	if clause == nil {
		return props
	}

	own := make(map[string]bool, len(props))
	for _, prop := range props {
		own[prop.Name] = true
	}
	for _, base := range clause.NamedChildren() {
		inherited, _ := s.shape(f, base, defaults, depth+1)
		for _, prop := range inherited {
			if !own[prop.Name] {
				own[prop.Name] = true
				props = append(props, prop)
			}
		}
	}
	return props
}

// unionVariants flattens left-nested union_type nodes.
func unionVariants(n *Node) []*Node {
	var out []*Node
	for _, c := range n.NamedChildren() {
		if c.Type == "union_type" {
			out = append(out, unionVariants(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// resolveType finds the interface or type alias a type reference names,
// following imports.
func (s *shaper) resolveType(f *File, ref *Node) *Declaration {
	name := ref
	if ref.Type == "generic_type" {
		name = ref.ChildByField("name")
		if name == nil {
			return nil
		}
	}
	if name.Type == "nested_type_identifier" {
		return nil
	}

	sym, ok := s.project.AliasedSymbol(s.ctx, Symbol{File: f.Path, Name: f.text(name)})
	if !ok {
		return nil
	}
	for _, d := range s.project.Declarations(s.ctx, sym) {
		if d.Kind.IsType() {
			return d
		}
	}
	return nil
}

// members shapes the property signatures of an object type body.
func (s *shaper) members(f *File, body *Node, defaults map[string]string, depth int) []*Prop {
	if body == nil {
		return nil
	}
	props := []*Prop{}
	for i, m := range body.Children {
		if m.Type != "property_signature" && m.Type != "method_signature" {
			continue
		}
		nameNode := m.ChildByField("name")
		if nameNode == nil {
			continue
		}
		name := unquote(f.text(nameNode))

		prop := &Prop{
			Name:         name,
			DefaultValue: defaults[name],
		}
		if docs := precedingDocs(body, i, f.Tree.Source); len(docs) > 0 {
			prop.Description = docs[0].Description
		}

		optional := m.HasChildType("?")
		if m.Type == "method_signature" {
			prop.Type = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(f.text(m), f.text(nameNode)), "?"))
		} else if typ := typeOf(m); typ != nil {
			prop.Type = f.text(typ)
			if typ.Type == "object_type" {
				prop.Properties = s.members(f, typ, nil, depth+1)
			} else if typ.Type == "union_type" {
				_, prop.UnionProperties = s.shape(f, typ, nil, depth+1)
			}
		}
		prop.Required = !optional && prop.DefaultValue == ""
		props = append(props, prop)
	}
	return props
}
