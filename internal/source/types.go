package source

import "strings"

// Tree represents a parsed syntax tree.
type Tree struct {
	Root     *Node
	Source   []byte
	Language string
}

// Node represents a node in the syntax tree.
type Node struct {
	Type       string
	Field      string // field name in the parent, if any
	Named      bool
	StartByte  uint32
	EndByte    uint32
	StartPoint Point
	EndPoint   Point
	Children   []*Node
	Parent     *Node
	HasError   bool
}

// Point represents a position in the source code
type Point struct {
	Row    uint32 // 0-indexed line number
	Column uint32
}

// Kind is the syntactic kind of a declaration.
type Kind string

const (
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindVariable   Kind = "variable"
	KindInterface  Kind = "interface"
	KindTypeAlias  Kind = "type"
	KindEnum       Kind = "enum"
	KindNamespace  Kind = "namespace"
	KindExpression Kind = "expression"
)

// IsType reports whether the kind only exists at the type level.
func (k Kind) IsType() bool {
	return k == KindInterface || k == KindTypeAlias
}

// Symbol identifies a binding by value: the file that declares it and its
// name there. Two symbols are the same binding iff they compare equal.
type Symbol struct {
	File string
	Name string

	// exported marks Name as an export name of File that may still alias
	// another binding.
	exported bool
}

// IsZero reports whether s is the zero Symbol.
func (s Symbol) IsZero() bool { return s.File == "" && s.Name == "" }

func (s Symbol) String() string {
	if s.exported {
		return s.File + "#export:" + s.Name
	}
	return s.File + "#" + s.Name
}

// Location is a 1-indexed position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Declaration is a top-level declaration of a source file.
type Declaration struct {
	Name           string
	Kind           Kind
	File           *File
	Node           *Node // the declaring node (function_declaration, variable_declarator, ...)
	Statement      *Node // the enclosing top-level statement
	Docs           []*DocComment
	Implementation bool // false for overload signatures and ambient declarations
}

// Symbol returns the declaring symbol.
func (d *Declaration) Symbol() Symbol {
	return Symbol{File: d.File.Path, Name: d.Name}
}

// Location returns where the declaration's statement starts.
func (d *Declaration) Location() Location {
	n := d.Statement
	if n == nil {
		n = d.Node
	}
	return Location{
		File:   d.File.Path,
		Line:   int(n.StartPoint.Row) + 1,
		Column: int(n.StartPoint.Column) + 1,
	}
}

// Text returns the source text of the enclosing statement.
func (d *Declaration) Text() string {
	n := d.Statement
	if n == nil {
		n = d.Node
	}
	return n.Content(d.File.Tree.Source)
}

// Description returns the description of the first doc comment.
func (d *Declaration) Description() string {
	if len(d.Docs) == 0 {
		return ""
	}
	return d.Docs[0].Description
}

// HasTag reports whether any doc comment carries the tag (without "@").
func (d *Declaration) HasTag(name string) bool {
	for _, doc := range d.Docs {
		if doc.HasTag(name) {
			return true
		}
	}
	return false
}

// Export is one name in a file's public surface and the declarations it
// resolves to.
type Export struct {
	Name         string
	Symbol       Symbol
	Declarations []*Declaration
}

// Primary returns the declaration that best represents the export: the
// implementation for overloaded functions, otherwise the first declaration.
func (e Export) Primary() *Declaration {
	if len(e.Declarations) == 0 {
		return nil
	}
	for _, d := range e.Declarations {
		if d.Kind == KindFunction && d.Implementation {
			return d
		}
	}
	return e.Declarations[0]
}

// DocComment is a parsed /** ... */ block.
type DocComment struct {
	Description string
	Tags        []DocTag
}

// DocTag is a single @tag inside a doc comment.
type DocTag struct {
	Name string
	Text string
}

// HasTag reports whether the comment carries the tag (without "@").
func (c *DocComment) HasTag(name string) bool {
	name = strings.TrimPrefix(name, "@")
	for _, t := range c.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Prop is one property of a structural type.
type Prop struct {
	Name            string    `json:"name"`
	Type            string    `json:"type,omitempty"`
	Required        bool      `json:"required"`
	DefaultValue    string    `json:"defaultValue,omitempty"`
	Description     string    `json:"description,omitempty"`
	Properties      []*Prop   `json:"properties,omitempty"`
	UnionProperties [][]*Prop `json:"unionProperties,omitempty"`
}

// LanguageConfig holds configuration for a supported language
type LanguageConfig struct {
	Name       string
	Extensions []string

	// Typed languages carry interfaces, type aliases and annotations.
	Typed bool
}
