package source

import (
	"path"
	"sort"
	"strings"
)

// File is an analyzed source file: its local declarations, import bindings
// and export statements. Export resolution across files goes through
// Project.
type File struct {
	Path     string // absolute, slash-separated
	Language string
	Tree     *Tree

	declarations map[string][]*Declaration
	order        []string
	imports      map[string]importBinding
	exports      []exportEntry
}

// importBinding is a local name bound by an import statement.
type importBinding struct {
	Specifier string
	Name      string // "default", "*" or the imported name
}

// exportEntry is one name introduced by an export statement.
type exportEntry struct {
	Name      string // exported name, empty for `export * from`
	Local     string // local binding, for exports of this file's own names
	Specifier string // module specifier, for re-exports
	Imported  string // name in the re-exported module, "*" for namespaces
	Star      bool
}

// Dir returns the file's directory.
func (f *File) Dir() string { return path.Dir(f.Path) }

// Basename returns the file name without directory and extension.
func (f *File) Basename() string {
	base := path.Base(f.Path)
	base = strings.TrimSuffix(base, ".d.ts")
	return strings.TrimSuffix(base, path.Ext(base))
}

// Declarations returns the local declarations in source order.
func (f *File) Declarations() []*Declaration {
	var out []*Declaration
	for _, name := range f.order {
		out = append(out, f.declarations[name]...)
	}
	return out
}

// LocalDeclarations returns the declarations bound to a local name.
func (f *File) LocalDeclarations(name string) []*Declaration {
	return f.declarations[name]
}

// Imports returns the module specifiers imported by the file.
func (f *File) Imports() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range f.imports {
		if !seen[b.Specifier] {
			seen[b.Specifier] = true
			out = append(out, b.Specifier)
		}
	}
	for _, e := range f.exports {
		if e.Specifier != "" && !seen[e.Specifier] {
			seen[e.Specifier] = true
			out = append(out, e.Specifier)
		}
	}
	sort.Strings(out)
	return out
}

// analyze builds a File from a parsed tree.
func analyze(filePath string, tree *Tree) *File {
	f := &File{
		Path:         filePath,
		Language:     tree.Language,
		Tree:         tree,
		declarations: make(map[string][]*Declaration),
		imports:      make(map[string]importBinding),
	}

	root := tree.Root
	for i, stmt := range root.Children {
		if !stmt.Named || stmt.Type == "comment" {
			continue
		}
		docs := precedingDocs(root, i, tree.Source)

		switch stmt.Type {
		case "import_statement":
			f.addImport(stmt)
		case "export_statement":
			f.addExport(stmt, docs)
		case "ambient_declaration":
			for _, inner := range stmt.NamedChildren() {
				for _, d := range f.declarationsOf(inner, stmt, docs) {
					d.Implementation = false
					f.declare(d)
				}
			}
		default:
			for _, d := range f.declarationsOf(stmt, stmt, docs) {
				f.declare(d)
			}
		}
	}
	return f
}

func (f *File) declare(d *Declaration) {
	if _, ok := f.declarations[d.Name]; !ok {
		f.order = append(f.order, d.Name)
	}
	f.declarations[d.Name] = append(f.declarations[d.Name], d)
}

func (f *File) text(n *Node) string {
	return n.Content(f.Tree.Source)
}

func (f *File) addImport(stmt *Node) {
	src := stmt.ChildByField("source")
	if src == nil {
		return
	}
	spec := unquote(f.text(src))

	clause := stmt.FindChildByType("import_clause")
	if clause == nil {
		return
	}
	for _, c := range clause.NamedChildren() {
		switch c.Type {
		case "identifier":
			f.imports[f.text(c)] = importBinding{Specifier: spec, Name: "default"}
		case "namespace_import":
			if id := c.FindChildByType("identifier"); id != nil {
				f.imports[f.text(id)] = importBinding{Specifier: spec, Name: "*"}
			}
		case "named_imports":
			for _, s := range c.FindChildrenByType("import_specifier") {
				name := f.text(s.ChildByField("name"))
				local := name
				if alias := s.ChildByField("alias"); alias != nil {
					local = f.text(alias)
				}
				f.imports[local] = importBinding{Specifier: spec, Name: name}
			}
		}
	}
}

func (f *File) addExport(stmt *Node, docs []*DocComment) {
	isDefault := stmt.HasChildType("default")
	src := stmt.ChildByField("source")
	spec := ""
	if src != nil {
		spec = unquote(f.text(src))
	}

	if decl := stmt.ChildByField("declaration"); decl != nil {
		for _, d := range f.declarationsOf(decl, stmt, docs) {
			f.declare(d)
			name := d.Name
			if isDefault {
				name = "default"
			}
			f.exportLocal(name, d.Name)
		}
		return
	}

	if value := stmt.ChildByField("value"); value != nil && isDefault {
		if value.Type == "identifier" {
			f.exportLocal("default", f.text(value))
			return
		}
		d := f.anonymousDefault(value, stmt, docs)
		f.declare(d)
		f.exportLocal("default", d.Name)
		return
	}

	if clause := stmt.FindChildByType("export_clause"); clause != nil {
		for _, s := range clause.FindChildrenByType("export_specifier") {
			name := f.text(s.ChildByField("name"))
			exported := name
			if alias := s.ChildByField("alias"); alias != nil {
				exported = f.text(alias)
			}
			if spec != "" {
				f.exports = append(f.exports, exportEntry{Name: exported, Specifier: spec, Imported: name})
			} else {
				f.exportLocal(exported, name)
			}
		}
		return
	}

	if ns := stmt.FindChildByType("namespace_export"); ns != nil && spec != "" {
		ids := ns.NamedChildren()
		if len(ids) > 0 {
			f.exports = append(f.exports, exportEntry{Name: unquote(f.text(ids[len(ids)-1])), Specifier: spec, Imported: "*"})
		}
		return
	}

	if stmt.HasChildType("*") && spec != "" {
		f.exports = append(f.exports, exportEntry{Star: true, Specifier: spec})
	}
}

func (f *File) exportLocal(exported, local string) {
	for _, e := range f.exports {
		if e.Name == exported && e.Local == local {
			return
		}
	}
	f.exports = append(f.exports, exportEntry{Name: exported, Local: local})
}

// anonymousDefault declares the value of `export default <expression>`.
func (f *File) anonymousDefault(value, stmt *Node, docs []*DocComment) *Declaration {
	d := &Declaration{
		Name:           "default",
		Kind:           KindExpression,
		File:           f,
		Node:           value,
		Statement:      stmt,
		Docs:           docs,
		Implementation: true,
	}
	switch value.Type {
	case "function", "function_expression", "arrow_function", "generator_function":
		d.Kind = KindFunction
	case "class":
		d.Kind = KindClass
	}
	if name := value.ChildByField("name"); name != nil {
		d.Name = f.text(name)
	}
	return d
}

// declarationsOf returns the declarations introduced by a declaration node.
// Variable statements yield one declaration per declarator.
func (f *File) declarationsOf(n, stmt *Node, docs []*DocComment) []*Declaration {
	named := func(kind Kind, impl bool) []*Declaration {
		name := n.ChildByField("name")
		if name == nil {
			return nil
		}
		return []*Declaration{{
			Name:           f.text(name),
			Kind:           kind,
			File:           f,
			Node:           n,
			Statement:      stmt,
			Docs:           docs,
			Implementation: impl,
		}}
	}

	switch n.Type {
	case "function_declaration", "generator_function_declaration":
		return named(KindFunction, n.ChildByField("body") != nil)
	case "function_signature":
		return named(KindFunction, false)
	case "class_declaration", "abstract_class_declaration":
		return named(KindClass, true)
	case "interface_declaration":
		return named(KindInterface, true)
	case "type_alias_declaration":
		return named(KindTypeAlias, true)
	case "enum_declaration":
		return named(KindEnum, true)
	case "module", "internal_module":
		return named(KindNamespace, true)
	case "lexical_declaration", "variable_declaration":
		var out []*Declaration
		for _, v := range n.FindChildrenByType("variable_declarator") {
			name := v.ChildByField("name")
			if name == nil || name.Type != "identifier" {
				continue
			}
			out = append(out, &Declaration{
				Name:           f.text(name),
				Kind:           KindVariable,
				File:           f,
				Node:           v,
				Statement:      stmt,
				Docs:           docs,
				Implementation: true,
			})
		}
		return out
	}
	return nil
}
