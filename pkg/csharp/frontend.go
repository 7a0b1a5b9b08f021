// Package csharp turns parsed C# source into the declaration trees and
// symbol resolvers consumed by the graph analyzers.
package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/auspexlabs/auspex/pkg/parser"
	"github.com/auspexlabs/auspex/pkg/syntax"
)

// FileData is the extraction result for one source file: its declaration
// tree plus the using-directive context needed to build a resolver.
type FileData struct {
	Tree    *syntax.Tree
	Usings  []string
	Aliases map[string]string
}

// Frontend extracts declaration trees from C# sources.
type Frontend struct {
	parser *parser.Parser
}

// NewFrontend creates a frontend with its own parser instance.
func NewFrontend() *Frontend {
	return &Frontend{parser: parser.New()}
}

// Close releases parser resources.
func (f *Frontend) Close() {
	f.parser.Close()
}

// ExtractFile parses and extracts a single file from disk.
func (f *Frontend) ExtractFile(path string) (*FileData, error) {
	result, err := f.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return ExtractTree(result), nil
}

// Extract parses and extracts in-memory source.
func (f *Frontend) Extract(source []byte, path string) (*FileData, error) {
	result, err := f.parser.Parse(source, parser.LangCSharp, path)
	if err != nil {
		return nil, err
	}
	return ExtractTree(result), nil
}

// ExtractTree builds a declaration tree from an already-parsed file.
func ExtractTree(result *parser.ParseResult) *FileData {
	fd := &FileData{
		Tree:    &syntax.Tree{Path: result.Path},
		Aliases: make(map[string]string),
	}

	root := result.Tree.RootNode()
	src := result.Source

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "using_directive":
			fd.addUsing(child, src)
		case "namespace_declaration":
			if d := extractNamespace(child, src); d != nil {
				fd.Tree.Decls = append(fd.Tree.Decls, d)
			}
		case "file_scoped_namespace_declaration":
			// Everything after a file-scoped namespace belongs to it,
			// whether the grammar nests the declarations or leaves them
			// as siblings.
			d := extractNamespace(child, src)
			if d == nil {
				continue
			}
			for j := i + 1; j < int(root.ChildCount()); j++ {
				if t := extractTypeDecl(root.Child(j), src); t != nil {
					d.Children = append(d.Children, t)
				}
			}
			fd.Tree.Decls = append(fd.Tree.Decls, d)
			return fd
		default:
			if t := extractTypeDecl(child, src); t != nil {
				fd.Tree.Decls = append(fd.Tree.Decls, t)
			}
		}
	}
	return fd
}

func (fd *FileData) addUsing(node *sitter.Node, src []byte) {
	var name, alias string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "qualified_name", "identifier":
			name = parser.GetNodeText(child, src)
		case "name_equals":
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "identifier" {
					alias = parser.GetNodeText(child.Child(j), src)
				}
			}
		}
	}
	if name == "" {
		return
	}
	if alias != "" {
		fd.Aliases[alias] = name
		return
	}
	fd.Usings = append(fd.Usings, name)
}

func extractNamespace(node *sitter.Node, src []byte) *syntax.Decl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	d := &syntax.Decl{
		Kind: syntax.DeclNamespace,
		Name: parser.GetNodeText(nameNode, src),
		Line: int(node.StartPoint().Row) + 1,
	}
	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.ChildCount()); i++ {
			child := body.Child(i)
			switch child.Type() {
			case "namespace_declaration":
				if nested := extractNamespace(child, src); nested != nil {
					d.Children = append(d.Children, nested)
				}
			default:
				if t := extractTypeDecl(child, src); t != nil {
					d.Children = append(d.Children, t)
				}
			}
		}
	}
	return d
}

func extractTypeDecl(node *sitter.Node, src []byte) *syntax.Decl {
	switch node.Type() {
	case "class_declaration", "interface_declaration", "struct_declaration", "record_declaration":
	default:
		return nil
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	d := &syntax.Decl{
		Kind: syntax.DeclClass,
		Name: parser.GetNodeText(nameNode, src),
		Line: int(node.StartPoint().Row) + 1,
	}

	if baseList := node.ChildByFieldName("bases"); baseList != nil {
		for i := 0; i < int(baseList.ChildCount()); i++ {
			child := baseList.Child(i)
			switch child.Type() {
			case "identifier", "qualified_name", "generic_name":
				d.Bases = append(d.Bases, parser.GetNodeText(child, src))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return d
	}

	// Two passes over the type body: members first, so method-body
	// reference collection can type receivers against fields and
	// properties declared later in the file.
	memberTypes := make(map[string]string)
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "property_declaration":
			if p := extractProperty(child, src); p != nil {
				d.Children = append(d.Children, p)
				memberTypes[p.Name] = p.TypeName
			}
		case "field_declaration":
			for _, fld := range extractField(child, src) {
				d.Children = append(d.Children, fld)
				memberTypes[fld.Name] = fld.TypeName
			}
		case "class_declaration", "interface_declaration", "struct_declaration", "record_declaration":
			if nested := extractTypeDecl(child, src); nested != nil {
				d.Children = append(d.Children, nested)
			}
		}
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "method_declaration", "constructor_declaration":
			if m := extractMethod(child, src, memberTypes); m != nil {
				d.Children = append(d.Children, m)
			}
		}
	}
	return d
}

func extractProperty(node *sitter.Node, src []byte) *syntax.Decl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return &syntax.Decl{
		Kind:     syntax.DeclProperty,
		Name:     parser.GetNodeText(nameNode, src),
		Line:     int(node.StartPoint().Row) + 1,
		TypeName: typeText(node.ChildByFieldName("type"), src),
	}
}

func extractField(node *sitter.Node, src []byte) []*syntax.Decl {
	var decls []*syntax.Decl
	for i := 0; i < int(node.ChildCount()); i++ {
		varDecl := node.Child(i)
		if varDecl.Type() != "variable_declaration" {
			continue
		}
		typeName := typeText(varDecl.ChildByFieldName("type"), src)
		for j := 0; j < int(varDecl.ChildCount()); j++ {
			declarator := varDecl.Child(j)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := declaratorName(declarator, src)
			if name == "" {
				continue
			}
			decls = append(decls, &syntax.Decl{
				Kind:     syntax.DeclField,
				Name:     name,
				Line:     int(declarator.StartPoint().Row) + 1,
				TypeName: typeName,
			})
		}
	}
	return decls
}

func extractMethod(node *sitter.Node, src []byte, memberTypes map[string]string) *syntax.Decl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		// Constructors name themselves with a bare identifier child.
		nameNode = firstChildOfType(node, "identifier")
	}
	if nameNode == nil {
		return nil
	}

	d := &syntax.Decl{
		Kind:     syntax.DeclMethod,
		Name:     parser.GetNodeText(nameNode, src),
		Line:     int(node.StartPoint().Row) + 1,
		Override: hasModifier(node, src, "override"),
	}

	// Receiver scope: locals and parameters shadow fields/properties.
	scope := make(map[string]string, len(memberTypes))
	for k, v := range memberTypes {
		scope[k] = v
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			p := params.Child(i)
			if p.Type() != "parameter" {
				continue
			}
			pName := parser.GetNodeText(p.ChildByFieldName("name"), src)
			if pName != "" {
				scope[pName] = typeText(p.ChildByFieldName("type"), src)
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return d
	}

	// Locals first so later statements can resolve receivers declared
	// earlier; the statement walk below records references in order.
	parser.WalkTyped(body, src, func(n *sitter.Node, nodeType string, source []byte) bool {
		if nodeType != "local_declaration_statement" {
			return true
		}
		varDecl := firstChildOfType(n, "variable_declaration")
		if varDecl == nil {
			return false
		}
		typeName := typeText(varDecl.ChildByFieldName("type"), source)
		for j := 0; j < int(varDecl.ChildCount()); j++ {
			declarator := varDecl.Child(j)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			name := declaratorName(declarator, source)
			if name == "" {
				continue
			}
			d.Children = append(d.Children, &syntax.Decl{
				Kind:     syntax.DeclLocal,
				Name:     name,
				Line:     int(declarator.StartPoint().Row) + 1,
				TypeName: typeName,
			})
			if typeName != "" && typeName != "var" {
				scope[name] = typeName
			} else if created := inferCreatedType(declarator, source); created != "" {
				scope[name] = created
			}
		}
		return false
	})

	c := &refCollector{src: src, scope: scope}
	c.walk(body)
	d.Refs = c.refs
	return d
}

// refCollector walks a method body recording call, member-access,
// object-creation, and initializer-assignment occurrences.
type refCollector struct {
	src   []byte
	scope map[string]string
	refs  []syntax.Ref
}

func (c *refCollector) walk(n *sitter.Node) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "invocation_expression":
		c.collectInvocation(n)
		return
	case "member_access_expression":
		c.collectMemberAccess(n)
		return
	case "object_creation_expression":
		c.collectObjectCreation(n)
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c.walk(n.Child(i))
	}
}

func (c *refCollector) collectInvocation(n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	ref := syntax.Ref{
		Kind: syntax.RefInvocation,
		Line: int(n.StartPoint().Row) + 1,
	}
	switch {
	case fn == nil:
	case fn.Type() == "member_access_expression":
		expr := fn.ChildByFieldName("expression")
		name := fn.ChildByFieldName("name")
		ref.Target = parser.GetNodeText(fn, c.src)
		ref.Member = parser.GetNodeText(name, c.src)
		ref.Receiver = c.receiverType(expr)
		// The receiver expression may itself contain calls or creations.
		c.walk(expr)
	default:
		ref.Target = parser.GetNodeText(fn, c.src)
		ref.Member = ref.Target
	}
	if ref.Target != "" {
		c.refs = append(c.refs, ref)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		c.walk(args)
	}
}

func (c *refCollector) collectMemberAccess(n *sitter.Node) {
	expr := n.ChildByFieldName("expression")
	name := n.ChildByFieldName("name")
	c.refs = append(c.refs, syntax.Ref{
		Kind:     syntax.RefMemberAccess,
		Target:   parser.GetNodeText(n, c.src),
		Member:   parser.GetNodeText(name, c.src),
		Receiver: c.receiverType(expr),
		Line:     int(n.StartPoint().Row) + 1,
	})
	c.walk(expr)
}

func (c *refCollector) collectObjectCreation(n *sitter.Node) {
	typeName := typeText(n.ChildByFieldName("type"), c.src)
	if typeName != "" {
		c.refs = append(c.refs, syntax.Ref{
			Kind:   syntax.RefObjectCreation,
			Target: typeName,
			Line:   int(n.StartPoint().Row) + 1,
		})
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		c.walk(args)
	}
	if init := n.ChildByFieldName("initializer"); init != nil {
		for i := 0; i < int(init.ChildCount()); i++ {
			assign := init.Child(i)
			if assign.Type() != "assignment_expression" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left == nil || left.Type() != "identifier" {
				continue
			}
			c.refs = append(c.refs, syntax.Ref{
				Kind:     syntax.RefInitAssignment,
				Target:   parser.GetNodeText(left, c.src),
				Member:   parser.GetNodeText(left, c.src),
				Receiver: typeName,
				Line:     int(assign.StartPoint().Row) + 1,
			})
			c.walk(assign.ChildByFieldName("right"))
		}
	}
}

// receiverType maps a receiver expression to a type-name hint: locals,
// parameters, and members map through the scope; inline creations map to
// the created type; bare identifiers pass through as written.
func (c *refCollector) receiverType(expr *sitter.Node) string {
	if expr == nil {
		return ""
	}
	switch expr.Type() {
	case "identifier":
		name := parser.GetNodeText(expr, c.src)
		if t, ok := c.scope[name]; ok && t != "" {
			return t
		}
		return name
	case "object_creation_expression":
		return typeText(expr.ChildByFieldName("type"), c.src)
	case "this_expression":
		return "this"
	}
	return parser.GetNodeText(expr, c.src)
}

func inferCreatedType(declarator *sitter.Node, src []byte) string {
	created := firstDescendantOfType(declarator, "object_creation_expression", 4)
	if created == nil {
		return ""
	}
	return typeText(created.ChildByFieldName("type"), src)
}

func declaratorName(declarator *sitter.Node, src []byte) string {
	if name := declarator.ChildByFieldName("name"); name != nil {
		return parser.GetNodeText(name, src)
	}
	if id := firstChildOfType(declarator, "identifier"); id != nil {
		return parser.GetNodeText(id, src)
	}
	return ""
}

func hasModifier(node *sitter.Node, src []byte, modifier string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "modifier" && parser.GetNodeText(child, src) == modifier {
			return true
		}
	}
	return false
}

func firstChildOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == nodeType {
			return node.Child(i)
		}
	}
	return nil
}

func firstDescendantOfType(node *sitter.Node, nodeType string, depth int) *sitter.Node {
	if node == nil || depth < 0 {
		return nil
	}
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstDescendantOfType(node.Child(i), nodeType, depth-1); found != nil {
			return found
		}
	}
	return nil
}

// typeText renders a type node as written, dropping nullable markers.
func typeText(node *sitter.Node, src []byte) string {
	text := parser.GetNodeText(node, src)
	return strings.TrimSuffix(text, "?")
}
