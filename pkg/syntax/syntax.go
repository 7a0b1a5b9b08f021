// Package syntax defines the declaration-tree and symbol-resolution
// contracts consumed by the graph analyzers. Frontends (see pkg/csharp)
// produce these values from parsed source; analyzers never touch raw
// parse trees directly.
package syntax

// DeclKind identifies the kind of a declaration node.
type DeclKind string

const (
	DeclNamespace DeclKind = "namespace"
	DeclClass     DeclKind = "class"
	DeclMethod    DeclKind = "method"
	DeclProperty  DeclKind = "property"
	DeclField     DeclKind = "field"
	DeclLocal     DeclKind = "local"
)

// RefKind identifies the kind of a reference occurrence inside a member body.
type RefKind string

const (
	RefInvocation      RefKind = "invocation"
	RefMemberAccess    RefKind = "member_access"
	RefObjectCreation  RefKind = "object_creation"
	RefInitAssignment  RefKind = "initializer_assignment"
)

// Decl is one declaration in a source file: a namespace, type, member, or
// local. Children preserve source order. Refs holds the reference
// occurrences found in this declaration's own body (methods and property
// accessors); structural children carry their own.
type Decl struct {
	Kind     DeclKind
	Name     string
	Line     int // 1-based
	Override bool     // method carries an override modifier
	Bases    []string // base type / interface names as written
	TypeName string   // declared type for properties, fields, locals
	Refs     []Ref
	Children []*Decl
}

// Ref is a single reference occurrence: a call, member access, object
// creation, or object-initializer assignment.
type Ref struct {
	Kind RefKind
	// Target is the referenced expression as written, e.g. "Logger.Info"
	// for an invocation or "order.Total" for a member access. For
	// initializer assignments it is the assigned member name and Receiver
	// names the constructed type.
	Target string
	// Member is the final name segment; Receiver is a type-name hint for
	// the receiver expression, when the frontend could compute one.
	Member   string
	Receiver string
	Line     int
}

// SymbolKind classifies a resolved symbol.
type SymbolKind string

const (
	SymbolType     SymbolKind = "type"
	SymbolMethod   SymbolKind = "method"
	SymbolProperty SymbolKind = "property"
)

// Symbol is the result of resolving a reference or type name: a canonical
// dot-qualified identifier plus its kind. Internal reports whether the
// symbol is declared inside the analyzed file set.
type Symbol struct {
	ID       string
	Kind     SymbolKind
	Internal bool
}

// Resolver maps names seen in a given file to project-wide symbols. A nil
// or failing resolver degrades the analysis (references are dropped,
// declared types become Unknown) but never aborts it.
type Resolver interface {
	// ResolveType resolves a type name as written to its canonical id.
	ResolveType(name string) (Symbol, bool)
	// ResolveRef resolves a reference occurrence, given the id of the
	// type whose member body contains it.
	ResolveRef(enclosingType string, ref Ref) (Symbol, bool)
}

// Tree is one parsed source file: its top-level declarations plus an
// optional resolver scoped to the file's using/import context.
type Tree struct {
	Path     string
	Decls    []*Decl
	Resolver Resolver
}
