package csharp

import (
	"strings"

	"github.com/auspexlabs/auspex/pkg/syntax"
)

// predefinedTypes maps C# keywords to their runtime type ids, the way a
// semantic model would resolve them.
var predefinedTypes = map[string]string{
	"bool":    "System.Boolean",
	"byte":    "System.Byte",
	"sbyte":   "System.SByte",
	"char":    "System.Char",
	"decimal": "System.Decimal",
	"double":  "System.Double",
	"float":   "System.Single",
	"int":     "System.Int32",
	"uint":    "System.UInt32",
	"long":    "System.Int64",
	"ulong":   "System.UInt64",
	"short":   "System.Int16",
	"ushort":  "System.UInt16",
	"object":  "System.Object",
	"string":  "System.String",
}

// Index is the project-wide symbol table: every canonical id declared in
// the analyzed file set, by kind. Built once from all extracted trees,
// then shared by every per-file resolver.
type Index struct {
	namespaces map[string]struct{}
	types      map[string]struct{}
	methods    map[string]struct{}
	properties map[string]struct{}

	// simple type name -> canonical ids declaring it
	typesByName map[string][]string
}

// BuildIndex collects declared identifiers from every tree.
func BuildIndex(trees []*syntax.Tree) *Index {
	idx := &Index{
		namespaces:  make(map[string]struct{}),
		types:       make(map[string]struct{}),
		methods:     make(map[string]struct{}),
		properties:  make(map[string]struct{}),
		typesByName: make(map[string][]string),
	}
	for _, tree := range trees {
		for _, d := range tree.Decls {
			idx.addDecl(d, "")
		}
	}
	return idx
}

func (idx *Index) addDecl(d *syntax.Decl, prefix string) {
	id := d.Name
	if prefix != "" {
		id = prefix + "." + d.Name
	}
	switch d.Kind {
	case syntax.DeclNamespace:
		idx.namespaces[id] = struct{}{}
	case syntax.DeclClass:
		if _, seen := idx.types[id]; !seen {
			idx.types[id] = struct{}{}
			idx.typesByName[baseName(d.Name)] = append(idx.typesByName[baseName(d.Name)], id)
		}
	case syntax.DeclMethod:
		idx.methods[id] = struct{}{}
	case syntax.DeclProperty, syntax.DeclField:
		idx.properties[id] = struct{}{}
	case syntax.DeclLocal:
		return // locals never resolve across files
	}
	for _, child := range d.Children {
		idx.addDecl(child, id)
	}
}

// HasType reports whether id is an internally declared type.
func (idx *Index) HasType(id string) bool {
	_, ok := idx.types[id]
	return ok
}

// HasMethod reports whether id is an internally declared method.
func (idx *Index) HasMethod(id string) bool {
	_, ok := idx.methods[id]
	return ok
}

// HasProperty reports whether id is an internally declared property or field.
func (idx *Index) HasProperty(id string) bool {
	_, ok := idx.properties[id]
	return ok
}

// fileResolver resolves names within one file's using context.
type fileResolver struct {
	index   *Index
	usings  []string
	aliases map[string]string
}

var _ syntax.Resolver = (*fileResolver)(nil)

// NewResolver builds a resolver for one file given the shared index and
// the file's using directives.
func NewResolver(index *Index, usings []string, aliases map[string]string) syntax.Resolver {
	return &fileResolver{index: index, usings: usings, aliases: aliases}
}

// Bind attaches a resolver to every extracted file's tree and returns the
// trees in input order.
func Bind(files []*FileData) []*syntax.Tree {
	trees := make([]*syntax.Tree, 0, len(files))
	for _, fd := range files {
		trees = append(trees, fd.Tree)
	}
	index := BuildIndex(trees)
	for _, fd := range files {
		fd.Tree.Resolver = NewResolver(index, fd.Usings, fd.Aliases)
	}
	return trees
}

// ResolveType resolves a type name as written to a canonical id. Internal
// declarations win; predefined keywords map to their System ids; already
// qualified external names pass through as written.
func (r *fileResolver) ResolveType(name string) (syntax.Symbol, bool) {
	name = baseName(name)
	if name == "" || name == "var" || name == "void" {
		return syntax.Symbol{}, false
	}
	if sys, ok := predefinedTypes[name]; ok {
		return syntax.Symbol{ID: sys, Kind: syntax.SymbolType}, true
	}
	if alias, ok := r.aliases[name]; ok {
		name = alias
	}
	if id, ok := r.lookupInternalType(name); ok {
		return syntax.Symbol{ID: id, Kind: syntax.SymbolType, Internal: true}, true
	}
	if strings.Contains(name, ".") {
		return syntax.Symbol{ID: name, Kind: syntax.SymbolType}, true
	}
	return syntax.Symbol{}, false
}

func (r *fileResolver) lookupInternalType(name string) (string, bool) {
	if r.index.HasType(name) {
		return name, true
	}
	for _, u := range r.usings {
		if candidate := u + "." + name; r.index.HasType(candidate) {
			return candidate, true
		}
	}
	// Fall back on simple-name matching; ambiguity picks the first
	// declaration encountered, which keeps runs deterministic only
	// because trees are visited in sorted path order.
	if ids := r.index.typesByName[name]; len(ids) > 0 {
		return ids[0], true
	}
	return "", false
}

// ResolveRef resolves one reference occurrence inside a member of
// enclosingType. A false return means the occurrence is dropped.
func (r *fileResolver) ResolveRef(enclosingType string, ref syntax.Ref) (syntax.Symbol, bool) {
	switch ref.Kind {
	case syntax.RefInvocation:
		return r.resolveInvocation(enclosingType, ref)
	case syntax.RefMemberAccess:
		return r.resolveMemberAccess(enclosingType, ref)
	case syntax.RefObjectCreation:
		return r.ResolveType(ref.Target)
	case syntax.RefInitAssignment:
		typeSym, ok := r.ResolveType(ref.Receiver)
		if !ok {
			return syntax.Symbol{}, false
		}
		id := typeSym.ID + "." + ref.Member
		if r.index.HasProperty(id) {
			return syntax.Symbol{ID: id, Kind: syntax.SymbolProperty, Internal: true}, true
		}
		return syntax.Symbol{}, false
	}
	return syntax.Symbol{}, false
}

func (r *fileResolver) resolveInvocation(enclosingType string, ref syntax.Ref) (syntax.Symbol, bool) {
	if ref.Receiver == "" || ref.Receiver == "this" {
		// Bare call: a method on the enclosing type, or nothing.
		if id := enclosingType + "." + ref.Member; r.index.HasMethod(id) {
			return syntax.Symbol{ID: id, Kind: syntax.SymbolMethod, Internal: true}, true
		}
		return syntax.Symbol{}, false
	}
	if typeID, ok := r.lookupInternalType(baseName(ref.Receiver)); ok {
		if id := typeID + "." + ref.Member; r.index.HasMethod(id) {
			return syntax.Symbol{ID: id, Kind: syntax.SymbolMethod, Internal: true}, true
		}
	}
	// Unresolvable receiver: keep the call as written so the caller can
	// materialize an external node for it.
	if strings.Contains(ref.Target, ".") {
		return syntax.Symbol{ID: ref.Target, Kind: syntax.SymbolMethod}, true
	}
	return syntax.Symbol{}, false
}

func (r *fileResolver) resolveMemberAccess(enclosingType string, ref syntax.Ref) (syntax.Symbol, bool) {
	if ref.Receiver == "" || ref.Receiver == "this" {
		if id := enclosingType + "." + ref.Member; r.index.HasProperty(id) {
			return syntax.Symbol{ID: id, Kind: syntax.SymbolProperty, Internal: true}, true
		}
		return syntax.Symbol{}, false
	}
	if typeID, ok := r.lookupInternalType(baseName(ref.Receiver)); ok {
		if id := typeID + "." + ref.Member; r.index.HasProperty(id) {
			return syntax.Symbol{ID: id, Kind: syntax.SymbolProperty, Internal: true}, true
		}
	}
	// Uppercase receivers look like type or framework accesses; keep them
	// as written. Lowercase receivers that failed to type are noise.
	first := ref.Receiver[0]
	if first >= 'A' && first <= 'Z' && strings.Contains(ref.Target, ".") {
		return syntax.Symbol{ID: ref.Target, Kind: syntax.SymbolProperty}, true
	}
	return syntax.Symbol{}, false
}

// baseName strips generic arguments, array brackets, and nullable
// markers from a type name as written.
func baseName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(name), "?")
}
