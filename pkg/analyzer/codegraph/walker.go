package codegraph

import (
	"github.com/auspexlabs/auspex/pkg/syntax"
)

// entity is one declared program element recorded during collection.
type entity struct {
	id           string
	kind         NodeKind
	declaredType string
	filePath     string
	line         int
}

// facts is the immutable output of the collection phase: every declared
// identifier by kind, the call and property-access adjacency maps, and
// the liveness evidence gathered at declaration sites. Finalization is a
// pure function over this value.
type facts struct {
	entities   map[string]entity
	namespaces map[string]struct{}
	classes    map[string]struct{}
	methods    map[string]struct{}
	properties map[string]struct{}
	variables  map[string]struct{}

	// caller id -> referenced ids. Call targets that did not resolve to
	// an internal method carry the call marker.
	calls      map[string][]string
	propAccess map[string][]string

	// liveness evidence recorded during the walk: entry points,
	// overrides, and resolved base/declared/constructed type ids.
	usedSeeds map[string]struct{}
	typeRefs  []string

	filesAnalyzed int
	filesSkipped  int
}

func newFacts() *facts {
	return &facts{
		entities:   make(map[string]entity),
		namespaces: make(map[string]struct{}),
		classes:    make(map[string]struct{}),
		methods:    make(map[string]struct{}),
		properties: make(map[string]struct{}),
		variables:  make(map[string]struct{}),
		calls:      make(map[string][]string),
		propAccess: make(map[string][]string),
		usedSeeds:  make(map[string]struct{}),
	}
}

// register records a declared entity, collapsing repeated declarations of
// the same id onto the first one seen.
func (f *facts) register(e entity, kinds map[string]struct{}) {
	if _, exists := f.entities[e.id]; !exists {
		f.entities[e.id] = e
	}
	kinds[e.id] = struct{}{}
}

func (f *facts) seedUsed(id string) {
	f.usedSeeds[id] = struct{}{}
}

// walker traverses one declaration tree, maintaining the three context
// slots and accumulating into shared facts. A fresh walker is created
// per tree; the facts value is shared across all trees in a run.
type walker struct {
	f        *facts
	resolver syntax.Resolver
	path     string

	entryTypes   []TypePredicate
	entryMethods []MethodPredicate

	curNamespace string
	curType      string
	curMember    string
}

func (w *walker) walkTree(tree *syntax.Tree) {
	w.resolver = tree.Resolver
	w.path = tree.Path
	for _, d := range tree.Decls {
		w.visit(d)
	}
}

func (w *walker) visit(d *syntax.Decl) {
	switch d.Kind {
	case syntax.DeclNamespace:
		w.visitNamespace(d)
	case syntax.DeclClass:
		w.visitClass(d)
	case syntax.DeclMethod:
		w.visitMethod(d)
	case syntax.DeclProperty:
		w.visitProperty(d)
	case syntax.DeclField, syntax.DeclLocal:
		w.visitVariable(d)
	}
}

func (w *walker) visitNamespace(d *syntax.Decl) {
	id := qualify(w.curNamespace, d.Name)
	w.f.register(entity{
		id:       id,
		kind:     NodeNamespace,
		filePath: w.path,
		line:     d.Line,
	}, w.f.namespaces)

	prev := w.curNamespace
	w.curNamespace = id
	for _, child := range d.Children {
		w.visit(child)
	}
	w.curNamespace = prev
}

func (w *walker) visitClass(d *syntax.Decl) {
	// Nested types qualify against the enclosing type, top-level types
	// against the namespace.
	enclosing := w.curNamespace
	if w.curType != "" {
		enclosing = w.curType
	}
	id := qualify(enclosing, d.Name)
	w.f.register(entity{
		id:       id,
		kind:     NodeClass,
		filePath: w.path,
		line:     d.Line,
	}, w.f.classes)

	// A declared subtype is evidence the base type is alive.
	for _, base := range d.Bases {
		if sym, ok := w.resolveType(base); ok && sym.Internal {
			w.f.typeRefs = append(w.f.typeRefs, sym.ID)
		}
	}

	for _, pred := range w.entryTypes {
		if pred(d.Name, w.path) {
			w.f.seedUsed(id)
			break
		}
	}

	prevType, prevMember := w.curType, w.curMember
	w.curType = id
	w.curMember = ""
	for _, child := range d.Children {
		w.visit(child)
	}
	w.curType, w.curMember = prevType, prevMember
}

func (w *walker) visitMethod(d *syntax.Decl) {
	id := qualify(w.curType, d.Name)
	w.f.register(entity{
		id:       id,
		kind:     NodeMethod,
		filePath: w.path,
		line:     d.Line,
	}, w.f.methods)

	if d.Override {
		w.f.seedUsed(id)
	}
	for _, pred := range w.entryMethods {
		if pred(d.Name) {
			// A program-start method marks both itself and its type.
			w.f.seedUsed(id)
			if w.curType != "" {
				w.f.seedUsed(w.curType)
			}
			break
		}
	}

	prev := w.curMember
	w.curMember = id
	for _, child := range d.Children {
		w.visit(child)
	}
	w.collectRefs(d.Refs)
	w.curMember = prev
}

func (w *walker) visitProperty(d *syntax.Decl) {
	id := qualify(w.curType, d.Name)
	w.f.register(entity{
		id:           id,
		kind:         NodeProperty,
		declaredType: w.declaredType(d.TypeName),
		filePath:     w.path,
		line:         d.Line,
	}, w.f.properties)
}

func (w *walker) visitVariable(d *syntax.Decl) {
	// Fields hang off the type, locals off the enclosing member.
	enclosing := w.curType
	if d.Kind == syntax.DeclLocal && w.curMember != "" {
		enclosing = w.curMember
	}
	id := qualify(enclosing, d.Name)
	w.f.register(entity{
		id:           id,
		kind:         NodeVariable,
		declaredType: w.declaredType(d.TypeName),
		filePath:     w.path,
		line:         d.Line,
	}, w.f.variables)
}

// declaredType resolves a written type name to a canonical id, records
// the internal-type usage signal, and degrades to "Unknown" when the
// resolver has nothing.
func (w *walker) declaredType(typeName string) string {
	sym, ok := w.resolveType(typeName)
	if !ok {
		return "Unknown"
	}
	if sym.Internal {
		w.f.typeRefs = append(w.f.typeRefs, sym.ID)
	}
	return sym.ID
}

func (w *walker) resolveType(name string) (syntax.Symbol, bool) {
	if w.resolver == nil || name == "" {
		return syntax.Symbol{}, false
	}
	return w.resolver.ResolveType(name)
}

// collectRefs records the reference occurrences of one method body into
// the adjacency maps. Occurrences outside a method context never reach
// here; resolution gaps are dropped silently.
func (w *walker) collectRefs(refs []syntax.Ref) {
	if w.resolver == nil || w.curMember == "" {
		return
	}
	caller := w.curMember
	for _, ref := range refs {
		sym, ok := w.resolver.ResolveRef(w.curType, ref)
		if !ok {
			continue
		}
		switch ref.Kind {
		case syntax.RefInvocation:
			target := sym.ID
			if !sym.Internal {
				target = markCall(target)
			} else {
				w.f.seedUsed(target)
			}
			w.f.calls[caller] = append(w.f.calls[caller], target)
		case syntax.RefMemberAccess:
			if sym.Kind != syntax.SymbolProperty {
				continue
			}
			w.f.propAccess[caller] = append(w.f.propAccess[caller], sym.ID)
			if sym.Internal {
				w.f.seedUsed(sym.ID)
			}
		case syntax.RefObjectCreation:
			if sym.Internal {
				w.f.typeRefs = append(w.f.typeRefs, sym.ID)
			}
		case syntax.RefInitAssignment:
			// Only resolves for internal properties; the assignment is
			// both a liveness mark and an adjacency entry.
			w.f.seedUsed(sym.ID)
			w.f.propAccess[caller] = append(w.f.propAccess[caller], sym.ID)
		}
	}
}
