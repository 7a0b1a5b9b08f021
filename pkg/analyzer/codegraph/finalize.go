package codegraph

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// finalize turns collected facts into the output graph. The steps run in
// a fixed order: external materialization, unconditional liveness,
// direct-reference liveness, upward propagation, origin classification,
// then assembly. Liveness marks only ever add bits, which keeps the used
// flag monotonic by construction.
func finalize(f *facts, classifier *PrefixClassifier) *Graph {
	externals := materializeExternals(f)

	// Dense index over every node id, sorted for determinism.
	ids := make([]string, 0, len(f.entities)+len(externals))
	for id := range f.entities {
		ids = append(ids, id)
	}
	for id := range externals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	indexOf := make(map[string]uint32, len(ids))
	for i, id := range ids {
		indexOf[id] = uint32(i)
	}

	used := roaring.New()
	mark := func(id string) {
		if i, ok := indexOf[id]; ok {
			used.Add(i)
		}
	}

	// Namespaces and synthetic externals are alive by definition; seeds
	// reassert the entry-point, override, and declared-type evidence
	// gathered during the walk.
	for id := range f.namespaces {
		mark(id)
	}
	for id := range externals {
		mark(id)
	}
	for id := range f.usedSeeds {
		mark(id)
	}
	for _, id := range f.typeRefs {
		if _, ok := f.classes[id]; ok {
			mark(id)
		}
	}

	// One hop: a recorded reference marks its target, whether or not the
	// caller is itself reachable from anywhere.
	for _, targets := range f.calls {
		for _, t := range targets {
			if _, ok := f.methods[t]; ok {
				mark(t)
			}
		}
	}
	for _, targets := range f.propAccess {
		for _, t := range targets {
			if _, ok := f.properties[t]; ok {
				mark(t)
			}
			if _, ok := f.variables[t]; ok {
				mark(t)
			}
		}
	}

	// Used members keep their class alive.
	for id := range f.methods {
		if isUsed(used, indexOf, id) {
			markParentClass(f, used, indexOf, id)
		}
	}
	for id := range f.properties {
		if isUsed(used, indexOf, id) {
			markParentClass(f, used, indexOf, id)
		}
	}

	return assemble(f, externals, ids, indexOf, used, classifier)
}

func isUsed(used *roaring.Bitmap, indexOf map[string]uint32, id string) bool {
	i, ok := indexOf[id]
	return ok && used.Contains(i)
}

func markParentClass(f *facts, used *roaring.Bitmap, indexOf map[string]uint32, id string) {
	parent := parentOf(id)
	if _, ok := f.classes[parent]; !ok {
		return
	}
	if i, ok := indexOf[parent]; ok {
		used.Add(i)
	}
}

// materializeExternals creates one synthetic node per adjacency target
// that is not an internal method or property. Kind follows the syntactic
// shape of the recorded id: a call marker means a method, an uppercase
// last segment looks like a property, anything else is generic. Call
// targets are considered before accesses, so a member seen both ways
// keeps the method kind.
func materializeExternals(f *facts) map[string]NodeKind {
	externals := make(map[string]NodeKind)
	consider := func(raw string) {
		if _, ok := f.methods[raw]; ok {
			return
		}
		if _, ok := f.properties[raw]; ok {
			return
		}
		if _, ok := f.variables[raw]; ok {
			return
		}
		id := trimCallMarker(raw)
		if _, declared := f.entities[id]; declared {
			return
		}
		if _, seen := externals[id]; seen {
			return
		}
		externals[id] = externalKind(raw)
	}
	for _, targets := range f.calls {
		for _, t := range targets {
			consider(t)
		}
	}
	for _, targets := range f.propAccess {
		for _, t := range targets {
			consider(t)
		}
	}
	return externals
}

func externalKind(raw string) NodeKind {
	if len(raw) > len(callMarker) && raw[len(raw)-len(callMarker):] == callMarker {
		return NodeExternalMethod
	}
	last := labelOf(raw)
	if last != "" && last[0] >= 'A' && last[0] <= 'Z' {
		return NodeExternalProperty
	}
	return NodeExternalGeneric
}

func assemble(f *facts, externals map[string]NodeKind, ids []string, indexOf map[string]uint32, used *roaring.Bitmap, classifier *PrefixClassifier) *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(ids)),
		Edges: make([]Edge, 0),
		Stats: Stats{
			FilesAnalyzed: f.filesAnalyzed,
			FilesSkipped:  f.filesSkipped,
			NodesByKind:   make(map[NodeKind]int),
			EdgesByKind:   make(map[EdgeKind]int),
		},
	}

	nodeSet := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		nodeSet[id] = struct{}{}
	}

	for _, id := range ids {
		var n Node
		if e, ok := f.entities[id]; ok {
			n = Node{
				ID:           id,
				Kind:         e.kind,
				Label:        labelOf(id),
				Used:         used.Contains(indexOf[id]),
				DeclaredType: e.declaredType,
				FilePath:     e.filePath,
				LineNumber:   e.line,
			}
		} else {
			n = Node{
				ID:    id,
				Kind:  externals[id],
				Label: labelOf(id),
				Used:  true,
			}
		}
		n.IsExternalLibrary = classifier.IsExternal(id)
		g.Stats.NodesByKind[n.Kind]++
		if !n.Used {
			g.Stats.UnusedCount++
		}
		g.Nodes = append(g.Nodes, n)
	}

	seen := make(map[Edge]struct{})
	addEdge := func(e Edge) {
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		g.Edges = append(g.Edges, e)
		g.Stats.EdgesByKind[e.Kind]++
	}

	// Containment from identifier structure. Namespaces are roots; every
	// other declared entity hangs off the node recovered by stripping
	// its last segment, when that node exists.
	for _, id := range ids {
		e, ok := f.entities[id]
		if !ok || e.kind == NodeNamespace {
			continue
		}
		parent := parentOf(id)
		if _, ok := nodeSet[parent]; !ok {
			continue
		}
		addEdge(Edge{Source: parent, Target: id, Kind: EdgeContainment})
	}

	// Reference and call edges from the adjacency maps. Call targets
	// shed their marker to land on the materialized node id.
	callers := make([]string, 0, len(f.propAccess))
	for caller := range f.propAccess {
		callers = append(callers, caller)
	}
	sort.Strings(callers)
	for _, caller := range callers {
		if _, ok := nodeSet[caller]; !ok {
			continue
		}
		for _, target := range f.propAccess[caller] {
			if _, ok := nodeSet[target]; !ok || caller == target {
				continue
			}
			kind := EdgeReference
			if _, internal := f.properties[target]; !internal {
				if _, internal := f.variables[target]; !internal {
					kind = EdgeExternal
				}
			}
			addEdge(Edge{Source: caller, Target: target, Kind: kind})
		}
	}

	callers = callers[:0]
	for caller := range f.calls {
		callers = append(callers, caller)
	}
	sort.Strings(callers)
	for _, caller := range callers {
		if _, ok := nodeSet[caller]; !ok {
			continue
		}
		for _, raw := range f.calls[caller] {
			target := trimCallMarker(raw)
			if _, ok := nodeSet[target]; !ok || caller == target {
				continue
			}
			kind := EdgeCall
			if _, internal := f.methods[raw]; !internal {
				kind = EdgeExternal
			}
			addEdge(Edge{Source: caller, Target: target, Kind: kind})
		}
	}

	sort.Slice(g.Edges, func(i, j int) bool {
		a, b := g.Edges[i], g.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind < b.Kind
	})
	return g
}
