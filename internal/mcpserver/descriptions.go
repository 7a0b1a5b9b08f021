package mcpserver

// Tool descriptions are written for the consuming LLM: when to call the
// tool and how to read what comes back.

func describeGraph() string {
	return `Extracts the dependency and usage graph from C# sources.

USE WHEN:
- Understanding how namespaces, types, members, and locals relate
- Tracing which methods call into a given type
- Finding the external libraries a codebase leans on
- Planning refactors that move or remove types

INTERPRETING RESULTS:
- Nodes are declared entities plus synthetic nodes for external targets
- "used" is per-entity liveness: false means nothing references it
- Containment edges mirror the namespace/type/member hierarchy
- Call and reference edges point from user to used
- External edges lead to code outside the analyzed set
- Metrics (when enabled): PageRank, in/out degree, cycle detection`
}

func describeUnused() string {
	return `Reports entities never referenced from any method body.

USE WHEN:
- Hunting dead code before a cleanup pass
- Verifying a type is safe to delete
- Auditing a migration that should have removed old call sites

INTERPRETING RESULTS:
- Entries are declared entities with used == false
- Namespaces never appear: containers count as structure, not code
- Entry-point types and methods (Program, Main, overrides) count as
  used even without callers; extend entry_points for frameworks that
  invoke methods reflectively
- A method only called by unused code still counts as used; review
  clusters together before deleting`
}

func describeStats() string {
	return `Summarizes graph composition without returning the full graph.

USE WHEN:
- Sizing a codebase before requesting the full graph
- Checking how many files parsed vs. were skipped
- Getting a quick unused-code count

INTERPRETING RESULTS:
- nodes_by_kind / edges_by_kind break down graph composition
- files_skipped > 0 means some sources failed to parse; results
  cover the files that did
- unused_count is the number of never-referenced entities`
}
