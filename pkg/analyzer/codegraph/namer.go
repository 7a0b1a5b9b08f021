package codegraph

import "strings"

// qualify joins an enclosing id and a declaration name with a dot. The
// empty enclosing id yields the name unchanged. Case is preserved; no
// other normalization happens.
func qualify(enclosing, name string) string {
	if enclosing == "" {
		return name
	}
	return enclosing + "." + name
}

// parentOf strips the last dot-segment, recovering the structural parent
// id. Returns "" for a top-level id.
func parentOf(id string) string {
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return ""
}

// labelOf returns the last dot-segment, the display name.
func labelOf(id string) string {
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// callMarker suffixes an id recorded from a call site whose target did
// not resolve to an internal method. The marker drives external-kind
// classification and is stripped before the id becomes a node.
const callMarker = "()"

func markCall(id string) string {
	return id + callMarker
}

func trimCallMarker(id string) string {
	return strings.TrimSuffix(id, callMarker)
}
