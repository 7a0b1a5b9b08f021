package codegraph

import (
	"sort"
	"strings"
)

// PrefixClassifier decides whether an id belongs to an external library
// by matching it against a configured set of namespace prefixes. Longer
// prefixes win, so "System.Text.Json" can carry different intent than
// "System" once callers start caring about which prefix matched.
type PrefixClassifier struct {
	prefixes []string // sorted longest first
}

// DefaultExternalPrefixes lists the namespace roots treated as external
// libraries when no configuration overrides them.
func DefaultExternalPrefixes() []string {
	return []string{
		"System",
		"Microsoft",
		"Newtonsoft",
		"Azure",
		"Google",
		"Amazon",
		"NUnit",
		"Xunit",
		"Moq",
	}
}

// NewPrefixClassifier builds a classifier over the given prefixes.
func NewPrefixClassifier(prefixes []string) *PrefixClassifier {
	sorted := make([]string, len(prefixes))
	copy(sorted, prefixes)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return &PrefixClassifier{prefixes: sorted}
}

// Match returns the longest configured prefix the id falls under.
func (c *PrefixClassifier) Match(id string) (string, bool) {
	for _, p := range c.prefixes {
		if id == p || strings.HasPrefix(id, p+".") {
			return p, true
		}
	}
	return "", false
}

// IsExternal reports whether the id belongs to a configured external
// namespace.
func (c *PrefixClassifier) IsExternal(id string) bool {
	_, ok := c.Match(id)
	return ok
}
