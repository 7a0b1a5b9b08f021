package codegraph

import "testing"

func TestPrefixClassifier_Match(t *testing.T) {
	c := NewPrefixClassifier([]string{"System", "System.Text.Json", "Moq"})

	tests := []struct {
		id     string
		prefix string
		ok     bool
	}{
		{"System.Console.WriteLine", "System", true},
		{"System.Text.Json.JsonSerializer", "System.Text.Json", true},
		{"System", "System", true},
		{"SystemTools.Helper", "", false},
		{"Moq.Mock", "Moq", true},
		{"App.Services.Mailer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		prefix, ok := c.Match(tt.id)
		if ok != tt.ok || prefix != tt.prefix {
			t.Errorf("Match(%q) = (%q, %v), want (%q, %v)", tt.id, prefix, ok, tt.prefix, tt.ok)
		}
	}
}

func TestPrefixClassifier_LongestWins(t *testing.T) {
	// Insertion order must not matter; the longest prefix always matches
	// first.
	for _, prefixes := range [][]string{
		{"System", "System.Text"},
		{"System.Text", "System"},
	} {
		c := NewPrefixClassifier(prefixes)
		prefix, ok := c.Match("System.Text.Encoding")
		if !ok || prefix != "System.Text" {
			t.Errorf("NewPrefixClassifier(%v).Match = (%q, %v), want (System.Text, true)", prefixes, prefix, ok)
		}
	}
}

func TestPrefixClassifier_Defaults(t *testing.T) {
	c := NewPrefixClassifier(DefaultExternalPrefixes())

	for _, id := range []string{
		"System.Linq.Enumerable",
		"Microsoft.Extensions.Logging.ILogger",
		"Newtonsoft.Json.JsonConvert",
		"Xunit.Assert",
	} {
		if !c.IsExternal(id) {
			t.Errorf("IsExternal(%q) = false, want true", id)
		}
	}
	for _, id := range []string{
		"MyApp.Services.Mailer",
		"Systematic.Engine", // shares a prefix string, not a namespace segment
	} {
		if c.IsExternal(id) {
			t.Errorf("IsExternal(%q) = true, want false", id)
		}
	}
}
