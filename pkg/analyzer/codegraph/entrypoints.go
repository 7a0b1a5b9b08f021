package codegraph

import (
	"path/filepath"
	"strings"
)

// TypePredicate reports whether a type declaration looks like a framework
// or runtime entry point, given its simple name and declaring file path.
type TypePredicate func(name, file string) bool

// MethodPredicate reports whether a method name looks like a program
// start method.
type MethodPredicate func(name string) bool

// TypeNameSuffix matches type names ending in any of the given suffixes.
func TypeNameSuffix(suffixes ...string) TypePredicate {
	return func(name, _ string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	}
}

// FileBaseName matches declarations in files with any of the given base
// names.
func FileBaseName(names ...string) TypePredicate {
	return func(_, file string) bool {
		base := filepath.Base(file)
		for _, n := range names {
			if base == n {
				return true
			}
		}
		return false
	}
}

// MethodName matches method names exactly.
func MethodName(names ...string) MethodPredicate {
	return func(name string) bool {
		for _, n := range names {
			if name == n {
				return true
			}
		}
		return false
	}
}

// defaultTypePredicates covers the conventional application-entry type
// shapes: Program/Startup style classes and the files that hold them.
func defaultTypePredicates() []TypePredicate {
	return []TypePredicate{
		TypeNameSuffix("Program", "Application", "Startup", "App"),
		FileBaseName("Program.cs", "Startup.cs"),
	}
}

func defaultMethodPredicates() []MethodPredicate {
	return []MethodPredicate{
		MethodName("Main"),
	}
}
