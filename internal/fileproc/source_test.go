package fileproc

import (
	"context"
	"fmt"
	"testing"

	"github.com/auspexlabs/auspex/pkg/parser"
)

type fakeSource map[string]string

func (f fakeSource) Read(path string) ([]byte, error) {
	content, ok := f[path]
	if !ok {
		return nil, fmt.Errorf("not found: %s", path)
	}
	return []byte(content), nil
}

func TestMapSourceFiles(t *testing.T) {
	src := fakeSource{
		"a.cs": "class A { }",
		"b.cs": "class B { }",
	}

	results, errs := MapSourceFiles(context.Background(), []string{"a.cs", "b.cs"}, src, 0,
		func(_ *parser.Parser, path string, content []byte) (string, error) {
			return fmt.Sprintf("%s:%d", path, len(content)), nil
		})

	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 2 || results[0] != "a.cs:11" || results[1] != "b.cs:11" {
		t.Errorf("results = %v", results)
	}
}

func TestMapSourceFiles_UnreadableCollected(t *testing.T) {
	src := fakeSource{"a.cs": "class A { }"}

	results, errs := MapSourceFiles(context.Background(), []string{"a.cs", "missing.cs"}, src, 0,
		func(_ *parser.Parser, path string, _ []byte) (string, error) {
			return path, nil
		})

	if len(results) != 1 || results[0] != "a.cs" {
		t.Errorf("results = %v", results)
	}
	if errs == nil || len(errs.Errors) != 1 || errs.Errors[0].Path != "missing.cs" {
		t.Errorf("errs = %v, want one error for missing.cs", errs)
	}
}

func TestMapSourceFiles_OversizedSkipped(t *testing.T) {
	src := fakeSource{
		"small.cs": "class A { }",
		"big.cs":   "class B { /* lots of generated code */ }",
	}

	results, errs := MapSourceFiles(context.Background(), []string{"small.cs", "big.cs"}, src, 20,
		func(_ *parser.Parser, path string, _ []byte) (string, error) {
			return path, nil
		})

	// Oversized files are skipped without an error entry.
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 1 || results[0] != "small.cs" {
		t.Errorf("results = %v, want [small.cs]", results)
	}
}

func TestMapSourceFiles_Empty(t *testing.T) {
	results, errs := MapSourceFiles(context.Background(), nil, fakeSource{}, 0,
		func(_ *parser.Parser, path string, _ []byte) (string, error) {
			return path, nil
		})
	if results != nil || errs != nil {
		t.Errorf("got %v, %v, want nil, nil", results, errs)
	}
}
