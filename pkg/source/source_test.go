package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/auspexlabs/auspex/internal/vcs"
)

func TestFilesystemSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "App.cs")
	if err := os.WriteFile(path, []byte("class App { }"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFilesystem()
	content, err := src.Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(content) != "class App { }" {
		t.Errorf("content = %q", content)
	}

	if _, err := src.Read(filepath.Join(t.TempDir(), "missing.cs")); err == nil {
		t.Error("reading a missing file should error")
	}
}

// fakeTree is an in-memory vcs.Tree.
type fakeTree struct {
	files map[string]string
}

func (f *fakeTree) File(path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, vcs.ErrNotFound)
	}
	return []byte(content), nil
}

func (f *fakeTree) Entries() ([]vcs.TreeEntry, error) {
	var entries []vcs.TreeEntry
	for path, content := range f.files {
		entries = append(entries, vcs.TreeEntry{Path: path, Size: int64(len(content))})
	}
	return entries, nil
}

func TestTreeSource(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string]string{
		"src/App.cs": "class App { }",
	}})

	content, err := src.Read("src/App.cs")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if string(content) != "class App { }" {
		t.Errorf("content = %q", content)
	}

	if _, err := src.Read("missing.cs"); err == nil {
		t.Error("reading a missing tree path should error")
	}
}

func TestTreeSource_Concurrent(t *testing.T) {
	src := NewTree(&fakeTree{files: map[string]string{
		"a.cs": "class A { }",
		"b.cs": "class B { }",
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		path := "a.cs"
		if i%2 == 0 {
			path = "b.cs"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := src.Read(path); err != nil {
				t.Errorf("Read(%s) error: %v", path, err)
			}
		}()
	}
	wg.Wait()
}
