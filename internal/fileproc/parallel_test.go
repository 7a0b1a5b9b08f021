package fileproc

import (
	"errors"
	"strings"
	"testing"
)

func TestForEachFile_PreservesOrder(t *testing.T) {
	files := []string{"a.cs", "b.cs", "c.cs", "d.cs"}

	results := ForEachFile(files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	})

	want := []string{"A.CS", "B.CS", "C.CS", "D.CS"}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, results[i], want[i])
		}
	}
}

func TestForEachFile_SkipsFailures(t *testing.T) {
	files := []string{"ok1", "bad", "ok2"}

	results := ForEachFile(files, func(path string) (string, error) {
		if path == "bad" {
			return "", errors.New("boom")
		}
		return path, nil
	})

	if len(results) != 2 || results[0] != "ok1" || results[1] != "ok2" {
		t.Errorf("results = %v, want [ok1 ok2]", results)
	}
}

func TestForEachFile_Empty(t *testing.T) {
	if got := ForEachFile(nil, func(path string) (int, error) { return 0, nil }); got != nil {
		t.Errorf("ForEachFile(nil) = %v, want nil", got)
	}
}

func TestProcessingError_Message(t *testing.T) {
	e := ProcessingError{Path: "a.cs", Err: errors.New("boom")}
	if e.Error() != "a.cs: boom" {
		t.Errorf("Error() = %q", e.Error())
	}

	var errs ProcessingErrors
	errs.Add("a.cs", errors.New("boom"))
	if errs.Error() != "a.cs: boom" {
		t.Errorf("single error message = %q", errs.Error())
	}
	if !errs.HasErrors() {
		t.Error("HasErrors should report true")
	}

	errs.Add("b.cs", errors.New("bang"))
	if !strings.Contains(errs.Error(), "2 files failed") {
		t.Errorf("multi error message = %q", errs.Error())
	}
}
