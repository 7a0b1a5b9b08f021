package output

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"text", FormatText},
		{"", FormatText},
		{"garbage", FormatText},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newBufferFormatter(t *testing.T, format Format) (*Formatter, *bytes.Buffer) {
	t.Helper()
	f, err := NewFormatter(format, "", false)
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	f.writer = buf
	return f, buf
}

func TestFormatter_OutputJSON(t *testing.T) {
	f, buf := newBufferFormatter(t, FormatJSON)

	if err := f.Output(map[string]int{"nodes": 3}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded["nodes"] != 3 {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestFormatter_OutputTOON(t *testing.T) {
	f, buf := newBufferFormatter(t, FormatTOON)

	if err := f.Output(map[string]any{"count": 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "count") {
		t.Errorf("TOON output missing key: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("TOON output should end with a newline")
	}
}

func TestFormatter_OutputMarkdownRaw(t *testing.T) {
	f, buf := newBufferFormatter(t, FormatMarkdown)

	if err := f.Output(map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "```json\n") || !strings.Contains(out, "```\n") {
		t.Errorf("raw markdown should fence JSON: %q", out)
	}
}

func TestFormatter_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.Colored() {
		t.Error("file output should disable colors")
	}
	if err := f.Output(map[string]int{"n": 1}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTable_RenderText(t *testing.T) {
	table := NewTable("Graph", []string{"Entity", "Used"},
		[][]string{
			{"App.Order", "yes"},
			{"App.Dead", "no"},
		},
		[]string{"Total", "2"}, nil)

	buf := &bytes.Buffer{}
	if err := table.RenderText(buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Graph", "App.Order", "App.Dead", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("text table missing %q:\n%s", want, out)
		}
	}
}

func TestTable_RenderMarkdown(t *testing.T) {
	table := NewTable("Graph", []string{"Entity", "Used"},
		[][]string{{"App.Order", "yes"}}, nil, nil)

	buf := &bytes.Buffer{}
	if err := table.RenderMarkdown(buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "## Graph") {
		t.Error("markdown table missing title heading")
	}
	if !strings.Contains(out, "| Entity | Used |") {
		t.Errorf("markdown table missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| --- | --- |") {
		t.Error("markdown table missing separator row")
	}
}

func TestTable_RenderData(t *testing.T) {
	table := NewTable("", []string{"A", "B"}, [][]string{{"1", "2"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok || len(data) != 1 || data[0]["A"] != "1" || data[0]["B"] != "2" {
		t.Errorf("RenderData = %v", table.RenderData())
	}

	// Wrapped structured data takes precedence over rows.
	wrapped := NewTable("", nil, nil, nil, map[string]int{"n": 1})
	if _, ok := wrapped.RenderData().(map[string]int); !ok {
		t.Error("RenderData should return the wrapped data")
	}
}

func TestSection_Render(t *testing.T) {
	s := &Section{
		Title:   "Summary",
		Content: "3 nodes",
		Sections: []Section{
			{Title: "Detail", Content: "1 unused"},
		},
	}

	buf := &bytes.Buffer{}
	if err := s.RenderText(buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Summary\n=======") {
		t.Errorf("top section should be = underlined:\n%s", out)
	}
	if !strings.Contains(out, "Detail\n------") {
		t.Errorf("nested section should be - underlined:\n%s", out)
	}

	buf.Reset()
	if err := s.RenderMarkdown(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "## Summary") || !strings.Contains(buf.String(), "### Detail") {
		t.Errorf("markdown headings wrong:\n%s", buf.String())
	}
}

func TestReport_Render(t *testing.T) {
	r := &Report{
		Title: "Graph Statistics",
		Sections: []Renderable{
			&Section{Title: "Run Summary", Content: "Files analyzed: 2"},
			NewTable("Composition", []string{"Kind", "Count"}, [][]string{{"Class", "3"}}, nil, nil),
		},
		Data: map[string]int{"files": 2},
	}

	buf := &bytes.Buffer{}
	if err := r.RenderText(buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Graph Statistics") || !strings.Contains(out, "Run Summary") {
		t.Errorf("text report missing sections:\n%s", out)
	}

	buf.Reset()
	if err := r.RenderMarkdown(buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "# Graph Statistics") || !strings.Contains(buf.String(), "## Composition") {
		t.Errorf("markdown report headings wrong:\n%s", buf.String())
	}

	// Wrapped data takes precedence for structured formats.
	if _, ok := r.RenderData().(map[string]int); !ok {
		t.Error("RenderData should return the wrapped data")
	}
}

func TestMarshalTOON(t *testing.T) {
	out, err := MarshalTOON(map[string]any{"kind": "Class"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "kind") {
		t.Errorf("MarshalTOON = %q", out)
	}
}
