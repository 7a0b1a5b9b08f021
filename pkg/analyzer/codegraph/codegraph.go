// Package codegraph extracts a containment and usage graph from C#
// declaration trees: namespaces, types, members, and locals as nodes,
// call/reference adjacency as edges, with per-entity liveness and
// external-library classification.
package codegraph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/auspexlabs/auspex/internal/fileproc"
	"github.com/auspexlabs/auspex/pkg/analyzer"
	"github.com/auspexlabs/auspex/pkg/csharp"
	"github.com/auspexlabs/auspex/pkg/parser"
	"github.com/auspexlabs/auspex/pkg/syntax"
)

// ErrNoInput is returned when the analyzer is given no files or trees.
var ErrNoInput = errors.New("no input files to analyze")

// Analyzer extracts the usage graph from a set of source files.
type Analyzer struct {
	entryTypes       []TypePredicate
	entryMethods     []MethodPredicate
	externalPrefixes []string
	maxFileSize      int64
	verbose          bool
}

// Option configures the analyzer.
type Option func(*Analyzer)

// WithEntryPointTypes replaces the default type-level entry point
// predicates.
func WithEntryPointTypes(preds ...TypePredicate) Option {
	return func(a *Analyzer) {
		a.entryTypes = preds
	}
}

// WithEntryPointMethods replaces the default method-level entry point
// predicates.
func WithEntryPointMethods(preds ...MethodPredicate) Option {
	return func(a *Analyzer) {
		a.entryMethods = preds
	}
}

// WithExternalPrefixes replaces the default external-namespace prefixes.
func WithExternalPrefixes(prefixes ...string) Option {
	return func(a *Analyzer) {
		a.externalPrefixes = prefixes
	}
}

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithVerbose enables per-file diagnostics on stderr.
func WithVerbose(verbose bool) Option {
	return func(a *Analyzer) {
		a.verbose = verbose
	}
}

// New creates a new graph analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		entryTypes:       defaultTypePredicates(),
		entryMethods:     defaultMethodPredicates(),
		externalPrefixes: DefaultExternalPrefixes(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compile-time check that Analyzer implements SourceFileAnalyzer.
var _ analyzer.SourceFileAnalyzer[*Graph] = (*Analyzer)(nil)

// Analyze parses the given files through src, binds a project-wide
// resolver, and extracts the graph. Parsing fans out across workers;
// accumulation runs sequentially over the extracted trees in sorted
// path order, so results do not depend on input order.
func (a *Analyzer) Analyze(ctx context.Context, files []string, src analyzer.ContentSource) (*Graph, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	// Callers pass files in whatever order they collected them; sorting
	// here fixes the symbol-index order too, so ambiguous simple names
	// resolve the same way on every run.
	sorted := make([]string, len(files))
	copy(sorted, files)
	sort.Strings(sorted)
	files = sorted

	extracted, errs := fileproc.MapSourceFiles(ctx, files, src, a.maxFileSize,
		func(p *parser.Parser, path string, content []byte) (*csharp.FileData, error) {
			result, err := p.Parse(content, parser.LangCSharp, path)
			if err != nil {
				return nil, fmt.Errorf("parse: %w", err)
			}
			return csharp.ExtractTree(result), nil
		})
	if errs != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if a.verbose {
			for _, pe := range errs.Errors {
				color.New(color.FgYellow).Fprintf(os.Stderr, "skipped %s: %v\n", pe.Path, pe.Err)
			}
		}
	}

	trees := csharp.Bind(extracted)
	g, err := a.AnalyzeTrees(ctx, trees)
	if err != nil {
		return nil, err
	}
	g.Stats.FilesSkipped += len(files) - len(trees)
	return g, nil
}

// AnalyzeTrees runs the collection and finalization phases over
// already-extracted declaration trees. Trees are visited in sorted
// path order into one shared accumulator; finalization runs once after
// the last tree, so cross-file references resolve regardless of how
// the caller ordered the input.
func (a *Analyzer) AnalyzeTrees(ctx context.Context, trees []*syntax.Tree) (*Graph, error) {
	if len(trees) == 0 {
		return nil, ErrNoInput
	}

	// Entity registration is first-wins on repeated ids, so the visit
	// order decides which file a shared declaration (a namespace split
	// across files, a partial class) is attributed to. Sort a copy so
	// that choice is stable.
	ordered := make([]*syntax.Tree, len(trees))
	copy(ordered, trees)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Path < ordered[j].Path })

	f := newFacts()
	for _, tree := range ordered {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		a.collectTree(f, tree)
	}

	return finalize(f, NewPrefixClassifier(a.externalPrefixes)), nil
}

// collectTree walks one tree, absorbing a panic from a malformed tree so
// a single bad file degrades the run instead of aborting it.
func (a *Analyzer) collectTree(f *facts, tree *syntax.Tree) {
	defer func() {
		if r := recover(); r != nil {
			f.filesSkipped++
			if a.verbose {
				color.New(color.FgYellow).Fprintf(os.Stderr, "skipped %s: %v\n", tree.Path, r)
			}
		}
	}()

	w := &walker{
		f:            f,
		entryTypes:   a.entryTypes,
		entryMethods: a.entryMethods,
	}
	w.walkTree(tree)
	f.filesAnalyzed++
}

// Close releases analyzer resources.
func (a *Analyzer) Close() {}
