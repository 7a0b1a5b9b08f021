package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/cache"
	"github.com/auspexlabs/auspex/internal/fileproc"
	"github.com/auspexlabs/auspex/internal/progress"
	"github.com/auspexlabs/auspex/internal/scanner"
	"github.com/auspexlabs/auspex/internal/vcs"
	"github.com/auspexlabs/auspex/pkg/analyzer"
	"github.com/auspexlabs/auspex/pkg/analyzer/codegraph"
	"github.com/auspexlabs/auspex/pkg/config"
	"github.com/auspexlabs/auspex/pkg/parser"
	"github.com/auspexlabs/auspex/pkg/source"
)

// loadConfig loads the config named by --config, or searches standard
// locations.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(), nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// analyzerOptions translates config and command flags into analyzer options.
func analyzerOptions(c *cli.Context, cfg *config.Config) []codegraph.Option {
	methods := cfg.Analysis.EntryPointMethods
	if extra := c.StringSlice("entry-point"); len(extra) > 0 {
		methods = append(append([]string{}, methods...), extra...)
	}

	prefixes := cfg.Analysis.ExternalPrefixes
	if override := c.StringSlice("external-prefix"); len(override) > 0 {
		prefixes = override
	}

	return []codegraph.Option{
		codegraph.WithEntryPointTypes(
			codegraph.TypeNameSuffix(cfg.Analysis.EntryPointTypeSuffixes...),
			codegraph.FileBaseName(cfg.Analysis.EntryPointFiles...),
		),
		codegraph.WithEntryPointMethods(codegraph.MethodName(methods...)),
		codegraph.WithExternalPrefixes(prefixes...),
		codegraph.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		codegraph.WithVerbose(c.Bool("verbose")),
	}
}

// collectFiles scans the given paths for C# sources.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	scan := scanner.NewScanner(cfg)

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// revFiles lists C# files in the tree of the given revision, applying
// the configured exclusions.
func revFiles(cfg *config.Config, path, rev string) ([]string, vcs.Tree, string, error) {
	repo, err := vcs.DefaultOpener().PlainOpenWithDetect(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("open repository at %s: %w", path, err)
	}
	hash, err := repo.ResolveRevision(rev)
	if err != nil {
		return nil, nil, "", err
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, nil, "", err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, nil, "", err
	}

	entries, err := tree.Entries()
	if err != nil {
		return nil, nil, "", err
	}
	var files []string
	for _, e := range entries {
		if parser.DetectLanguage(e.Path) == parser.LangUnknown {
			continue
		}
		if cfg.ShouldExclude(e.Path) {
			continue
		}
		files = append(files, e.Path)
	}
	return files, tree, hash.String(), nil
}

// contentFingerprint hashes the content of all files so cached graphs
// are invalidated when any input changes. Hashing fans out across
// workers; lines come back in input order, so the fingerprint is stable.
func contentFingerprint(files []string) string {
	lines := fileproc.ForEachFile(files, func(path string) (string, error) {
		h, err := cache.HashFile(path)
		if err != nil {
			h = "unreadable"
		}
		return path + ":" + h, nil
	})
	return cache.HashBytes([]byte(strings.Join(lines, "\n")))
}

// buildGraph runs the full pipeline: file discovery, optional cache
// lookup, parallel parse, and graph extraction.
func buildGraph(c *cli.Context, cfg *config.Config) (*codegraph.Graph, error) {
	paths := getPaths(c)
	rev := c.String("rev")

	var (
		files       []string
		src         source.ContentSource
		fingerprint string
	)

	useCache := cfg.Cache.Enabled && !c.Bool("no-cache")

	if rev != "" {
		var (
			tree vcs.Tree
			err  error
		)
		files, tree, fingerprint, err = revFiles(cfg, paths[0], rev)
		if err != nil {
			return nil, err
		}
		src = source.NewTree(tree)
	} else {
		var err error
		files, err = collectFiles(cfg, paths)
		if err != nil {
			return nil, err
		}
		files, _ = scanner.FilterBySize(files, cfg.Analysis.MaxFileSize)
		src = source.NewFilesystem()
		if useCache {
			fingerprint = contentFingerprint(files)
		}
	}

	if len(files) == 0 {
		return nil, codegraph.ErrNoInput
	}

	key := cache.Key("graph",
		strings.Join(cfg.Analysis.EntryPointTypeSuffixes, ","),
		strings.Join(cfg.Analysis.EntryPointFiles, ","),
		strings.Join(cfg.Analysis.EntryPointMethods, ","),
		strings.Join(c.StringSlice("entry-point"), ","),
		strings.Join(cfg.Analysis.ExternalPrefixes, ","),
		strings.Join(c.StringSlice("external-prefix"), ","),
		rev,
	)

	var store *cache.Cache
	if useCache {
		var err error
		store, err = cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
		if err == nil {
			if data, ok := store.GetWithHash(key, fingerprint); ok {
				var g codegraph.Graph
				if err := json.Unmarshal(data, &g); err == nil {
					return &g, nil
				}
			}
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	a := codegraph.New(analyzerOptions(c, cfg)...)
	defer a.Close()

	bar := progress.NewTracker("Analyzing C# sources...", len(files))
	tracker := analyzer.NewTracker(func(current, total int, path string) {
		bar.Tick()
	})
	ctx = analyzer.WithTracker(ctx, tracker)

	g, err := a.Analyze(ctx, files, src)
	if err != nil {
		bar.FinishError(err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	bar.FinishSuccess()

	if store != nil {
		if data, err := json.Marshal(g); err == nil {
			_ = store.SetWithHash(key, fingerprint, data)
		}
	}

	return g, nil
}
