package fileproc

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/auspexlabs/auspex/pkg/analyzer"
	"github.com/auspexlabs/auspex/pkg/parser"
	"github.com/auspexlabs/auspex/pkg/source"
)

// ContentSource is an alias for source.ContentSource.
type ContentSource = source.ContentSource

// fileWithContent holds a file path and its content.
type fileWithContent struct {
	path    string
	content []byte
}

// MapSourceFiles processes files from a ContentSource in parallel.
// Content is read sequentially up front (git trees dislike concurrent
// access), parsing fans out across workers, and results come back in
// input order. Progress is tracked via context using analyzer.WithTracker.
// The returned errors cover unreadable, oversized, and failed files.
func MapSourceFiles[T any](
	ctx context.Context,
	files []string,
	src ContentSource,
	maxSize int64,
	fn func(*parser.Parser, string, []byte) (T, error),
) ([]T, *ProcessingErrors) {
	if len(files) == 0 {
		return nil, nil
	}

	errs := &ProcessingErrors{}
	filesWithContent := make([]fileWithContent, 0, len(files))
	for _, path := range files {
		content, err := src.Read(path)
		if err != nil {
			errs.Add(path, err)
			continue
		}
		if maxSize > 0 && int64(len(content)) > maxSize {
			continue
		}
		filesWithContent = append(filesWithContent, fileWithContent{
			path:    path,
			content: content,
		})
	}

	tracker := analyzer.TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(filesWithContent))
	}

	maxWorkers := runtime.NumCPU() * DefaultWorkerMultiplier
	results := make([]T, len(filesWithContent))
	completed := make([]bool, len(filesWithContent))

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, fc := range filesWithContent {
		p.Go(func(ctx context.Context) error {
			defer func() {
				if tracker != nil {
					tracker.Tick(fc.path)
				}
			}()

			select {
			case <-ctx.Done():
				errs.Add(fc.path, ctx.Err())
				return ctx.Err()
			default:
			}

			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, fc.path, fc.content)
			if err != nil {
				errs.Add(fc.path, err)
				return nil
			}

			results[i] = result
			completed[i] = true
			return nil
		})
	}
	_ = p.Wait()

	out := compact(results, completed)
	if !errs.HasErrors() {
		return out, nil
	}
	return out, errs
}
