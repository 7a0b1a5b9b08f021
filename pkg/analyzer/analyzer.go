package analyzer

import "context"

// FileAnalyzer is the interface that all file-based analyzers must implement.
// It provides a standard way to analyze collections of files with context support.
type FileAnalyzer[T any] interface {
	// Analyze processes a collection of files and returns the analysis result.
	// The context can be used for cancellation and progress reporting.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// ContentSource provides file content from a specific source, such as the
// filesystem or a git tree.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// SourceFileAnalyzer analyzes files whose content comes from a
// ContentSource rather than the filesystem directly.
type SourceFileAnalyzer[T any] interface {
	// Analyze processes the files, reading content through src.
	Analyze(ctx context.Context, files []string, src ContentSource) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
