package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/internal/scanner"
	"github.com/auspexlabs/auspex/pkg/analyzer/codegraph"
	"github.com/auspexlabs/auspex/pkg/config"
	"github.com/auspexlabs/auspex/pkg/source"
)

// AnalyzeInput is the base input for all analyze tools.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// GraphInput adds graph-specific options.
type GraphInput struct {
	AnalyzeInput
	EntryPoints      []string `json:"entry_points,omitempty" jsonschema:"Additional method names treated as entry points."`
	ExternalPrefixes []string `json:"external_prefixes,omitempty" jsonschema:"Namespace prefixes classified as external libraries. Replaces the defaults."`
	IncludeMetrics   bool     `json:"include_metrics,omitempty" jsonschema:"Include PageRank and centrality metrics."`
	Mermaid          bool     `json:"mermaid,omitempty" jsonschema:"Return a Mermaid diagram instead of the node/edge listing."`
}

// UnusedInput adds liveness-report options.
type UnusedInput struct {
	AnalyzeInput
	EntryPoints []string `json:"entry_points,omitempty" jsonschema:"Additional method names treated as entry points."`
	Kind        string   `json:"kind,omitempty" jsonschema:"Only report entities of this kind: Class, Method, Property, or Variable."`
}

// StatsInput is the input for the graph_stats tool.
type StatsInput struct {
	AnalyzeInput
}

// Helper functions

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(data any, format output.Format) (string, error) {
	if format == output.FormatJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	out, err := output.MarshalTOON(data)
	if err != nil {
		return "", err
	}
	if format == output.FormatMarkdown {
		return "```\n" + out + "\n```", nil
	}
	return out, nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	// Oversized results blow the caller's context window; better to ask
	// for a narrower scope than to return a truncated graph.
	if tokens := output.EstimateTokens(text); tokens > output.DefaultBudget {
		return toolError(fmt.Sprintf(
			"result is ~%s tokens, exceeding the %s budget; narrow the paths or filter by kind",
			output.FormatTokenCount(tokens), output.FormatTokenCount(output.DefaultBudget)))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// buildGraph scans the given paths and extracts the usage graph.
func buildGraph(ctx context.Context, paths, entryPoints, externalPrefixes []string) (*codegraph.Graph, error) {
	cfg := config.LoadOrDefault()
	scan := scanner.NewScanner(cfg)

	var files []string
	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, codegraph.ErrNoInput
	}

	methods := cfg.Analysis.EntryPointMethods
	if len(entryPoints) > 0 {
		methods = append(append([]string{}, methods...), entryPoints...)
	}
	prefixes := cfg.Analysis.ExternalPrefixes
	if len(externalPrefixes) > 0 {
		prefixes = externalPrefixes
	}

	a := codegraph.New(
		codegraph.WithEntryPointTypes(
			codegraph.TypeNameSuffix(cfg.Analysis.EntryPointTypeSuffixes...),
			codegraph.FileBaseName(cfg.Analysis.EntryPointFiles...),
		),
		codegraph.WithEntryPointMethods(codegraph.MethodName(methods...)),
		codegraph.WithExternalPrefixes(prefixes...),
		codegraph.WithMaxFileSize(cfg.Analysis.MaxFileSize),
	)
	defer a.Close()

	return a.Analyze(ctx, files, source.NewFilesystem())
}

// Tool handlers

func handleAnalyzeGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	g, err := buildGraph(ctx, getPaths(input.AnalyzeInput), input.EntryPoints, input.ExternalPrefixes)
	if err != nil {
		return toolError(err.Error())
	}

	if input.Mermaid {
		diagram := g.RenderMermaid(codegraph.DefaultMermaidOptions())
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: diagram},
			},
		}, nil, nil
	}

	if input.IncludeMetrics {
		result := struct {
			Graph   *codegraph.Graph   `json:"graph" toon:"graph"`
			Metrics *codegraph.Metrics `json:"metrics" toon:"metrics"`
		}{g, g.CalculateMetrics()}
		return toolResult(result, format)
	}

	return toolResult(g, format)
}

func handleAnalyzeUnused(ctx context.Context, req *mcp.CallToolRequest, input UnusedInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	g, err := buildGraph(ctx, getPaths(input.AnalyzeInput), input.EntryPoints, nil)
	if err != nil {
		return toolError(err.Error())
	}

	unused := g.Unused()
	if input.Kind != "" {
		filtered := unused[:0]
		for _, n := range unused {
			if n.Kind.String() == input.Kind {
				filtered = append(filtered, n)
			}
		}
		unused = filtered
	}

	result := struct {
		Unused []codegraph.Node `json:"unused" toon:"unused"`
		Stats  codegraph.Stats  `json:"stats" toon:"stats"`
	}{unused, g.Stats}
	return toolResult(result, format)
}

func handleGraphStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.AnalyzeInput)

	g, err := buildGraph(ctx, getPaths(input.AnalyzeInput), nil, nil)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(g.Stats, format)
}
