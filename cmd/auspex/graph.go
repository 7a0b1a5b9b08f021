package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/pkg/analyzer/codegraph"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Extract the dependency and usage graph from C# sources",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mermaid",
				Usage: "Render a Mermaid diagram instead of the node/edge listing",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Include PageRank and centrality metrics",
			},
			&cli.StringFlag{
				Name:  "rev",
				Usage: "Analyze files at the given git revision instead of the working tree",
			},
			&cli.StringSliceFlag{
				Name:  "entry-point",
				Usage: "Additional method names to treat as entry points",
			},
			&cli.StringSliceFlag{
				Name:  "external-prefix",
				Usage: "Namespace prefixes classified as external libraries (replaces defaults)",
			},
			&cli.IntFlag{
				Name:  "max-nodes",
				Usage: "Limit Mermaid output to N nodes (0 = no limit)",
			},
			&cli.BoolFlag{
				Name:  "used-only",
				Usage: "Exclude unused entities from Mermaid output",
			},
		},
		Action: runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	g, err := buildGraph(c, cfg)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	// Structured formats get the full graph, optionally with metrics.
	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		if c.Bool("metrics") {
			return formatter.Output(struct {
				Graph   *codegraph.Graph   `json:"graph" toon:"graph"`
				Metrics *codegraph.Metrics `json:"metrics" toon:"metrics"`
			}{g, g.CalculateMetrics()})
		}
		return formatter.Output(g)
	}

	if c.Bool("mermaid") {
		opts := codegraph.DefaultMermaidOptions()
		opts.IncludeUnused = !c.Bool("used-only")
		opts.MaxNodes = c.Int("max-nodes")

		if formatter.Format() == output.FormatMarkdown {
			fmt.Fprintln(formatter.Writer(), "```mermaid")
			fmt.Fprint(formatter.Writer(), g.RenderMermaid(opts))
			fmt.Fprintln(formatter.Writer(), "```")
		} else {
			fmt.Fprint(formatter.Writer(), g.RenderMermaid(opts))
		}
	} else {
		if err := renderGraphTable(formatter, g); err != nil {
			return err
		}
	}

	fmt.Fprintln(formatter.Writer())
	renderStats(formatter, g)

	if c.Bool("metrics") {
		renderMetrics(formatter, g.CalculateMetrics())
	}

	return nil
}

// renderGraphTable prints declared nodes with their liveness marker.
func renderGraphTable(formatter *output.Formatter, g *codegraph.Graph) error {
	var rows [][]string
	for _, n := range g.Nodes {
		if n.Kind.IsExternal() {
			continue
		}
		used := "used"
		if !n.Used {
			used = "unused"
		}
		if formatter.Colored() {
			used = output.UsageColor(n.Used, used)
		}
		location := ""
		if n.FilePath != "" {
			location = fmt.Sprintf("%s:%d", n.FilePath, n.LineNumber)
		}
		rows = append(rows, []string{
			n.ID,
			n.Kind.String(),
			used,
			location,
		})
	}

	table := output.NewTable(
		"Dependency Graph",
		[]string{"Entity", "Kind", "Usage", "Location"},
		rows,
		[]string{
			fmt.Sprintf("Nodes: %d", len(g.Nodes)),
			fmt.Sprintf("Edges: %d", len(g.Edges)),
			fmt.Sprintf("Unused: %d", g.Stats.UnusedCount),
		},
		g,
	)
	return formatter.Output(table)
}

// renderStats prints the run summary.
func renderStats(formatter *output.Formatter, g *codegraph.Graph) {
	w := formatter.Writer()
	if formatter.Colored() {
		color.Cyan("Analysis Summary:")
	} else {
		fmt.Fprintln(w, "Analysis Summary:")
	}
	fmt.Fprintf(w, "  Files analyzed: %d\n", g.Stats.FilesAnalyzed)
	fmt.Fprintf(w, "  Files skipped: %d\n", g.Stats.FilesSkipped)
	fmt.Fprintf(w, "  Nodes: %d\n", len(g.Nodes))
	fmt.Fprintf(w, "  Edges: %d\n", len(g.Edges))
	fmt.Fprintf(w, "  Unused entities: %d\n", g.Stats.UnusedCount)
}

// renderMetrics prints graph-level metrics and the top nodes by PageRank.
func renderMetrics(formatter *output.Formatter, metrics *codegraph.Metrics) {
	w := formatter.Writer()
	fmt.Fprintln(w)
	if formatter.Colored() {
		color.Cyan("Graph Metrics:")
	} else {
		fmt.Fprintln(w, "Graph Metrics:")
	}
	fmt.Fprintf(w, "  Nodes: %d\n", metrics.Summary.TotalNodes)
	fmt.Fprintf(w, "  Edges: %d\n", metrics.Summary.TotalEdges)
	fmt.Fprintf(w, "  Avg Degree: %.2f\n", metrics.Summary.AvgDegree)
	fmt.Fprintf(w, "  Density: %.4f\n", metrics.Summary.Density)
	fmt.Fprintf(w, "  Cycles: %d\n", metrics.Summary.CycleCount)

	if len(metrics.NodeMetrics) > 0 {
		fmt.Fprintln(w)
		if formatter.Colored() {
			color.Cyan("Top Nodes by PageRank:")
		} else {
			fmt.Fprintln(w, "Top Nodes by PageRank:")
		}
		nms := metrics.NodeMetrics
		sort.SliceStable(nms, func(i, j int) bool {
			return nms[i].PageRank > nms[j].PageRank
		})
		for i, nm := range nms {
			if i >= 5 {
				break
			}
			fmt.Fprintf(w, "  %s: %.4f (in: %d, out: %d)\n",
				nm.Label, nm.PageRank, nm.InDegree, nm.OutDegree)
		}
	}
}
