package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/output"
	"github.com/auspexlabs/auspex/pkg/analyzer/codegraph"
)

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Summarize graph composition: node and edge counts by kind",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
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
		},
		Action: runStatsCmd,
	}
}

func runStatsCmd(c *cli.Context) error {
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

	var rows [][]string

	nodeKinds := make([]string, 0, len(g.Stats.NodesByKind))
	for k := range g.Stats.NodesByKind {
		nodeKinds = append(nodeKinds, k.String())
	}
	sort.Strings(nodeKinds)
	for _, k := range nodeKinds {
		rows = append(rows, []string{"node", k, fmt.Sprintf("%d", g.Stats.NodesByKind[codegraph.NodeKind(k)])})
	}

	edgeKinds := make([]string, 0, len(g.Stats.EdgesByKind))
	for k := range g.Stats.EdgesByKind {
		edgeKinds = append(edgeKinds, k.String())
	}
	sort.Strings(edgeKinds)
	for _, k := range edgeKinds {
		rows = append(rows, []string{"edge", k, fmt.Sprintf("%d", g.Stats.EdgesByKind[codegraph.EdgeKind(k)])})
	}

	summary := &output.Section{
		Title: "Run Summary",
		Content: fmt.Sprintf("Files analyzed: %d\nFiles skipped: %d\nUnused entities: %d",
			g.Stats.FilesAnalyzed, g.Stats.FilesSkipped, g.Stats.UnusedCount),
	}
	composition := output.NewTable(
		"Composition",
		[]string{"Category", "Kind", "Count"},
		rows,
		nil,
		g.Stats,
	)

	report := &output.Report{
		Title:    "Graph Statistics",
		Sections: []output.Renderable{summary, composition},
		Data:     g.Stats,
	}
	return formatter.Output(report)
}
