package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/output"
)

func unusedCmd() *cli.Command {
	return &cli.Command{
		Name:      "unused",
		Aliases:   []string{"dead"},
		Usage:     "List entities never referenced from any method body",
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
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Only show entities of this kind: Class, Method, Property, Variable",
			},
		},
		Action: runUnusedCmd,
	}
}

func runUnusedCmd(c *cli.Context) error {
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

	kindFilter := c.String("kind")
	unused := g.Unused()

	var rows [][]string
	shown := 0
	for _, n := range unused {
		if kindFilter != "" && n.Kind.String() != kindFilter {
			continue
		}
		shown++
		location := ""
		if n.FilePath != "" {
			location = fmt.Sprintf("%s:%d", n.FilePath, n.LineNumber)
		}
		rows = append(rows, []string{
			n.ID,
			n.Kind.String(),
			n.DeclaredType,
			location,
		})
	}

	if shown == 0 && formatter.Format() == output.FormatText {
		color.Green("No unused entities found")
		return nil
	}

	table := output.NewTable(
		"Unused Entities",
		[]string{"Entity", "Kind", "Type", "Location"},
		rows,
		[]string{
			fmt.Sprintf("Unused: %d", shown),
			fmt.Sprintf("Total nodes: %d", len(g.Nodes)),
			fmt.Sprintf("Files analyzed: %d", g.Stats.FilesAnalyzed),
		},
		unused,
	)
	return formatter.Output(table)
}
