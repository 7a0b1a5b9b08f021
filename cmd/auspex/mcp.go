package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes auspex's
analyses as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "auspex": {
        "command": "auspex",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_graph    Dependency and usage graph extraction
  - analyze_unused   Entities never referenced from any method body
  - graph_stats      Graph composition summary`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the MCP server manifest (server.json) and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
