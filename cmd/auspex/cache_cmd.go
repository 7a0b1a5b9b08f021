package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/auspexlabs/auspex/internal/cache"
	"github.com/auspexlabs/auspex/internal/output"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the analysis result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry count and size",
				Action: runCacheStatsCmd,
			},
			{
				Name:   "clear",
				Usage:  "Remove all cached results",
				Action: runCacheClearCmd,
			},
		},
	}
}

func runCacheStatsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return err
	}

	stats, err := store.GetStats()
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(output.ParseFormat(c.String("format")), c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	table := output.NewTable(
		"Cache Statistics",
		[]string{"Metric", "Value"},
		[][]string{
			{"Entries", fmt.Sprintf("%d", stats.Entries)},
			{"Total size", fmt.Sprintf("%d bytes", stats.TotalSize)},
			{"Oldest entry", stats.OldestAge.Round(time.Second).String()},
			{"Newest entry", stats.NewestAge.Round(time.Second).String()},
		},
		nil,
		stats,
	)
	return formatter.Output(table)
}

func runCacheClearCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return err
	}

	if err := store.Clear(); err != nil {
		return err
	}
	color.Green("Cache cleared")
	return nil
}
