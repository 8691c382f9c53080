package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/crossjudge/internal/rankcli"
	"github.com/okian/crossjudge/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	cfg := &rankcli.Config{}
	help := flag.Bool("help", false, "Show help")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.StringVar(&cfg.BaseURL, "url", "", "Base URL of a crossjudge server; empty ranks in-process")
	flag.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flag.StringVar(&cfg.ProblemFile, "problem", "", "JSON file holding the query problem")
	flag.StringVar(&cfg.CatalogID, "catalog-id", "", "Catalog entry to use as the query")
	flag.StringVar(&cfg.ID, "id", "", "Problem id, e.g. leetcode:1")
	flag.StringVar(&cfg.Platform, "platform", "", "Problem platform")
	flag.StringVar(&cfg.Title, "title", "", "Problem title")
	flag.StringVar(&cfg.Tags, "tags", "", "Comma separated tags")
	flag.StringVar(&cfg.Difficulty, "difficulty", "", "Difficulty label or rating")
	flag.StringVar(&cfg.Constraints, "constraints", "", "Constraint text")
	flag.StringVar(&cfg.Description, "description", "", "Problem statement")
	flag.BoolVar(&cfg.JSON, "json", false, "Print JSON")
	flag.Parse()

	if *help {
		rankcli.ShowHelp(os.Stdout)
		return
	}

	if err := logger.InitWithWriter(os.Stderr, "text"); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	cfg.Logger = logger.Get().Named("rank")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rankcli.Run(ctx, cfg, os.Stdout); err != nil {
		os.Stderr.WriteString("rank failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
