// Command domremedy attaches accessibility fixes to a live rendered page.
//
// Usage:
//
//	domremedy -config domremedy.yaml        # attach per YAML config
//	domremedy -url https://example.com      # quick single-page attach
//	domremedy -fix page.html                # one-shot static repair to stdout
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazyhaar/domremedy"
)

func main() {
	configPath := flag.String("config", "", "path to domremedy.yaml config file")
	singleURL := flag.String("url", "", "attach to a single URL with defaults")
	fixPath := flag.String("fix", "", "repair a static HTML file, write result to stdout")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *singleURL, *fixPath); err != nil {
		logger.Error("domremedy: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, singleURL, fixPath string) error {
	if fixPath != "" {
		return runStatic(logger, fixPath)
	}

	var cfg *domremedy.Config
	switch {
	case configPath != "":
		c, err := domremedy.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = c
	case singleURL != "":
		cfg = &domremedy.Config{Logging: true}
		cfg.Page.URL = singleURL
	default:
		return fmt.Errorf("one of -config, -url, or -fix is required")
	}

	if !cfg.Logging {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r, err := domremedy.New(cfg, logger)
	if err != nil {
		return err
	}
	defer r.Stop()

	if err := r.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("domremedy: shutting down")
	return nil
}

func runStatic(logger *slog.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	out, results, err := domremedy.FixHTML(raw, nil, logger)
	if err != nil {
		return err
	}
	for _, fr := range results {
		logger.Info("domremedy: fix applied",
			"fix", fr.Name, "present", fr.Present, "touched", fr.Touched)
	}

	_, err = os.Stdout.Write(out)
	return err
}
