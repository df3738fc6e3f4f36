// Command svgfx converts the SVG filter definitions in a document to
// DrawingML effect markup.
//
// Usage:
//
//	svgfx -in drawing.svg                      # print id → effect markup
//	svgfx -in drawing.svg -policy rules.yaml   # with fallback policy
//	svgfx -in broken.svg -permissive           # tolerate malformed markup
//	svgfx -in drawing.svg -trace traces.db     # record outcomes to SQLite
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/svgfx/filters"
	"github.com/hazyhaar/svgfx/fxtrace"
	"github.com/hazyhaar/svgfx/policy"
	"github.com/hazyhaar/svgfx/svgdom"
)

func main() {
	inPath := flag.String("in", "", "path to the SVG document")
	policyPath := flag.String("policy", "", "path to a policy rules YAML file")
	tracePath := flag.String("trace", "", "path to a SQLite trace database")
	permissive := flag.Bool("permissive", false, "tolerate malformed markup")
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

	if err := run(ctx, logger, *inPath, *policyPath, *tracePath, *permissive); err != nil {
		logger.Error("svgfx: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inPath, policyPath, tracePath string, permissive bool) error {
	if inPath == "" {
		return fmt.Errorf("missing -in")
	}

	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", inPath, err)
	}
	defer f.Close()

	parse := svgdom.Parse
	if permissive {
		parse = svgdom.ParsePermissive
	}
	root, err := parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}

	cfg := filters.Config{Logger: logger}

	if policyPath != "" {
		rules, err := policy.LoadFile(policyPath)
		if err != nil {
			return err
		}
		cfg.Policy = rules
	}

	if tracePath != "" {
		db, err := sql.Open("sqlite", tracePath)
		if err != nil {
			return fmt.Errorf("open trace db: %w", err)
		}
		defer db.Close()
		store := fxtrace.NewStore(db)
		if err := store.Init(); err != nil {
			return fmt.Errorf("init trace db: %w", err)
		}
		defer store.Close()
		cfg.Trace = store
	}

	svc := filters.NewService(cfg)
	n := svc.RegisterDocument(root)
	logger.Info("document scanned", "path", inPath, "definitions", n, "conversion", svc.ConversionID())

	for _, el := range svgdom.FilterDefs(root) {
		id := el.Attr("id")
		fragment, ok := svc.FilterContent(ctx, id)
		if !ok {
			continue
		}
		fmt.Printf("%s\t%s\n", id, fragment)
	}

	stats := svc.Stats()
	logger.Info("conversion complete",
		"definitions", stats.Definitions,
		"results", stats.CachedResults)
	return nil
}
