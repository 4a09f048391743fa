package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/export"
	"fintrack/internal/filter"
)

func main() {
	fs := flag.NewFlagSet("fintrack-export", flag.ExitOnError)
	search := fs.String("q", "", "only descriptions containing this text")
	typ := fs.String("type", "", "all, income or expense")
	category := fs.String("category", "", "category id")
	from := fs.String("from", "", "first date, YYYY-MM-DD")
	to := fs.String("to", "", "last date, YYYY-MM-DD")
	sortBy := fs.String("sort", "date", "date, amount or category")
	order := fs.String("order", "desc", "asc or desc")
	noHeader := fs.Bool("no-header", false, "omit the header row")
	out := fs.String("out", "", "output file, - for stdout (default EXPORT_DIR/expense-tracker-<timestamp>.csv)")
	_ = fs.Parse(os.Args[1:])

	cli.LoadEnvFile()
	logger := cli.SetupLoggerTo(os.Stderr, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	// A one-shot read needs no change notifications
	cfg.AMQPURL = ""

	criteria, err := filter.FromQuery(url.Values{
		filter.ParamSearch:   {*search},
		filter.ParamType:     {*typ},
		filter.ParamCategory: {*category},
		filter.ParamFrom:     {*from},
		filter.ParamTo:       {*to},
		filter.ParamSort:     {*sortBy},
		filter.ParamOrder:    {*order},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	be := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	txs := filter.Apply(be.Store.All(ctx), criteria)
	opts := export.Options{Header: !*noHeader}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.ExportDir, export.Filename(time.Now()))
	}
	if err := writeExport(path, func(w io.Writer) error {
		return export.Write(w, txs, be.Store.Registry(), opts)
	}); err != nil {
		logger.Error("Export failed", "error", err, "path", path)
		_ = be.Cleanup()
		os.Exit(1)
	}

	if path != "-" {
		logger.Info("Export written", "path", path, "rows", len(txs))
	}
}

func writeExport(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
