package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/vinmonopolet/internal/config"
	"github.com/IshaanNene/vinmonopolet/internal/engine"
	"github.com/IshaanNene/vinmonopolet/internal/fetcher"
	"github.com/IshaanNene/vinmonopolet/internal/observability"
	"github.com/IshaanNene/vinmonopolet/internal/pipeline"
	"github.com/IshaanNene/vinmonopolet/internal/storage"
	"github.com/IshaanNene/vinmonopolet/internal/types"
)

var (
	cfgFile     string
	verbose     bool
	outputPath  string
	outputType  string
	fetcherType string
	baseURL     string
	maxPages    int
	fields      []string
)

func main() {
	// Prices and percentages are printed as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd := &cobra.Command{
		Use:   "vinmonopolet",
		Short: "Vinmonopolet product catalog crawler",
		Long: `vinmonopolet reads the product catalog of www.vinmonopolet.no.

Commands:
  categories   list the category overview with product counts
  products     crawl every listing page for a set of filters
  product      read the full detail page of one product

Results are printed as JSON, or exported with --output to json, jsonl, csv
or mongodb.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "export directory (default: print to stdout)")
	rootCmd.PersistentFlags().StringVar(&outputType, "format", "", "export format: json, jsonl, csv, mongodb")
	rootCmd.PersistentFlags().StringVar(&fetcherType, "fetcher", "", "page fetcher: http, browser")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the store base URL")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", -1, "listing page limit (0 = unlimited, -1 = config default)")
	rootCmd.PersistentFlags().StringSliceVar(&fields, "fields", nil, "export only these record fields (comma-separated)")

	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session holds everything one command run needs.
type session struct {
	cfg     *config.Config
	engine  *engine.Engine
	fetcher fetcher.Fetcher
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// newSession loads config, applies flags and builds the engine.
func newSession() (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	var opts []engine.Option
	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(logger)
		metrics.StartServer(cfg.Metrics.Port, cfg.Metrics.Path)
		opts = append(opts, engine.WithMetrics(metrics))
	}

	eng, err := engine.New(cfg, f, logger, opts...)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return &session{cfg: cfg, engine: eng, fetcher: f, logger: logger, ctx: ctx, cancel: cancel}, nil
}

func (s *session) close() {
	s.cancel()
	if err := s.fetcher.Close(); err != nil {
		s.logger.Warn("close fetcher", "error", err)
	}
}

// emit prints v as JSON, or exports items when an output target is set.
func (s *session) emit(name string, v any, items []*types.Item) error {
	if outputPath == "" && outputType == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	pipe := pipeline.New(s.logger)
	pipe.Use(pipeline.NewDedupMiddleware())
	pipe.Use(pipeline.NewFieldFilterMiddleware(fields))
	items, err := pipe.ProcessAll(items)
	if err != nil {
		return err
	}

	store, err := storage.New(s.ctx, &s.cfg.Storage, name, s.logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if err := store.Store(items); err != nil {
		_ = store.Close()
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}
	s.logger.Info("export complete", "backend", store.Name(), "records", len(items))
	return nil
}

func (s *session) done(op string, start time.Time, args ...any) {
	s.logger.Info(op+" complete", append([]any{"elapsed", time.Since(start).Round(time.Millisecond)}, args...)...)
}

// setupLogger creates a structured logger.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = strings.ToLower(fetcherType)
	}
	if baseURL != "" {
		cfg.Site.BaseURL = baseURL
	}
	if maxPages >= 0 {
		cfg.Site.MaxPages = maxPages
	}
}
