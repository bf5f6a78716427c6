package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/vinmonopolet/internal/catalog"
	"github.com/IshaanNene/vinmonopolet/internal/config"
)

// categoriesCmd creates the "categories" subcommand.
func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories with their counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.close()

			start := time.Now()
			categories, err := s.engine.Categories(s.ctx)
			if err != nil {
				return err
			}
			s.done("categories", start, "categories", len(categories))
			return s.emit("categories", categories, catalog.CategoryItems(categories))
		},
	}
}

// productsCmd creates the "products" subcommand.
func productsCmd() *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Crawl all listing pages for a set of filters",
		Long: `Crawl every listing page matching the given filters and print all products.

Filters are id=value pairs as found on the category overview, e.g.

  vinmonopolet products -f 25=Alkoholfritt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := catalog.ParseFilterSet(filters)
			if err != nil {
				return err
			}

			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.close()

			start := time.Now()
			products, err := s.engine.ProductsByFilters(s.ctx, set)
			if err != nil {
				return err
			}
			s.done("products", start, "products", len(products))
			return s.emit("products", products, catalog.ProductItems(products))
		},
	}

	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "filter as id=value (repeatable)")
	_ = cmd.MarkFlagRequired("filter")
	return cmd
}

// productCmd creates the "product" subcommand.
func productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <sku>",
		Short: "Read the detail page of one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sku, err := strconv.Atoi(args[0])
			if err != nil || sku <= 0 {
				return fmt.Errorf("invalid sku %q: must be a positive integer", args[0])
			}

			s, err := newSession()
			if err != nil {
				return err
			}
			defer s.close()

			start := time.Now()
			detail, err := s.engine.ProductDetails(s.ctx, sku)
			if err != nil {
				return err
			}
			s.done("product", start, "sku", sku)
			return s.emit("product-"+args[0], detail, catalog.DetailItems(detail))
		},
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vinmonopolet %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCLIOverrides(cfg)

			fmt.Printf("Site:\n")
			fmt.Printf("  Base URL:          %s\n", cfg.Site.BaseURL)
			fmt.Printf("  Overview Path:     %s\n", cfg.Site.OverviewPath)
			fmt.Printf("  Search Path:       %s\n", cfg.Site.SearchPath)
			fmt.Printf("  Product Path:      %s\n", cfg.Site.ProductPath)
			fmt.Printf("  Max Pages:         %d\n", cfg.Site.MaxPages)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Printf("  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Printf("  User Agents:       %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("  Stealth:           %v\n", cfg.Fetcher.Stealth)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:       %s\n", cfg.Storage.OutputPath)
			if cfg.Storage.Type == "mongodb" {
				fmt.Printf("  Database:          %s.%s\n", cfg.Storage.Database, cfg.Storage.Collection)
			}
			fmt.Printf("\nLogging:\n")
			fmt.Printf("  Level:             %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:            %s\n", cfg.Logging.Format)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)

			if err := config.Validate(cfg); err != nil {
				fmt.Printf("\nWarning: %v\n", err)
			}
			return nil
		},
	}
}
