package config

import (
	"time"

	"github.com/IshaanNene/vinmonopolet/internal/extract"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the catalog crawler.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"    yaml:"site"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// SiteConfig describes the store's URL layout and markup.
type SiteConfig struct {
	BaseURL      string            `mapstructure:"base_url"      yaml:"base_url"`
	OverviewPath string            `mapstructure:"overview_path" yaml:"overview_path"`
	SearchPath   string            `mapstructure:"search_path"   yaml:"search_path"`
	SearchQuery  string            `mapstructure:"search_query"  yaml:"search_query"`
	Sort         int               `mapstructure:"sort"          yaml:"sort"`
	SortMode     int               `mapstructure:"sort_mode"     yaml:"sort_mode"`
	ProductPath  string            `mapstructure:"product_path"  yaml:"product_path"`
	ProductQuery string            `mapstructure:"product_query" yaml:"product_query"`
	MaxPages     int               `mapstructure:"max_pages"     yaml:"max_pages"` // 0 = unlimited
	Selectors    extract.Selectors `mapstructure:"selectors"     yaml:"selectors"`
}

// FetcherConfig controls the document fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"` // http, browser
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
	AcceptLanguage  string        `mapstructure:"accept_language"   yaml:"accept_language"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"` // browser only
}

// StorageConfig controls where crawled records are exported.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"` // json, jsonl, csv, mongodb
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	Database   string `mapstructure:"database"    yaml:"database"`
	Collection string `mapstructure:"collection"  yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config pointing at www.vinmonopolet.no.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:      "https://www.vinmonopolet.no",
			OverviewPath: "/vareutvalg",
			SearchPath:   "/vareutvalg/sok",
			SearchQuery:  "*",
			Sort:         2,
			SortMode:     0,
			ProductPath:  "/vareutvalg/varedetaljer/sku-",
			ProductQuery: "?ShowShopsWithProdInStock=true",
			MaxPages:     500,
			Selectors:    extract.DefaultSelectors(),
		},
		Fetcher: FetcherConfig{
			Type:           "http",
			RequestTimeout: 30 * time.Second,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			AcceptLanguage:  "nb-NO,nb;q=0.9,no;q=0.8,en;q=0.5",
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    10,
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output",
			MongoURI:   "mongodb://localhost:27017",
			Database:   "vinmonopolet",
			Collection: "catalog",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
