package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	FetchProfile   string `long:"fetch-profile" env:"FETCH_PROFILE" description:"Path to fetch profile YAML (proxy chain and retry policy)"`
	DownloadDir    string `long:"download-dir" env:"DOWNLOAD_DIR" default:"./downloads" description:"Directory for saved images and export archives"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	ExportDelayMs  int    `long:"export-delay-ms" env:"EXPORT_DELAY_MS" default:"200" description:"Delay between bulk export items in milliseconds"`
	GroupByProduct bool   `long:"group-by-product" env:"GROUP_BY_PRODUCT" description:"Default export grouping: one archive folder per product"`

	// Fetch cache
	CacheEnabled bool   `long:"cache" env:"CACHE_ENABLED" description:"Enable the on-disk fetch cache"`
	CachePath    string `long:"cache-path" env:"CACHE_PATH" default:"./fetch-cache.db" description:"SQLite database file for the fetch cache"`
	CacheTTL     int    `long:"cache-ttl" env:"CACHE_TTL" default:"900" description:"Fetch cache TTL in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"" description:"Override user agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:           raw.Port,
		FetchProfile:   raw.FetchProfile,
		DownloadDir:    raw.DownloadDir,
		APIAccessKey:   raw.APIAccessKey,
		ExportDelayMs:  raw.ExportDelayMs,
		GroupByProduct: raw.GroupByProduct,
		CacheEnabled:   raw.CacheEnabled,
		CachePath:      raw.CachePath,
		CacheTTL:       raw.CacheTTL,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
