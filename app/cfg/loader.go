package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://yearbook.example.com)"`

	// Upstream configuration
	UserAgent      string  `long:"user-agent" env:"USER_AGENT" default:"Yearbook/1.0 (https://github.com/lysyi3m/yearbook)" description:"User agent string for outbound requests"`
	WikiAPIURL     string  `long:"wiki-api-url" env:"WIKI_API_URL" default:"https://en.wikipedia.org/w/api.php" description:"Page-parse API endpoint"`
	WikiSummaryURL string  `long:"wiki-summary-url" env:"WIKI_SUMMARY_URL" default:"https://en.wikipedia.org/api/rest_v1/page/summary/" description:"Page-summary API prefix"`
	RequestTimeout int     `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"15" description:"Outbound request timeout in seconds"`
	RateLimit      float64 `long:"rate-limit" env:"RATE_LIMIT" default:"10" description:"Outbound requests per second (0 disables pacing)"`
	RateBurst      int     `long:"rate-burst" env:"RATE_BURST" default:"5" description:"Outbound request burst size"`

	// Caching
	HTTPCacheTTL     int  `long:"http-cache-ttl" env:"HTTP_CACHE_TTL" default:"86400" description:"Response cache TTL in seconds"`
	DisableHTTPCache bool `long:"disable-http-cache" env:"DISABLE_HTTP_CACHE" description:"Disable the outbound response cache"`
	MemoSize         int  `long:"memo-size" env:"MEMO_SIZE" default:"512" description:"Number of years kept in the in-process memo"`

	// Application configuration
	SiteConfig  string `long:"site-config" env:"SITE_CONFIG" default:"./yearbook.yml" description:"Path to the site YAML configuration (optional)"`
	WarmPresets bool   `long:"warm-presets" env:"WARM_PRESETS" description:"Compute preset years in the background at startup"`
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background warm-up workers"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	cfg, err := parse(os.Args[1:])
	if err != nil || cfg == nil {
		return cfg, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// parse returns nil, nil when help was requested.
func parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Cfg{
		Port:             raw.Port,
		BaseUrl:          raw.BaseUrl,
		UserAgent:        raw.UserAgent,
		WikiAPIURL:       raw.WikiAPIURL,
		WikiSummaryURL:   raw.WikiSummaryURL,
		RequestTimeout:   time.Duration(raw.RequestTimeout) * time.Second,
		RateLimit:        raw.RateLimit,
		RateBurst:        raw.RateBurst,
		HTTPCacheTTL:     time.Duration(raw.HTTPCacheTTL) * time.Second,
		DisableHTTPCache: raw.DisableHTTPCache,
		MemoSize:         raw.MemoSize,
		SiteConfig:       raw.SiteConfig,
		WarmPresets:      raw.WarmPresets,
		WorkerCount:      raw.WorkerCount,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}, nil
}

func validate(raw *rawCfg) error {
	if raw.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if raw.HTTPCacheTTL <= 0 && !raw.DisableHTTPCache {
		return fmt.Errorf("http cache TTL must be positive")
	}
	if raw.MemoSize <= 0 {
		return fmt.Errorf("memo size must be positive")
	}
	if raw.WorkerCount <= 0 {
		return fmt.Errorf("worker count must be positive")
	}
	if raw.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
