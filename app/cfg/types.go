package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port    string
	BaseUrl string

	// Upstream configuration
	UserAgent      string
	WikiAPIURL     string
	WikiSummaryURL string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int

	// Caching
	HTTPCacheTTL     time.Duration
	DisableHTTPCache bool
	MemoSize         int

	// Application configuration
	SiteConfig  string
	WarmPresets bool
	WorkerCount int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// PublicBaseURL returns the configured base URL or a localhost fallback.
func (c *Cfg) PublicBaseURL() string {
	if c.BaseUrl != "" {
		return c.BaseUrl
	}
	return "http://localhost:" + c.Port
}
