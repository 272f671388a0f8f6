package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 15 * time.Second

// Response is the raw outcome of a single outbound GET.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher is the only outbound capability the extraction pipeline depends on.
// Caching, pacing and transport concerns live behind it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, params url.Values) (*Response, error)
}

type FetcherOptions struct {
	UserAgent         string
	Timeout           time.Duration
	Transport         http.RoundTripper
	RequestsPerSecond float64
	Burst             int
}

var _ Fetcher = (*RestyFetcher)(nil)

type RestyFetcher struct {
	http    *resty.Client
	limiter *rate.Limiter
	timeout time.Duration
}

func NewRestyFetcher(opts FetcherOptions) *RestyFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &RestyFetcher{
		http:    client,
		limiter: limiter,
		timeout: opts.Timeout,
	}
}

// Fetch performs one GET attempt. The timeout covers pacing and the request
// itself; a non-2xx status is not an error at this level.
func (f *RestyFetcher) Fetch(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req := f.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	res, err := req.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}

	return &Response{
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
	}, nil
}
