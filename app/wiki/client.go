package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

const (
	DefaultAPIURL     = "https://en.wikipedia.org/w/api.php"
	DefaultSummaryURL = "https://en.wikipedia.org/api/rest_v1/page/summary/"
)

// Client talks to the page-parse and page-summary endpoints. Its exported
// methods never return errors: every failure degrades to an empty result.
type Client struct {
	fetcher    Fetcher
	apiURL     string
	summaryURL string
}

func NewClient(fetcher Fetcher, apiURL, summaryURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if summaryURL == "" {
		summaryURL = DefaultSummaryURL
	}

	return &Client{
		fetcher:    fetcher,
		apiURL:     apiURL,
		summaryURL: summaryURL,
	}
}

// PageTitle maps a year to the page identifier used by the remote API.
func PageTitle(year int) string {
	return strconv.Itoa(year)
}

func (c *Client) parse(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("action", "parse")
	params.Set("format", "json")

	res, err := c.fetcher.Fetch(ctx, c.apiURL, params)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error: %d", res.StatusCode)
	}

	if !gjson.ValidBytes(res.Body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	return res.Body, nil
}
