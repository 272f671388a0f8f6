package wiki

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
)

// Summary is the short description of a page. Any field may be nil when the
// remote API omits it.
type Summary struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

type summaryPayload struct {
	Title     *string `json:"title"`
	Extract   *string `json:"extract"`
	Thumbnail *struct {
		Source *string `json:"source"`
	} `json:"thumbnail"`
}

// Summary returns the page summary, or nil if the call or decoding fails.
func (c *Client) Summary(ctx context.Context, title string) *Summary {
	res, err := c.fetcher.Fetch(ctx, c.summaryURL+url.PathEscape(title), nil)
	if err != nil {
		slog.Debug("Summary fetch failed", "page", title, "error", err)
		return nil
	}

	if res.StatusCode != http.StatusOK {
		slog.Debug("Summary not available", "page", title, "status", res.StatusCode)
		return nil
	}

	var payload *summaryPayload
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		slog.Debug("Failed to decode summary", "page", title, "error", err)
		return nil
	}
	if payload == nil {
		slog.Debug("Summary body is empty", "page", title)
		return nil
	}

	summary := &Summary{
		Title:       payload.Title,
		Description: payload.Extract,
	}
	if payload.Thumbnail != nil {
		summary.Thumbnail = payload.Thumbnail.Source
	}

	return summary
}
