package wiki

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
)

type SectionName string

const (
	Events SectionName = "Events"
	Births SectionName = "Births"
	Deaths SectionName = "Deaths"
)

// DefaultSections is the fixed set of sections extracted for every year, in
// display order.
var DefaultSections = []SectionName{Events, Births, Deaths}

// OutlineEntry is one heading of a page outline.
type OutlineEntry struct {
	Line  string
	Level int
	Index int
}

// Outline returns the section outline of a page, or nil when it cannot be
// fetched or decoded.
func (c *Client) Outline(ctx context.Context, title string) []OutlineEntry {
	body, err := c.parse(ctx, url.Values{
		"page": {title},
		"prop": {"sections"},
	})
	if err != nil {
		slog.Debug("Outline fetch failed", "page", title, "error", err)
		return nil
	}

	return parseOutline(body)
}

func parseOutline(body []byte) []OutlineEntry {
	var entries []OutlineEntry

	gjson.GetBytes(body, "parse.sections").ForEach(func(_, section gjson.Result) bool {
		index, err := strconv.Atoi(section.Get("index").String())
		if err != nil {
			// Transcluded sections carry indexes like "T-1" and cannot be fetched by number.
			return true
		}

		entries = append(entries, OutlineEntry{
			Line:  section.Get("line").String(),
			Level: int(section.Get("toclevel").Int()),
			Index: index,
		})
		return true
	})

	return entries
}

// LocateSections maps each wanted name to the index of its top-level heading.
// Matching is case-insensitive and the last top-level match wins; names
// without a match are absent from the result.
func LocateSections(outline []OutlineEntry, wanted []SectionName) map[SectionName]int {
	fold := cases.Fold()

	found := make(map[SectionName]int, len(wanted))
	for _, entry := range outline {
		if entry.Level != 1 {
			continue
		}

		line := fold.String(entry.Line)
		for _, name := range wanted {
			if line == fold.String(string(name)) {
				found[name] = entry.Index
			}
		}
	}

	return found
}

// SectionHTML returns the rendered markup of one section, or "" on failure.
func (c *Client) SectionHTML(ctx context.Context, title string, index int) string {
	body, err := c.parse(ctx, url.Values{
		"page":    {title},
		"prop":    {"text"},
		"section": {strconv.Itoa(index)},
	})
	if err != nil {
		slog.Debug("Section fetch failed", "page", title, "section", index, "error", err)
		return ""
	}

	return gjson.GetBytes(body, `parse.text.\*`).String()
}

// Sections extracts the list items of every wanted section. Every name is
// present in the result; sections that are missing or fail to load map to an
// empty slice.
func (c *Client) Sections(ctx context.Context, title string, names []SectionName, limit int) map[SectionName][]string {
	results := make(map[SectionName][]string, len(names))
	for _, name := range names {
		results[name] = []string{}
	}

	found := LocateSections(c.Outline(ctx, title), names)
	if len(found) == 0 {
		return results
	}

	var mu sync.Mutex
	var g errgroup.Group
	for name, index := range found {
		g.Go(func() error {
			items := ExtractListItems(c.SectionHTML(ctx, title, index), limit)

			mu.Lock()
			results[name] = items
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
