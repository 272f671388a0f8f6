package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    int
	handler  func(rawURL string, params url.Values) (*Response, error)
	requests []url.Values
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string, params url.Values) (*Response, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, params)
	f.mu.Unlock()
	return f.handler(rawURL, params)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const outline1991 = `{"parse":{"title":"1991","sections":[
	{"toclevel":1,"line":"Events","index":"1"},
	{"toclevel":2,"line":"January","index":"2"},
	{"toclevel":1,"line":"Births","index":"3"},
	{"toclevel":1,"line":"Deaths","index":"4"},
	{"toclevel":1,"line":"Nobel Prizes","index":"5"}
]}}`

func sectionBody(markup string) *Response {
	escaped := strings.ReplaceAll(markup, `"`, `\"`)
	return &Response{StatusCode: 200, Body: []byte(`{"parse":{"text":{"*":"` + escaped + `"}}}`)}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "1991", PageTitle(1991))
	assert.Equal(t, "1", PageTitle(1))
}

func TestLocateSections(t *testing.T) {
	outline := []OutlineEntry{
		{Line: "Events", Level: 1, Index: 1},
		{Line: "Births", Level: 2, Index: 2},
		{Line: "BIRTHS", Level: 1, Index: 3},
		{Line: "events", Level: 1, Index: 7},
	}

	found := LocateSections(outline, DefaultSections)

	assert.Equal(t, 7, found[Events], "last top-level match should win")
	assert.Equal(t, 3, found[Births], "nested headings must be ignored")
	_, ok := found[Deaths]
	assert.False(t, ok, "missing sections should be absent")
}

func TestLocateSectionsEmptyOutline(t *testing.T) {
	assert.Empty(t, LocateSections(nil, DefaultSections))
}

func TestParseOutlineSkipsNonNumericIndex(t *testing.T) {
	body := []byte(`{"parse":{"sections":[
		{"toclevel":1,"line":"Events","index":"T-1"},
		{"toclevel":1,"line":"Births","index":"2"}
	]}}`)

	entries := parseOutline(body)

	require.Len(t, entries, 1)
	assert.Equal(t, OutlineEntry{Line: "Births", Level: 1, Index: 2}, entries[0])
}

func TestExtractListItems(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		limit    int
		expected []string
	}{
		{
			name:     "empty markup",
			markup:   "",
			limit:    20,
			expected: []string{},
		},
		{
			name:     "non-positive limit",
			markup:   "<ul><li>One</li></ul>",
			limit:    0,
			expected: []string{},
		},
		{
			name:     "inline elements joined by single spaces",
			markup:   `<ul><li><a href="/wiki/January_17">January 17</a> – <b>Gulf War</b>: Operation Desert Storm begins.</li></ul>`,
			limit:    20,
			expected: []string{"January 17 – Gulf War : Operation Desert Storm begins."},
		},
		{
			name:     "citation markers removed",
			markup:   `<ul><li>Something<sup>[1]</sup></li><li>Another<sup>[12]</sup> thing</li></ul>`,
			limit:    20,
			expected: []string{"Something", "Anotherthing"},
		},
		{
			name:     "non-breaking spaces around marker",
			markup:   "<ul><li>Some\u00a0[1]\u00a0thing</li></ul>",
			limit:    20,
			expected: []string{"Something"},
		},
		{
			name:     "blank items skipped",
			markup:   `<ul><li>  </li><li><sup>[3]</sup></li><li>Kept</li></ul>`,
			limit:    20,
			expected: []string{"Kept"},
		},
		{
			name:     "limit spans lists",
			markup:   `<ul><li>A</li><li>B</li></ul><p>x</p><ul><li>C</li><li>D</li></ul>`,
			limit:    3,
			expected: []string{"A", "B", "C"},
		},
		{
			name:     "no lists",
			markup:   `<p>Nothing to see</p>`,
			limit:    20,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractListItems(tt.markup, tt.limit))
		})
	}
}

func TestExtractListItemsNestedLists(t *testing.T) {
	markup := `<ul><li>January<ul><li>January 1 – Event</li></ul></li></ul>`

	items := ExtractListItems(markup, 20)

	assert.Equal(t, []string{"January January 1 – Event", "January 1 – Event"}, items)
}

func TestExtractListItemsBoundedByLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<ul>")
	for i := range 25 {
		fmt.Fprintf(&b, "<li>entry %d</li>", i)
	}
	b.WriteString("</ul>")

	expected := make([]string, 0, DefaultItemLimit)
	for i := range DefaultItemLimit {
		expected = append(expected, fmt.Sprintf("entry %d", i))
	}

	assert.Equal(t, expected, ExtractListItems(b.String(), DefaultItemLimit))
}

func TestClientSections(t *testing.T) {
	fetcher := &fakeFetcher{handler: func(_ string, params url.Values) (*Response, error) {
		assert.Equal(t, "parse", params.Get("action"))
		assert.Equal(t, "1991", params.Get("page"))

		switch params.Get("section") {
		case "":
			return &Response{StatusCode: 200, Body: []byte(outline1991)}, nil
		case "1":
			return sectionBody(`<ul><li>Event one</li><li>Event two</li></ul>`), nil
		case "3":
			return sectionBody(`<ul><li>Birth one<sup>[4]</sup></li></ul>`), nil
		case "4":
			return &Response{StatusCode: 500, Body: []byte("oops")}, nil
		}
		t.Errorf("unexpected section %q", params.Get("section"))
		return nil, errors.New("unexpected")
	}}

	client := NewClient(fetcher, "", "")
	sections := client.Sections(context.Background(), "1991", DefaultSections, 20)

	assert.Equal(t, map[SectionName][]string{
		Events: {"Event one", "Event two"},
		Births: {"Birth one"},
		Deaths: {},
	}, sections)
	assert.Equal(t, 4, fetcher.callCount())
}

func TestClientSectionsOutlineFailure(t *testing.T) {
	fetcher := &fakeFetcher{handler: func(string, url.Values) (*Response, error) {
		return nil, errors.New("connection refused")
	}}

	client := NewClient(fetcher, "", "")
	sections := client.Sections(context.Background(), "1991", DefaultSections, 20)

	require.Len(t, sections, 3)
	for _, name := range DefaultSections {
		assert.NotNil(t, sections[name])
		assert.Empty(t, sections[name])
	}
	assert.Equal(t, 1, fetcher.callCount(), "no section fetches after a failed outline")
}

func TestClientSectionsMalformedJSON(t *testing.T) {
	fetcher := &fakeFetcher{handler: func(string, url.Values) (*Response, error) {
		return &Response{StatusCode: 200, Body: []byte("<html>not json</html>")}, nil
	}}

	client := NewClient(fetcher, "", "")

	assert.Nil(t, client.Outline(context.Background(), "1991"))
	assert.Equal(t, "", client.SectionHTML(context.Background(), "1991", 1))
}

func TestClientSummary(t *testing.T) {
	var requested string
	fetcher := &fakeFetcher{handler: func(rawURL string, _ url.Values) (*Response, error) {
		requested = rawURL
		return &Response{StatusCode: 200, Body: []byte(`{
			"title": "1991",
			"extract": "1991 was a common year starting on Tuesday.",
			"thumbnail": {"source": "https://upload.example.org/1991.png", "width": 320}
		}`)}, nil
	}}

	client := NewClient(fetcher, "", "https://summary.example.org/page/summary/")
	summary := client.Summary(context.Background(), "1991")

	require.NotNil(t, summary)
	assert.Equal(t, "https://summary.example.org/page/summary/1991", requested)
	assert.Equal(t, "1991", *summary.Title)
	assert.Equal(t, "1991 was a common year starting on Tuesday.", *summary.Description)
	assert.Equal(t, "https://upload.example.org/1991.png", *summary.Thumbnail)
}

func TestClientSummaryMissingFields(t *testing.T) {
	fetcher := &fakeFetcher{handler: func(string, url.Values) (*Response, error) {
		return &Response{StatusCode: 200, Body: []byte(`{"title": "1991"}`)}, nil
	}}

	summary := NewClient(fetcher, "", "").Summary(context.Background(), "1991")

	require.NotNil(t, summary)
	assert.Equal(t, "1991", *summary.Title)
	assert.Nil(t, summary.Description)
	assert.Nil(t, summary.Thumbnail)
}

func TestClientSummaryFailures(t *testing.T) {
	tests := []struct {
		name string
		res  *Response
		err  error
	}{
		{name: "not found", res: &Response{StatusCode: 404, Body: []byte(`{"title":"Not found."}`)}},
		{name: "malformed body", res: &Response{StatusCode: 200, Body: []byte(`{"title":`)}},
		{name: "null body", res: &Response{StatusCode: 200, Body: []byte("null")}},
		{name: "transport error", err: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{handler: func(string, url.Values) (*Response, error) {
				return tt.res, tt.err
			}}
			assert.Nil(t, NewClient(fetcher, "", "").Summary(context.Background(), "1991"))
		})
	}
}

func TestExtractListItemsCitationExample(t *testing.T) {
	markup := `<ul><li>Some fact [1]</li><li></li><li>Another [23] thing</li></ul>`

	assert.Equal(t, []string{"Some fact", "Anotherthing"}, ExtractListItems(markup, 20))
}

func TestLocateSectionsIgnoresNestedDuplicate(t *testing.T) {
	outline := []OutlineEntry{
		{Line: "Events", Level: 1, Index: 3},
		{Line: "Events", Level: 2, Index: 4},
	}

	assert.Equal(t, map[SectionName]int{Events: 3}, LocateSections(outline, []SectionName{Events}))
}
