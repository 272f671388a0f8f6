package wiki

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const DefaultItemLimit = 20

var citationMarker = regexp.MustCompile(`[\s\p{Z}]*\[\d+\][\s\p{Z}]*`)

// ExtractListItems collects the text of the direct li children of every ul in
// the markup, in document order, with citation markers removed. Collection
// stops once limit items are gathered.
func ExtractListItems(markup string, limit int) []string {
	items := []string{}
	if markup == "" || limit <= 0 {
		return items
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		slog.Debug("Failed to parse section markup", "error", err)
		return items
	}

	doc.Find("ul").EachWithBreak(func(_ int, list *goquery.Selection) bool {
		list.ChildrenFiltered("li").EachWithBreak(func(_ int, item *goquery.Selection) bool {
			text := citationMarker.ReplaceAllString(nodeText(item.Get(0)), "")
			if text != "" {
				items = append(items, text)
			}
			return len(items) < limit
		})
		return len(items) < limit
	})

	return items
}

// nodeText joins the trimmed, non-empty text nodes under n with single spaces.
func nodeText(n *html.Node) string {
	var parts []string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if text := strings.TrimSpace(node.Data); text != "" {
				parts = append(parts, text)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(parts, " ")
}
