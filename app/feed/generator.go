package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/yearbook/app/wiki"
	"github.com/lysyi3m/yearbook/app/year"
)

const defaultDescription = "Events, births and deaths of the year"

type Generator struct {
	baseURL string
	version string
	now     func() time.Time
}

func NewGenerator(baseURL, version string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		now:     time.Now,
	}
}

// Run renders one RSS 2.0 document for a year: one item per extracted entry,
// sections in display order.
func (g *Generator) Run(y int, data *year.Data) (string, error) {
	if data == nil {
		return "", fmt.Errorf("no data for year %d", y)
	}

	var buf bytes.Buffer

	title := fmt.Sprintf("%d - Yearbook", y)
	pageLink := fmt.Sprintf("%s/year/%d", g.baseURL, y)

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", pageLink, 4)

	description := defaultDescription
	if data.Summary != nil && data.Summary.Description != nil {
		description = cmp.Or(*data.Summary.Description, defaultDescription)
	}
	g.writeElement(&buf, "description", description, 4)

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(pageLink+"/feed.xml")))

	g.writeElement(&buf, "lastBuildDate", g.now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Yearbook/%s", g.version), 4)
	g.writeElement(&buf, "language", "en", 4)

	if data.Summary != nil && data.Summary.Thumbnail != nil && *data.Summary.Thumbnail != "" {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", *data.Summary.Thumbnail, 6)
		g.writeElement(&buf, "title", title, 6)
		g.writeElement(&buf, "link", pageLink, 6)
		buf.WriteString("    </image>\n")
	}

	for _, name := range wiki.DefaultSections {
		for i, entry := range data.Sections[name] {
			g.writeItem(&buf, y, name, i, entry, pageLink)
		}
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, y int, section wiki.SectionName, i int, entry, pageLink string) {
	anchor := strings.ToLower(string(section))

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(fmt.Sprintf("yearbook:%d:%s:%d", y, anchor, i)))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", entry, 6)
	g.writeElement(buf, "link", pageLink+"#"+anchor, 6)
	g.writeElement(buf, "description", entry, 6)
	g.writeElement(buf, "category", string(section), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
