package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/lysyi3m/podcast-intel/app/database"
)

// Generator renders stored digests as an RSS 2.0 feed.
type Generator struct {
	baseURL string
	version string
}

func NewGenerator(baseURL, version string) *Generator {
	return &Generator{
		baseURL: baseURL,
		version: version,
	}
}

func (g *Generator) Run(digests []database.Digest) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", "Podcast Intelligence Digests", 4)
	g.writeElement(&buf, "link", g.baseURL+"/", 4)
	g.writeElement(&buf, "description", "Daily cross-lean podcast intelligence digests", 4)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(g.baseURL+"/digests.xml")))

	lastBuildDate := time.Now().In(time.Local)
	if len(digests) > 0 {
		if created, ok := parseCreatedAt(digests[0].CreatedAt); ok {
			lastBuildDate = created
		}
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Podcast-Intel/%s", g.version), 4)
	g.writeElement(&buf, "language", "en", 4)

	for _, d := range digests {
		g.writeItem(&buf, d)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, d database.Digest) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte("digest-"+d.ID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", "Podcast Intelligence — "+d.Date, 6)
	g.writeElement(buf, "link", g.baseURL+"/", 6)
	g.writeElement(buf, "description", d.ContentText, 6)

	if created, ok := parseCreatedAt(d.CreatedAt); ok {
		g.writeElement(buf, "pubDate", created.Format(time.RFC1123Z), 6)
	}

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

func parseCreatedAt(s string) (time.Time, bool) {
	t, err := time.Parse(database.TimestampLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
