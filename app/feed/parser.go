package feed

import (
	"bytes"
	"cmp"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

const (
	maxDescriptionLength = 2000
	untitled             = "Untitled"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) ([]Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	description := strings.TrimSpace(item.Description)
	if description == "" && item.ITunesExt != nil {
		description = strings.TrimSpace(item.ITunesExt.Summary)
	}

	normalized := Item{
		Title:       cmp.Or(strings.TrimSpace(item.Title), untitled),
		Description: truncate(description, maxDescriptionLength),
		Published:   strings.TrimSpace(item.Published),
		PublishedAt: item.PublishedParsed,
	}

	// First enclosure carries the audio
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		normalized.AudioURL = item.Enclosures[0].URL
	}

	return normalized
}

// EpisodeID is the stable identity of an episode across repeated fetches.
func EpisodeID(podcastName, title, published string) string {
	hash := md5.Sum([]byte(podcastName + "|" + title + "|" + published))
	return hex.EncodeToString(hash[:])
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
