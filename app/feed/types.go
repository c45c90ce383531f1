package feed

import (
	"time"
)

// Item is one podcast episode as read from an RSS feed.
type Item struct {
	Title       string
	Description string
	Published   string     // raw pubDate text
	PublishedAt *time.Time // nil when the feed date could not be parsed
	AudioURL    string

	IsFiltered   bool
	FilterReason string
}

// Video is one entry of a YouTube channel feed.
type Video struct {
	ID    string
	Title string
}
