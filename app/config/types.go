package config

import "strings"

// Lean is the editorial orientation of a podcast.
type Lean string

const (
	LeanRight   Lean = "right"
	LeanNeutral Lean = "neutral"
	LeanLeft    Lean = "left"
)

// Leans lists every lean in lane order (right, neutral, left).
var Leans = []Lean{LeanRight, LeanNeutral, LeanLeft}

func ParseLean(s string) (Lean, bool) {
	l := Lean(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Leans {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// Podcast is one roster entry
type Podcast struct {
	Name             string   `yaml:"name"`
	Host             string   `yaml:"host"`
	RSS              string   `yaml:"rss"`
	YouTubeChannelID string   `yaml:"youtube_channel_id"`
	TranscriptURL    string   `yaml:"transcript_url"`
	Filters          []Filter `yaml:"filters"`

	// Lean is taken from the roster section the podcast is listed under
	Lean Lean `yaml:"-"`
}

// HasTranscriptSource reports whether any transcript lookup is configured.
func (p *Podcast) HasTranscriptSource() bool {
	return p.TranscriptURL != "" || p.YouTubeChannelID != ""
}

// Filter drops episodes before they are stored
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
