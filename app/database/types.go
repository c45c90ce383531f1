package database

import (
	"github.com/lysyi3m/podcast-intel/app/config"
)

type Episode struct {
	ID             string // md5 of podcast|title|published
	PodcastName    string
	Lean           config.Lean
	Title          string
	Published      string // raw feed text, format varies by publisher
	Description    string
	AudioURL       string
	Transcript     string
	Analysis       string // serialized JSON, empty until analyzed
	FetchedAt      string // TimestampLayout
	DigestIncluded bool
}

func (e Episode) IsAnalyzed() bool {
	return e.Analysis != ""
}

type Digest struct {
	ID          string // YYYYMMDD
	Date        string
	ContentHTML string
	ContentText string
	CreatedAt   string
}

// EpisodeFilter narrows ListAnalyzed. Zero values disable a condition.
type EpisodeFilter struct {
	Leans        []config.Lean
	FetchedAfter string
	Limit        int
}

type VolumeRow struct {
	Day   string
	Lean  config.Lean
	Count int
}

type ShowCount struct {
	Podcast string
	Count   int
	High    int
}
