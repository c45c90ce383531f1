package digest

import (
	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
)

// Summary holds the top-line bullets per lane.
type Summary map[config.Lean][]string

type NotableQuote struct {
	Podcast      string
	Lean         config.Lean
	EpisodeTitle string
	Quote        string
	Speaker      string
	Context      string
	Type         string
}

type RundownEntry struct {
	Podcast     string
	Lean        config.Lean
	Title       string
	Published   string
	Synopsis    string
	ThreatLevel analysis.ThreatLevel
	Topics      []string
}

// Report is everything a digest run renders.
type Report struct {
	ID           string // YYYYMMDD
	Date         string // human-readable label
	EpisodeCount int
	Summary      Summary
	Quotes       []NotableQuote
	Rundown      []RundownEntry

	// EpisodeIDs are the episodes this report consumed. They are flagged as
	// included only after the digest is stored.
	EpisodeIDs []string
	// Marked is how many of them were flagged.
	Marked int64
}

// Empty reports whether the run found nothing to digest.
func (r *Report) Empty() bool {
	return r.EpisodeCount == 0
}
