package database

import "github.com/lysyi3m/podcast-intel/app/config"

type EpisodeRepository interface {
	Insert(episode Episode) (bool, error)
	Exists(id string) (bool, error)

	GetForAnalysis(limit int) ([]Episode, error)
	UpdateTranscript(id, transcript string) error
	UpdateAnalysis(id, analysis string) error

	ListAnalyzed(filter EpisodeFilter) ([]Episode, error)
	GetUndigested(day string) ([]Episode, error)
	MarkIncluded(ids []string) (int64, error)
}

type DigestRepository interface {
	Upsert(digest Digest) error
	GetRecent(limit int) ([]Digest, error)
}

type StatsRepository interface {
	CountEpisodes() (int, error)
	CountAnalyzed() (int, error)
	CountByLean() (map[string]int, error)
	DailyVolume(since string) ([]VolumeRow, error)
	ThreatCounts() (map[string]int, error)
	ShowCounts(lean config.Lean) ([]ShowCount, error)
}

var (
	_ EpisodeRepository = (*EpisodeStore)(nil)
	_ DigestRepository  = (*DigestStore)(nil)
	_ StatsRepository   = (*StatsStore)(nil)
)
