package api

import (
	"io"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/dashboard"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/feed"
	"github.com/lysyi3m/podcast-intel/app/render"
)

type ReportsInterface interface {
	Overview() dashboard.Overview
	Stats() dashboard.Stats
	TrendingTopics() []dashboard.TopicCount
	RightWing() dashboard.RightWing
	Campaign(hours int) []analysis.CampaignEpisodeReport
}

type PagesInterface interface {
	Overview(w io.Writer, data dashboard.Overview) error
	RightWing(w io.Writer, data dashboard.RightWing) error
	Campaign(w io.Writer, episodes []analysis.CampaignEpisodeReport, hours int) error
}

type GeneratorInterface interface {
	Run(digests []database.Digest) (string, error)
}

var (
	_ ReportsInterface   = (*dashboard.Service)(nil)
	_ PagesInterface     = (*render.Renderer)(nil)
	_ GeneratorInterface = (*feed.Generator)(nil)
)

type Handler struct {
	reports      ReportsInterface
	pages        PagesInterface
	stats        database.StatsRepository
	digests      database.DigestRepository
	generator    GeneratorInterface
	podcastCount int
}
