package analysis

import (
	"log/slog"
	"time"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
)

const (
	DefaultCampaignHours = 72
	maxReportTopics      = 5
)

// EpisodeSource is the slice of the episode store the aggregator reads.
type EpisodeSource interface {
	ListAnalyzed(filter database.EpisodeFilter) ([]database.Episode, error)
}

type CampaignEpisodeReport struct {
	Podcast   string      `json:"podcast"`
	Lean      config.Lean `json:"lean"`
	Title     string      `json:"title"`
	Published string      `json:"published"`
	AudioURL  string      `json:"audio_url"`
	Synopsis  string      `json:"synopsis"`
	Threat    ThreatLevel `json:"threat"`
	Themes    []Theme     `json:"themes"`
	Moments   []Moment    `json:"moments"`
	Topics    []string    `json:"topics"`
}

type Aggregator struct {
	episodes  EpisodeSource
	extractor *Extractor
	now       func() time.Time
}

func NewAggregator(episodes EpisodeSource, extractor *Extractor) *Aggregator {
	return &Aggregator{
		episodes:  episodes,
		extractor: extractor,
		now:       time.Now,
	}
}

// BuildReport returns the theme-relevant episodes of the last hours, in the
// store's most-recently-fetched-first order. Errors are logged and produce an
// empty report.
func (a *Aggregator) BuildReport(hours int) []CampaignEpisodeReport {
	if hours <= 0 {
		hours = DefaultCampaignHours
	}

	episodes, err := a.window(hours)
	if err != nil {
		slog.Warn("Campaign report unavailable", "hours", hours, "error", err)
		return []CampaignEpisodeReport{}
	}

	reports := make([]CampaignEpisodeReport, 0, len(episodes))
	for _, ep := range episodes {
		record := ParseAnalysis(ep.Analysis)
		themes, moments := a.extractor.Extract(record)
		if len(themes) == 0 && len(moments) == 0 {
			continue
		}
		reports = append(reports, newCampaignEpisodeReport(ep, record, themes, moments))
	}

	return reports
}

// window selects episodes in two phases. The primary phase keeps analyzed
// episodes whose published date falls within hours of now, comparing wall
// clocks with zone offsets dropped. When that keeps nothing, the fallback
// phase asks the store for episodes fetched after the cutoff instead.
func (a *Aggregator) window(hours int) ([]database.Episode, error) {
	now := a.now()
	span := time.Duration(hours) * time.Hour

	all, err := a.episodes.ListAnalyzed(database.EpisodeFilter{})
	if err != nil {
		return nil, err
	}

	cutoff := naive(now).Add(-span)
	var primary []database.Episode
	for _, ep := range all {
		published, ok := ParsePublished(ep.Published)
		if ok && !naive(published).Before(cutoff) {
			primary = append(primary, ep)
		}
	}
	if len(primary) > 0 {
		return primary, nil
	}

	return a.episodes.ListAnalyzed(database.EpisodeFilter{
		FetchedAfter: database.FormatTimestamp(now.Add(-span)),
	})
}

func newCampaignEpisodeReport(ep database.Episode, record Analysis, themes []Theme, moments []Moment) CampaignEpisodeReport {
	title := ep.Title
	if title == "" {
		title = "(Untitled)"
	}

	published := ep.Published
	if published == "" {
		published = ep.FetchedAt
	}
	if len(published) > 16 {
		published = published[:16]
	}

	topics := record.KeyTopics
	if len(topics) > maxReportTopics {
		topics = topics[:maxReportTopics]
	}

	return CampaignEpisodeReport{
		Podcast:   ep.PodcastName,
		Lean:      ep.Lean,
		Title:     title,
		Published: published,
		AudioURL:  ep.AudioURL,
		Synopsis:  record.Synopsis,
		Threat:    record.ThreatLevel,
		Themes:    themes,
		Moments:   moments,
		Topics:    topics,
	}
}
