package digest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
)

const (
	DateLabelLayout = "January 02, 2006"
	IDLayout        = "20060102"

	maxQuotes       = 20
	maxRundownTopic = 4
	noSynopsis      = "No synopsis available."
)

var quotePriority = map[string]int{
	analysis.QuoteAttack:              0,
	analysis.QuoteClaim:               1,
	analysis.QuoteNotablePosition:     2,
	analysis.QuoteCrossPartisanSignal: 3,
	analysis.QuoteAdmission:           4,
}

const unknownQuotePriority = 9

type EpisodeStore interface {
	GetUndigested(day string) ([]database.Episode, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, date, episodes string) (string, error)
}

type Builder struct {
	episodes   EpisodeStore
	summarizer Summarizer
}

func NewBuilder(episodes EpisodeStore, summarizer Summarizer) *Builder {
	return &Builder{
		episodes:   episodes,
		summarizer: summarizer,
	}
}

type entry struct {
	episode database.Episode
	record  analysis.Analysis
}

// Build assembles a report from the analyzed episodes fetched on day that no
// earlier digest included. It does not mark them; see Report.EpisodeIDs.
func (b *Builder) Build(ctx context.Context, day time.Time) (*Report, error) {
	report := &Report{
		ID:   day.Format(IDLayout),
		Date: day.Format(DateLabelLayout),
	}

	episodes, err := b.episodes.GetUndigested(day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to load undigested episodes: %w", err)
	}

	report.EpisodeCount = len(episodes)
	if len(episodes) == 0 {
		report.Summary = Summary{}
		for _, lean := range config.Leans {
			report.Summary[lean] = placeholderBullets()
		}
		return report, nil
	}

	var entries []entry
	ids := make([]string, 0, len(episodes))
	for _, ep := range episodes {
		ids = append(ids, ep.ID)

		record := analysis.ParseAnalysis(ep.Analysis)
		if !record.Valid {
			slog.Warn("Skipping unreadable analysis in digest", "episode", ep.ID, "podcast", ep.PodcastName)
			continue
		}
		entries = append(entries, entry{episode: ep, record: record})
	}

	report.Summary = b.summarize(ctx, report.Date, entries)
	report.Quotes = collectQuotes(entries)
	report.Rundown = buildRundown(entries)

	report.EpisodeIDs = ids

	return report, nil
}

func (b *Builder) summarize(ctx context.Context, date string, entries []entry) Summary {
	blocks, counts := laneBlocks(entries)

	raw, err := b.summarizer.Summarize(ctx, date, blocks)
	if err != nil {
		slog.Error("Digest summary failed", "error", err)
		return withPlaceholders(FallbackSummary(), counts)
	}

	summary := ParseSummary(raw)
	if !summary.usable() {
		slog.Warn("Digest summary had no usable bullets", "length", len(raw))
		return withPlaceholders(FallbackSummary(), counts)
	}

	return withPlaceholders(summary, counts)
}

// withPlaceholders forces the no-episodes bullets for lanes that had nothing today.
func withPlaceholders(summary Summary, counts map[config.Lean]int) Summary {
	for _, lean := range config.Leans {
		if counts[lean] == 0 {
			summary[lean] = placeholderBullets()
		}
	}
	return summary
}

// laneBlocks renders the per-lean episode text handed to the summarizer. Each
// lane is truncated on its own so one busy lane cannot crowd out the others.
func laneBlocks(entries []entry) (string, map[config.Lean]int) {
	lanes := map[config.Lean][]string{}
	counts := map[config.Lean]int{}

	for _, e := range entries {
		lean := e.episode.Lean
		counts[lean]++
		lanes[lean] = append(lanes[lean], strings.Join([]string{
			fmt.Sprintf("[%s] %s — \"%s\"", strings.ToUpper(string(lean)), e.episode.PodcastName, e.episode.Title),
			"Synopsis: " + e.record.Synopsis,
			"Attacks: " + strings.Join(e.record.PoliticalAttacks, "; "),
			"Themes: " + strings.Join(e.record.NarrativeThemes, ", "),
		}, "\n"))
	}

	var sb strings.Builder
	for _, lean := range config.Leans {
		sb.WriteString(truncate(strings.Join(lanes[lean], "\n\n"), laneBudget))
		sb.WriteString("\n\n")
	}

	return sb.String(), counts
}

func collectQuotes(entries []entry) []NotableQuote {
	var quotes []NotableQuote
	for _, e := range entries {
		for _, q := range e.record.NotableQuotes {
			quotes = append(quotes, NotableQuote{
				Podcast:      e.episode.PodcastName,
				Lean:         e.episode.Lean,
				EpisodeTitle: e.episode.Title,
				Quote:        q.Quote,
				Speaker:      q.Speaker,
				Context:      q.Context,
				Type:         q.Type,
			})
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return priority(quotes[i].Type) < priority(quotes[j].Type)
	})

	if len(quotes) > maxQuotes {
		quotes = quotes[:maxQuotes]
	}
	return quotes
}

func priority(quoteType string) int {
	if p, ok := quotePriority[quoteType]; ok {
		return p
	}
	return unknownQuotePriority
}

func buildRundown(entries []entry) []RundownEntry {
	rundown := make([]RundownEntry, 0, len(entries))
	for _, e := range entries {
		synopsis := e.record.Synopsis
		if synopsis == "" {
			synopsis = noSynopsis
		}

		topics := e.record.KeyTopics
		if len(topics) > maxRundownTopic {
			topics = topics[:maxRundownTopic]
		}

		rundown = append(rundown, RundownEntry{
			Podcast:     e.episode.PodcastName,
			Lean:        e.episode.Lean,
			Title:       e.episode.Title,
			Published:   e.episode.Published,
			Synopsis:    synopsis,
			ThreatLevel: e.record.ThreatLevel,
			Topics:      topics,
		})
	}
	return rundown
}
