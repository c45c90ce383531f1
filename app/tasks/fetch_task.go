package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/feed"
	"github.com/lysyi3m/podcast-intel/app/metrics"
)

// FetchTask stores new episodes from every roster podcast with an RSS feed.
type FetchTask struct {
	Task
	podcasts   []*config.Podcast
	fetcher    PageFetcher
	parser     *feed.Parser
	episodes   database.EpisodeRepository
	recorder   metrics.Recorder
	pacer      *Pacer
	sinceHours int
	now        func() time.Time

	// NewEpisodes is set by Execute.
	NewEpisodes int
}

func NewFetchTask(podcasts []*config.Podcast, fetcher PageFetcher, episodes database.EpisodeRepository, recorder metrics.Recorder, pacer *Pacer, sinceHours int) *FetchTask {
	return &FetchTask{
		Task:       NewTask(TaskTypeFetch),
		podcasts:   podcasts,
		fetcher:    fetcher,
		parser:     feed.NewParser(),
		episodes:   episodes,
		recorder:   recorder,
		pacer:      pacer,
		sinceHours: sinceHours,
		now:        time.Now,
	}
}

func (t *FetchTask) Execute(ctx context.Context) error {
	cutoff := t.now().Add(-time.Duration(t.sinceHours) * time.Hour)

	t.NewEpisodes = 0
	fetched := 0
	for _, podcast := range t.podcasts {
		if podcast.RSS == "" {
			slog.Debug("Podcast has no RSS feed, skipping", "podcast", podcast.Name)
			continue
		}

		if err := t.pacer.Wait(ctx); err != nil {
			return err
		}

		added, err := t.fetchPodcast(ctx, podcast, cutoff)
		t.NewEpisodes += added
		if err != nil {
			slog.Warn("Feed fetch failed", "podcast", podcast.Name, "url", podcast.RSS, "error", err)
			t.recorder.RecordFeedFetch(podcast.Name, false)
			continue
		}
		t.recorder.RecordFeedFetch(podcast.Name, true)

		fetched++
	}

	t.recorder.RecordEpisodesFetched(t.NewEpisodes)

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"duration", t.GetDuration(),
		"podcasts", fetched,
		"new", t.NewEpisodes)

	return nil
}

func (t *FetchTask) fetchPodcast(ctx context.Context, podcast *config.Podcast, cutoff time.Time) (int, error) {
	data, err := t.fetcher.Get(ctx, podcast.RSS)
	if err != nil {
		return 0, err
	}

	items, err := t.parser.Run(data)
	if err != nil {
		return 0, err
	}

	items = feed.NewFilterer(podcast.Filters).Run(items)

	added, stale, filtered, duplicates := 0, 0, 0, 0
	for _, item := range items {
		if item.IsFiltered {
			slog.Debug("Episode filtered", "podcast", podcast.Name, "title", item.Title, "reason", item.FilterReason)
			filtered++
			continue
		}
		// Undated items are kept
		if item.PublishedAt != nil && item.PublishedAt.Before(cutoff) {
			stale++
			continue
		}

		inserted, err := t.episodes.Insert(database.Episode{
			ID:          feed.EpisodeID(podcast.Name, item.Title, item.Published),
			PodcastName: podcast.Name,
			Lean:        podcast.Lean,
			Title:       item.Title,
			Published:   item.Published,
			Description: item.Description,
			AudioURL:    item.AudioURL,
			FetchedAt:   database.FormatTimestamp(t.now()),
		})
		if err != nil {
			return added, fmt.Errorf("failed to store episode: %w", err)
		}
		if inserted {
			added++
		} else {
			duplicates++
		}
	}

	slog.Debug("Feed processed",
		"podcast", podcast.Name,
		"total", len(items),
		"stale", stale,
		"filtered", filtered,
		"duplicates", duplicates,
		"new", added)

	return added, nil
}
