package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/llm"
	"github.com/lysyi3m/podcast-intel/app/metrics"
)

// AnalyzeTask sends unanalyzed episodes to the model, newest first, and
// stores the structured result.
type AnalyzeTask struct {
	Task
	roster      PodcastLookup
	episodes    database.EpisodeRepository
	transcripts TranscriptSource
	analyzer    EpisodeAnalyzer
	recorder    metrics.Recorder
	pacer       *Pacer
	maxEpisodes int

	// Analyzed is set by Execute.
	Analyzed int
}

func NewAnalyzeTask(roster PodcastLookup, episodes database.EpisodeRepository, transcripts TranscriptSource, analyzer EpisodeAnalyzer, recorder metrics.Recorder, pacer *Pacer, maxEpisodes int) *AnalyzeTask {
	return &AnalyzeTask{
		Task:        NewTask(TaskTypeAnalyze),
		roster:      roster,
		episodes:    episodes,
		transcripts: transcripts,
		analyzer:    analyzer,
		recorder:    recorder,
		pacer:       pacer,
		maxEpisodes: maxEpisodes,
	}
}

func (t *AnalyzeTask) Execute(ctx context.Context) error {
	pending, err := t.episodes.GetForAnalysis(t.maxEpisodes)
	if err != nil {
		return fmt.Errorf("failed to load episodes for analysis: %w", err)
	}

	slog.Info("Analyzing episodes", "count", len(pending))

	t.Analyzed = 0
	skipped, failed := 0, 0
	for _, ep := range pending {
		if err := t.pacer.Wait(ctx); err != nil {
			return err
		}

		podcast := t.podcast(ep.PodcastName)
		if ep.Transcript == "" {
			ep.Transcript = t.fetchTranscript(ctx, podcast, ep)
		}

		started := time.Now()
		result, err := t.analyzer.Analyze(ctx, llm.EpisodeInput{
			PodcastName: ep.PodcastName,
			Lean:        string(ep.Lean),
			Host:        podcast.Host,
			Title:       ep.Title,
			Published:   ep.Published,
			Description: ep.Description,
			Transcript:  ep.Transcript,
		})
		if errors.Is(err, llm.ErrInsufficientContent) {
			slog.Debug("Insufficient content, skipping", "episode", ep.ID, "title", ep.Title)
			skipped++
			continue
		}
		if err != nil {
			slog.Warn("Analysis failed", "episode", ep.ID, "podcast", ep.PodcastName, "title", ep.Title, "error", err)
			t.recorder.RecordAnalysis(false, time.Since(started))
			failed++
			continue
		}

		if err := t.episodes.UpdateAnalysis(ep.ID, result.JSON); err != nil {
			slog.Warn("Failed to store analysis", "episode", ep.ID, "error", err)
			t.recorder.RecordAnalysis(false, time.Since(started))
			failed++
			continue
		}

		t.recorder.RecordAnalysis(true, time.Since(started))
		t.Analyzed++
	}

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"duration", t.GetDuration(),
		"total", len(pending),
		"skipped", skipped,
		"failed", failed,
		"analyzed", t.Analyzed)

	return nil
}

// podcast falls back to a bare entry for episodes whose show left the roster.
func (t *AnalyzeTask) podcast(name string) *config.Podcast {
	podcast, err := t.roster.Lookup(name)
	if err != nil {
		slog.Debug("Podcast not in roster", "podcast", name)
		return &config.Podcast{Name: name}
	}
	return podcast
}

func (t *AnalyzeTask) fetchTranscript(ctx context.Context, podcast *config.Podcast, ep database.Episode) string {
	if t.transcripts == nil || !podcast.HasTranscriptSource() {
		return ""
	}

	transcript, ok := t.transcripts.Fetch(ctx, podcast, ep.Title)
	if !ok {
		return ""
	}

	if err := t.episodes.UpdateTranscript(ep.ID, transcript); err != nil {
		slog.Warn("Failed to store transcript", "episode", ep.ID, "error", err)
	}
	return transcript
}
