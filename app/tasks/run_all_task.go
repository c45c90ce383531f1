package tasks

import (
	"context"
	"log/slog"
)

// RunAllTask is the full pipeline: fetch, analyze when anything new arrived,
// then digest.
type RunAllTask struct {
	Task
	fetch   *FetchTask
	analyze *AnalyzeTask
	digest  *DigestTask
}

func NewRunAllTask(fetch *FetchTask, analyze *AnalyzeTask, digest *DigestTask) *RunAllTask {
	return &RunAllTask{
		Task:    NewTask(TaskTypeRunAll),
		fetch:   fetch,
		analyze: analyze,
		digest:  digest,
	}
}

func (t *RunAllTask) Execute(ctx context.Context) error {
	slog.Info("Starting full pipeline run", "id", t.ID)

	t.fetch.Start()
	if err := t.fetch.Execute(ctx); err != nil {
		return err
	}

	if t.fetch.NewEpisodes > 0 {
		t.analyze.Start()
		if err := t.analyze.Execute(ctx); err != nil {
			return err
		}
	} else {
		slog.Info("No new episodes, skipping analysis")
	}

	t.digest.Start()
	if err := t.digest.Execute(ctx); err != nil {
		return err
	}

	slog.Info("Pipeline complete", "id", t.ID, "duration", t.GetDuration())
	return nil
}
