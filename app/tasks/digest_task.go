package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/digest"
	"github.com/lysyi3m/podcast-intel/app/mail"
	"github.com/lysyi3m/podcast-intel/app/metrics"
)

const (
	DigestResultSent   = "sent"
	DigestResultSaved  = "saved"
	DigestResultEmpty  = "empty"
	DigestResultFailed = "failed"
)

// DigestTask builds today's digest, archives it to disk and the database,
// and emails it when delivery is configured.
type DigestTask struct {
	Task
	builder    DigestBuilder
	renderer   DigestRenderer
	episodes   database.EpisodeRepository
	digests    database.DigestRepository
	sender     mail.Sender
	recipients []string
	outputDir  string
	recorder   metrics.Recorder
	now        func() time.Time

	// Report is set by Execute.
	Report *digest.Report
}

// NewDigestTask creates a digest task. A nil sender saves to disk only.
func NewDigestTask(builder DigestBuilder, renderer DigestRenderer, episodes database.EpisodeRepository, digests database.DigestRepository, sender mail.Sender, recipients []string, outputDir string, recorder metrics.Recorder) *DigestTask {
	return &DigestTask{
		Task:       NewTask(TaskTypeDigest),
		builder:    builder,
		renderer:   renderer,
		episodes:   episodes,
		digests:    digests,
		sender:     sender,
		recipients: recipients,
		outputDir:  outputDir,
		recorder:   recorder,
		now:        time.Now,
	}
}

func (t *DigestTask) Execute(ctx context.Context) error {
	result, err := t.run(ctx)
	if err != nil {
		t.recorder.RecordDigestRun(DigestResultFailed)
		return err
	}
	t.recorder.RecordDigestRun(result)

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"duration", t.GetDuration(),
		"digest", t.Report.ID,
		"episodes", t.Report.EpisodeCount,
		"marked", t.Report.Marked,
		"result", result)

	return nil
}

func (t *DigestTask) run(ctx context.Context) (string, error) {
	now := t.now()

	report, err := t.builder.Build(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to build digest: %w", err)
	}
	t.Report = report

	html, err := t.renderer.DigestHTML(report)
	if err != nil {
		return "", err
	}
	text, err := t.renderer.DigestText(report)
	if err != nil {
		return "", err
	}

	if err := t.save(report.ID, html, text); err != nil {
		return "", err
	}

	err = t.digests.Upsert(database.Digest{
		ID:          report.ID,
		Date:        report.Date,
		ContentHTML: html,
		ContentText: text,
		CreatedAt:   database.FormatTimestamp(now),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store digest: %w", err)
	}

	if len(report.EpisodeIDs) > 0 {
		marked, err := t.episodes.MarkIncluded(report.EpisodeIDs)
		if err != nil {
			return "", fmt.Errorf("failed to mark digest episodes: %w", err)
		}
		report.Marked = marked
	}

	result := DigestResultSaved
	if report.Empty() {
		result = DigestResultEmpty
	}

	if t.sender == nil || len(t.recipients) == 0 {
		slog.Info("No SMTP config, digest saved to disk only", "digest", report.ID)
		return result, nil
	}

	err = t.sender.Send(ctx, mail.Message{
		Subject: mail.Subject(report.Date),
		To:      t.recipients,
		Text:    text,
		HTML:    html,
	})
	if err != nil {
		slog.Error("Email send failed", "digest", report.ID, "error", err)
		return result, nil
	}

	return DigestResultSent, nil
}

func (t *DigestTask) save(id, html, text string) error {
	if err := os.MkdirAll(t.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	htmlPath := filepath.Join(t.outputDir, "digest_"+id+".html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write digest html: %w", err)
	}
	textPath := filepath.Join(t.outputDir, "digest_"+id+".txt")
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write digest text: %w", err)
	}

	slog.Info("Digest saved", "path", htmlPath)
	return nil
}
