package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/llm"
)

func newTestRoster(t *testing.T) *config.Roster {
	t.Helper()

	roster, err := config.NewRoster([]*config.Podcast{
		{Name: "Show R", Host: "Host R", Lean: config.LeanRight, YouTubeChannelID: "UC123"},
		{Name: "Show L", Host: "Host L", Lean: config.LeanLeft},
	})
	if err != nil {
		t.Fatalf("NewRoster failed: %v", err)
	}
	return roster
}

func TestAnalyzeTask(t *testing.T) {
	episodes := newMockEpisodes()
	episodes.pending = []database.Episode{
		{ID: "1", PodcastName: "Show R", Lean: config.LeanRight, Title: "Needs transcript", Description: "short"},
		{ID: "2", PodcastName: "Show L", Lean: config.LeanLeft, Title: "Too short", Description: "tiny"},
		{ID: "3", PodcastName: "Show L", Lean: config.LeanLeft, Title: "Model error", Description: "long enough"},
		{ID: "4", PodcastName: "Gone Show", Lean: config.LeanNeutral, Title: "Orphan", Description: "long enough"},
	}

	transcripts := &mockTranscripts{text: "full transcript"}
	analyzer := &mockAnalyzer{
		results: map[string]*llm.Result{
			"Needs transcript": {JSON: `{"synopsis":"one"}`},
			"Orphan":           {JSON: `{"synopsis":"four"}`},
		},
		errs: map[string]error{
			"Too short":   llm.ErrInsufficientContent,
			"Model error": errors.New("overloaded"),
		},
	}
	recorder := newMockRecorder()

	task := NewAnalyzeTask(newTestRoster(t), episodes, transcripts, analyzer, recorder, NewPacer(0), 100)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if task.Analyzed != 2 {
		t.Errorf("Expected 2 analyzed episodes, got %d", task.Analyzed)
	}
	if episodes.analyses["1"] != `{"synopsis":"one"}` {
		t.Errorf("Expected stored analysis for episode 1, got %q", episodes.analyses["1"])
	}
	if _, ok := episodes.analyses["3"]; ok {
		t.Error("Expected failed episode to stay unanalyzed")
	}

	if len(transcripts.calls) != 1 || transcripts.calls[0] != "Show R|Needs transcript" {
		t.Errorf("Expected one transcript lookup for Show R, got %v", transcripts.calls)
	}
	if episodes.transcripts["1"] != "full transcript" {
		t.Errorf("Expected transcript to be stored, got %q", episodes.transcripts["1"])
	}

	first := analyzer.inputs[0]
	if first.Transcript != "full transcript" || first.Host != "Host R" || first.Lean != "right" {
		t.Errorf("Unexpected analyzer input: %+v", first)
	}
	if orphan := analyzer.inputs[3]; orphan.Host != "" || orphan.PodcastName != "Gone Show" {
		t.Errorf("Expected bare podcast for unknown show, got %+v", orphan)
	}

	if recorder.analyses[true] != 2 || recorder.analyses[false] != 1 {
		t.Errorf("Expected 2 ok and 1 failed analysis, got %v", recorder.analyses)
	}
}

func TestAnalyzeTaskKeepsExistingTranscript(t *testing.T) {
	episodes := newMockEpisodes()
	episodes.pending = []database.Episode{
		{ID: "1", PodcastName: "Show R", Title: "Ep", Transcript: "already here"},
	}
	transcripts := &mockTranscripts{text: "new transcript"}
	analyzer := &mockAnalyzer{results: map[string]*llm.Result{"Ep": {JSON: "{}"}}}

	task := NewAnalyzeTask(newTestRoster(t), episodes, transcripts, analyzer, newMockRecorder(), NewPacer(0), 10)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(transcripts.calls) != 0 {
		t.Errorf("Expected no transcript lookup, got %v", transcripts.calls)
	}
	if analyzer.inputs[0].Transcript != "already here" {
		t.Errorf("Expected stored transcript to be used, got %q", analyzer.inputs[0].Transcript)
	}
}

func TestAnalyzeTaskRespectsLimit(t *testing.T) {
	episodes := newMockEpisodes()
	for _, id := range []string{"1", "2", "3"} {
		episodes.pending = append(episodes.pending, database.Episode{ID: id, PodcastName: "Show L", Title: "Ep " + id})
	}
	analyzer := &mockAnalyzer{results: map[string]*llm.Result{
		"Ep 1": {JSON: "{}"}, "Ep 2": {JSON: "{}"}, "Ep 3": {JSON: "{}"},
	}}

	task := NewAnalyzeTask(newTestRoster(t), episodes, nil, analyzer, newMockRecorder(), NewPacer(0), 2)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(analyzer.inputs) != 2 {
		t.Errorf("Expected 2 analyzer calls, got %d", len(analyzer.inputs))
	}
}
