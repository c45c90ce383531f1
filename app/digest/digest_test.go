package digest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/llm"
)

type mockEpisodeStore struct {
	episodes []database.Episode
	days     []string
}

func (m *mockEpisodeStore) GetUndigested(day string) ([]database.Episode, error) {
	m.days = append(m.days, day)
	var out []database.Episode
	for _, ep := range m.episodes {
		if !ep.DigestIncluded {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (m *mockEpisodeStore) MarkIncluded(ids []string) (int64, error) {
	var changed int64
	for _, id := range ids {
		for i := range m.episodes {
			if m.episodes[i].ID == id && !m.episodes[i].DigestIncluded {
				m.episodes[i].DigestIncluded = true
				changed++
			}
		}
	}
	return changed, nil
}

type mockSummarizer struct {
	reply    string
	err      error
	episodes []string
}

func (m *mockSummarizer) Summarize(ctx context.Context, date, episodes string) (string, error) {
	m.episodes = append(m.episodes, episodes)
	return m.reply, m.err
}

const goodSummary = `RIGHT-WING TODAY
• Right one
• Right two about the left
• Right three

CENTER/NEUTRAL TODAY
• Neutral one

LEFT/PROGRESSIVE TODAY
• Left one
• Left two
• Left three`

var testDay = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func digestEpisode(id string, lean config.Lean, podcast, analysisJSON string) database.Episode {
	return database.Episode{
		ID:          id,
		PodcastName: podcast,
		Lean:        lean,
		Title:       "Title " + id,
		Published:   "Mon, 02 Jun 2025 10:00:00 +0000",
		Analysis:    analysisJSON,
	}
}

func TestParseSummary(t *testing.T) {
	summary := ParseSummary("Preamble line\n• orphan bullet\n" + goodSummary + "\nrandom trailing text")

	expected := Summary{
		config.LeanRight:   {"Right one", "Right two about the left", "Right three"},
		config.LeanNeutral: {"Neutral one"},
		config.LeanLeft:    {"Left one", "Left two", "Left three"},
	}
	if !reflect.DeepEqual(summary, expected) {
		t.Errorf("Expected %v, got %v", expected, summary)
	}
}

func TestParseSummaryGarbage(t *testing.T) {
	summary := ParseSummary("nothing useful here")
	if summary.usable() {
		t.Errorf("Expected no bullets, got %v", summary)
	}
	for _, lean := range config.Leans {
		if summary[lean] == nil {
			t.Errorf("Expected empty lane for %s, got nil", lean)
		}
	}
}

func TestBuild(t *testing.T) {
	store := &mockEpisodeStore{episodes: []database.Episode{
		digestEpisode("l1", config.LeanLeft, "Left Show", `{
			"synopsis": "Left synopsis",
			"key_topics": ["a", "b", "c", "d", "e"],
			"notable_quotes": [{"quote": "admitted", "type": "admission"}, {"quote": "other", "type": "odd"}],
			"threat_level": "medium"
		}`),
		digestEpisode("r1", config.LeanRight, "Right Show", `{
			"political_attacks": ["attack A", "attack B"],
			"narrative_themes": "elite capture",
			"notable_quotes": [{"quote": "claimed", "type": "claim"}, {"quote": "hit", "type": "attack"}]
		}`),
		digestEpisode("bad", config.LeanRight, "Broken Show", "not json"),
	}}
	summarizer := &mockSummarizer{reply: goodSummary}

	report, err := NewBuilder(store, summarizer).Build(context.Background(), testDay)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if report.ID != "20250602" || report.Date != "June 02, 2025" {
		t.Errorf("Unexpected id/date %s / %s", report.ID, report.Date)
	}
	if store.days[0] != "2025-06-02" {
		t.Errorf("Expected query day '2025-06-02', got '%s'", store.days[0])
	}
	if report.EpisodeCount != 3 {
		t.Errorf("Expected 3 episodes, got %d", report.EpisodeCount)
	}
	if len(report.EpisodeIDs) != 3 {
		t.Errorf("Expected 3 consumed episodes, got %v", report.EpisodeIDs)
	}
	for _, ep := range store.episodes {
		if ep.DigestIncluded {
			t.Errorf("Expected %s to stay unmarked until the digest is stored", ep.ID)
		}
	}

	// no neutral episodes, so the neutral lane is forced to placeholders
	neutral := report.Summary[config.LeanNeutral]
	if len(neutral) != 3 || neutral[0] != llm.NoEpisodesBullet {
		t.Errorf("Expected neutral placeholders, got %v", neutral)
	}
	if len(report.Summary[config.LeanRight]) != 3 {
		t.Errorf("Expected 3 right bullets, got %v", report.Summary[config.LeanRight])
	}

	blocks := summarizer.episodes[0]
	for _, want := range []string{
		"[RIGHT] Right Show — \"Title r1\"",
		"Attacks: attack A; attack B",
		"Themes: elite capture",
		"[LEFT] Left Show",
	} {
		if !strings.Contains(blocks, want) {
			t.Errorf("Expected lane blocks to contain %q", want)
		}
	}
	if strings.Contains(blocks, "Broken Show") {
		t.Error("Expected unreadable analysis left out of lane blocks")
	}
	if strings.Index(blocks, "[RIGHT]") > strings.Index(blocks, "[LEFT]") {
		t.Error("Expected right lane before left lane")
	}

	var types []string
	for _, q := range report.Quotes {
		types = append(types, q.Type)
	}
	expectedTypes := []string{"attack", "claim", "admission", "odd"}
	if !reflect.DeepEqual(types, expectedTypes) {
		t.Errorf("Expected quote order %v, got %v", expectedTypes, types)
	}

	if len(report.Rundown) != 2 {
		t.Fatalf("Expected 2 rundown entries, got %d", len(report.Rundown))
	}
	left := report.Rundown[0]
	if left.Podcast != "Left Show" || len(left.Topics) != 4 || left.ThreatLevel != analysis.ThreatMedium {
		t.Errorf("Unexpected rundown entry %+v", left)
	}
	if report.Rundown[1].Synopsis != noSynopsis {
		t.Errorf("Expected default synopsis, got '%s'", report.Rundown[1].Synopsis)
	}
}

func TestBuildSummarizerFailure(t *testing.T) {
	store := &mockEpisodeStore{episodes: []database.Episode{
		digestEpisode("r1", config.LeanRight, "Right Show", `{"synopsis": "S", "notable_quotes": ["q"]}`),
	}}

	for _, summarizer := range []*mockSummarizer{
		{err: errors.New("timeout")},
		{reply: "Sorry, I can't do that."},
	} {
		for i := range store.episodes {
			store.episodes[i].DigestIncluded = false
		}

		report, err := NewBuilder(store, summarizer).Build(context.Background(), testDay)
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}

		right := report.Summary[config.LeanRight]
		if len(right) != 3 || right[0] != errorBullet {
			t.Errorf("Expected error placeholder, got %v", right)
		}
		if report.Summary[config.LeanLeft][0] != llm.NoEpisodesBullet {
			t.Errorf("Expected empty lane placeholder, got %v", report.Summary[config.LeanLeft])
		}
		if len(report.Quotes) != 1 || len(report.Rundown) != 1 {
			t.Errorf("Expected quotes and rundown to survive, got %d quotes and %d entries", len(report.Quotes), len(report.Rundown))
		}
	}
}

func TestBuildTwiceSameDay(t *testing.T) {
	store := &mockEpisodeStore{episodes: []database.Episode{
		digestEpisode("r1", config.LeanRight, "Right Show", `{"synopsis": "S"}`),
	}}
	summarizer := &mockSummarizer{reply: goodSummary}
	builder := NewBuilder(store, summarizer)

	first, err := builder.Build(context.Background(), testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.EpisodeIDs) != 1 {
		t.Errorf("Expected 1 consumed episode on first run, got %v", first.EpisodeIDs)
	}
	if marked, _ := store.MarkIncluded(first.EpisodeIDs); marked != 1 {
		t.Errorf("Expected 1 marked after first run, got %d", marked)
	}

	second, err := builder.Build(context.Background(), testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.EpisodeIDs) != 0 || !second.Empty() {
		t.Errorf("Expected empty second run, got %+v", second)
	}
	for _, lean := range config.Leans {
		if bullets := second.Summary[lean]; len(bullets) != 3 || bullets[0] != llm.NoEpisodesBullet {
			t.Errorf("Expected placeholder lane for %s, got %v", lean, bullets)
		}
	}
	if len(summarizer.episodes) != 1 {
		t.Errorf("Expected no summary call for an empty day, got %d calls", len(summarizer.episodes))
	}
}

func TestLaneBudget(t *testing.T) {
	var entries []entry
	for i := 0; i < 100; i++ {
		entries = append(entries, entry{
			episode: database.Episode{Lean: config.LeanRight, PodcastName: fmt.Sprintf("Show %d", i), Title: strings.Repeat("x", 100)},
			record:  analysis.ParseAnalysis(`{"synopsis": "long"}`),
		})
	}
	entries = append(entries, entry{
		episode: database.Episode{Lean: config.LeanLeft, PodcastName: "Quiet Show", Title: "only one"},
		record:  analysis.ParseAnalysis(`{"synopsis": "short"}`),
	})

	blocks, counts := laneBlocks(entries)

	if counts[config.LeanRight] != 100 || counts[config.LeanLeft] != 1 {
		t.Errorf("Unexpected counts %v", counts)
	}
	if !strings.Contains(blocks, "Quiet Show") {
		t.Error("Expected the quiet lane to survive the busy one")
	}
	if n := utf8.RuneCountInString(blocks); n > 3*laneBudget+6 {
		t.Errorf("Expected lanes capped, got %d chars", n)
	}
}

func TestQuotesCapped(t *testing.T) {
	var quotes []string
	for i := 0; i < 30; i++ {
		quotes = append(quotes, fmt.Sprintf(`{"quote": "q%d", "type": "claim"}`, i))
	}
	record := analysis.ParseAnalysis(`{"notable_quotes": [` + strings.Join(quotes, ",") + `]}`)

	got := collectQuotes([]entry{{episode: database.Episode{}, record: record}})
	if len(got) != maxQuotes {
		t.Fatalf("Expected %d quotes, got %d", maxQuotes, len(got))
	}
	if got[0].Quote != "q0" || got[19].Quote != "q19" {
		t.Errorf("Expected stable order, got %s..%s", got[0].Quote, got[19].Quote)
	}
}
