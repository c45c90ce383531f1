package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/digest"
	"github.com/lysyi3m/podcast-intel/app/llm"
	"github.com/lysyi3m/podcast-intel/app/mail"
)

type mockEpisodes struct {
	stored      map[string]database.Episode
	order       []string
	pending     []database.Episode
	transcripts map[string]string
	analyses    map[string]string
	insertErr   error
	loadCalls   int
	marked      []string
	markErr     error
}

func newMockEpisodes() *mockEpisodes {
	return &mockEpisodes{
		stored:      map[string]database.Episode{},
		transcripts: map[string]string{},
		analyses:    map[string]string{},
	}
}

func (m *mockEpisodes) Insert(episode database.Episode) (bool, error) {
	if m.insertErr != nil {
		return false, m.insertErr
	}
	if _, ok := m.stored[episode.ID]; ok {
		return false, nil
	}
	m.stored[episode.ID] = episode
	m.order = append(m.order, episode.ID)
	return true, nil
}

func (m *mockEpisodes) Exists(id string) (bool, error) {
	_, ok := m.stored[id]
	return ok, nil
}

func (m *mockEpisodes) GetForAnalysis(limit int) ([]database.Episode, error) {
	m.loadCalls++
	if limit > 0 && len(m.pending) > limit {
		return m.pending[:limit], nil
	}
	return m.pending, nil
}

func (m *mockEpisodes) UpdateTranscript(id, transcript string) error {
	m.transcripts[id] = transcript
	return nil
}

func (m *mockEpisodes) UpdateAnalysis(id, analysis string) error {
	m.analyses[id] = analysis
	return nil
}

func (m *mockEpisodes) ListAnalyzed(filter database.EpisodeFilter) ([]database.Episode, error) {
	return nil, nil
}

func (m *mockEpisodes) GetUndigested(day string) ([]database.Episode, error) {
	return nil, nil
}

func (m *mockEpisodes) MarkIncluded(ids []string) (int64, error) {
	if m.markErr != nil {
		return 0, m.markErr
	}
	m.marked = append(m.marked, ids...)
	return int64(len(ids)), nil
}

type mockDigests struct {
	saved []database.Digest
	err   error
}

func (m *mockDigests) Upsert(d database.Digest) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, d)
	return nil
}

func (m *mockDigests) GetRecent(limit int) ([]database.Digest, error) {
	return m.saved, nil
}

type mockRecorder struct {
	mu       sync.Mutex
	feeds    map[bool]int
	episodes int
	analyses map[bool]int
	digests  []string
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{feeds: map[bool]int{}, analyses: map[bool]int{}}
}

func (m *mockRecorder) RecordFeedFetch(podcast string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feeds[ok]++
}

func (m *mockRecorder) RecordEpisodesFetched(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.episodes += count
}

func (m *mockRecorder) RecordAnalysis(ok bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[ok]++
}

func (m *mockRecorder) RecordDigestRun(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digests = append(m.digests, result)
}

func (m *mockRecorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {}

type mockTranscripts struct {
	text  string
	calls []string
}

func (m *mockTranscripts) Fetch(ctx context.Context, podcast *config.Podcast, episodeTitle string) (string, bool) {
	m.calls = append(m.calls, podcast.Name+"|"+episodeTitle)
	return m.text, m.text != ""
}

type mockAnalyzer struct {
	results map[string]*llm.Result
	errs    map[string]error
	inputs  []llm.EpisodeInput
}

func (m *mockAnalyzer) Analyze(ctx context.Context, in llm.EpisodeInput) (*llm.Result, error) {
	m.inputs = append(m.inputs, in)
	if err, ok := m.errs[in.Title]; ok {
		return nil, err
	}
	return m.results[in.Title], nil
}

type mockBuilder struct {
	report *digest.Report
	err    error
	day    time.Time
}

func (m *mockBuilder) Build(ctx context.Context, day time.Time) (*digest.Report, error) {
	m.day = day
	return m.report, m.err
}

type mockRenderer struct {
	err error
}

func (m mockRenderer) DigestHTML(report *digest.Report) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "<p>" + report.Date + "</p>", nil
}

func (mockRenderer) DigestText(report *digest.Report) (string, error) {
	return "text " + report.Date, nil
}

type mockSender struct {
	sent []mail.Message
	err  error
}

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}
