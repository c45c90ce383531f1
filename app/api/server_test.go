package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/dashboard"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/feed"
	"github.com/lysyi3m/podcast-intel/app/metrics"
	"github.com/lysyi3m/podcast-intel/app/render"
)

type mockReports struct {
	hours []int
}

func (m *mockReports) Overview() dashboard.Overview {
	return dashboard.Overview{Stats: m.Stats()}
}

func (m *mockReports) Stats() dashboard.Stats {
	return dashboard.Stats{
		Total:    12,
		Analyzed: 7,
		ByLean:   map[string]int{"right": 5, "left": 7},
		Recent:   []dashboard.RecentEpisode{},
		Threats:  map[string]int{"high": 2},
	}
}

func (m *mockReports) TrendingTopics() []dashboard.TopicCount {
	return []dashboard.TopicCount{{Topic: "tariffs", Count: 4}, {Topic: "border", Count: 2}}
}

func (m *mockReports) RightWing() dashboard.RightWing {
	return dashboard.RightWing{}
}

func (m *mockReports) Campaign(hours int) []analysis.CampaignEpisodeReport {
	m.hours = append(m.hours, hours)
	return nil
}

type mockStats struct {
	err error
}

func (m *mockStats) CountEpisodes() (int, error)           { return 12, m.err }
func (m *mockStats) CountAnalyzed() (int, error)           { return 7, m.err }
func (m *mockStats) CountByLean() (map[string]int, error)  { return nil, m.err }
func (m *mockStats) ThreatCounts() (map[string]int, error) { return nil, m.err }
func (m *mockStats) DailyVolume(since string) ([]database.VolumeRow, error) {
	return nil, m.err
}
func (m *mockStats) ShowCounts(lean config.Lean) ([]database.ShowCount, error) {
	return nil, m.err
}

type mockDigests struct {
	digests []database.Digest
	err     error
}

func (m *mockDigests) Upsert(d database.Digest) error { return nil }
func (m *mockDigests) GetRecent(limit int) ([]database.Digest, error) {
	return m.digests, m.err
}

type testServer struct {
	*httptest.Server
	reports  *mockReports
	digests  *mockDigests
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	pages, err := render.New()
	if err != nil {
		t.Fatalf("render.New failed: %v", err)
	}

	reports := &mockReports{}
	digests := &mockDigests{digests: []database.Digest{{
		ID:          "20250610",
		Date:        "June 10, 2025",
		ContentText: "Digest body",
		CreatedAt:   "2025-06-10T07:30:00.000000+00:00",
	}}}
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	handler := NewHandler(reports, pages, &mockStats{}, digests, feed.NewGenerator("https://intel.example.com", "test"), 9)
	server := httptest.NewServer(NewServer(handler, collector, metrics.Handler(registry)))
	t.Cleanup(server.Close)

	return &testServer{Server: server, reports: reports, digests: digests, registry: registry}
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestDashboardPages(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path     string
		contains string
	}{
		{"/", "No attacks found yet."},
		{"/dashboard", "No opportunities found yet. Run analyzer to populate."},
		{"/right", "No episodes yet."},
		{"/campaign", "found in the last 72 hours."},
	}

	for _, tt := range tests {
		resp, body := get(t, ts.URL+tt.path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200 for %s, got %d", tt.path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Expected html content type for %s, got %q", tt.path, ct)
		}
		if !strings.Contains(body, tt.contains) {
			t.Errorf("Expected %s to contain %q", tt.path, tt.contains)
		}
	}
}

func TestCampaignHours(t *testing.T) {
	ts := newTestServer(t)

	for _, query := range []string{"?hours=24", "?hours=abc", "?hours=-5", ""} {
		resp, _ := get(t, ts.URL+"/campaign"+query)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200 for %q, got %d", query, resp.StatusCode)
		}
	}

	expected := []int{24, 72, 72, 72}
	if len(ts.reports.hours) != len(expected) {
		t.Fatalf("Expected %d campaign calls, got %v", len(expected), ts.reports.hours)
	}
	for i, want := range expected {
		if ts.reports.hours[i] != want {
			t.Errorf("Expected hours %d for call %d, got %d", want, i, ts.reports.hours[i])
		}
	}
}

func TestAPIStats(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/stats")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		t.Errorf("Expected json content type, got %q", resp.Header.Get("Content-Type"))
	}

	var stats struct {
		Total    int            `json:"total"`
		Analyzed int            `json:"analyzed"`
		ByLean   map[string]int `json:"by_lean"`
		Threats  map[string]int `json:"threats"`
	}
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatalf("Invalid json %q: %v", body, err)
	}
	if stats.Total != 12 || stats.Analyzed != 7 || stats.ByLean["left"] != 7 || stats.Threats["high"] != 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestAPITopics(t *testing.T) {
	ts := newTestServer(t)

	_, body := get(t, ts.URL+"/api/topics")
	if strings.TrimSpace(body) != `[["tariffs",4],["border",2]]` {
		t.Errorf("Expected topic pairs, got %s", body)
	}
}

func TestDigestFeed(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/digests.xml")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Feed-Items") != "1" {
		t.Errorf("Expected X-Feed-Items 1, got %q", resp.Header.Get("X-Feed-Items"))
	}
	if !strings.Contains(body, "<title>Podcast Intelligence — June 10, 2025</title>") {
		t.Errorf("Expected digest item in feed, got %s", body)
	}

	ts.digests.err = errors.New("db locked")
	resp, _ = get(t, ts.URL+"/digests.xml")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500 on store error, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	_, body := get(t, ts.URL+"/health")

	var health map[string]any
	if err := json.Unmarshal([]byte(body), &health); err != nil {
		t.Fatal(err)
	}
	if health["podcasts"] != float64(9) || health["episodes"] != float64(12) || health["analyzed"] != float64(7) {
		t.Errorf("Unexpected health %v", health)
	}
	if _, ok := health["timestamp"]; !ok {
		t.Error("Expected timestamp in health response")
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}
	if body != "" {
		t.Errorf("Expected empty body, got %q", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	get(t, ts.URL+"/api/stats")
	get(t, ts.URL+"/missing")

	_, body := get(t, ts.URL+"/metrics")
	for _, want := range []string{
		`podcast_intel_http_requests_total{method="GET",route="/api/stats",status="200"} 1`,
		`podcast_intel_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected metrics to contain %q", want)
		}
	}
}
