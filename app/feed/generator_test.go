package feed

import (
	"strings"
	"testing"

	"github.com/lysyi3m/podcast-intel/app/database"
)

func TestGenerator_Run(t *testing.T) {
	digests := []database.Digest{
		{
			ID:          "20250602",
			Date:        "June 02, 2025",
			ContentText: "Right & left <summary>",
			CreatedAt:   "2025-06-02T21:00:00.000000+00:00",
		},
		{
			ID:          "20250601",
			Date:        "June 01, 2025",
			ContentText: "Earlier",
			CreatedAt:   "garbage",
		},
	}

	out, err := NewGenerator("https://intel.example.com", "1.0.0").Run(digests)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	checks := []string{
		`<rss version="2.0"`,
		`<atom:link href="https://intel.example.com/digests.xml" rel="self"`,
		`<guid isPermaLink="false">digest-20250602</guid>`,
		`<title>Podcast Intelligence — June 02, 2025</title>`,
		`<description>Right &amp; left &lt;summary&gt;</description>`,
		`<pubDate>Mon, 02 Jun 2025 21:00:00 +0000</pubDate>`,
		`<lastBuildDate>Mon, 02 Jun 2025 21:00:00 +0000</lastBuildDate>`,
		`<generator>Podcast-Intel/1.0.0</generator>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}

	if strings.Count(out, "<item>") != 2 {
		t.Errorf("Expected 2 items, got %d", strings.Count(out, "<item>"))
	}
	if strings.Count(out, "<pubDate>") != 1 {
		t.Error("Expected unparseable created_at to omit pubDate")
	}
}

func TestGenerator_Empty(t *testing.T) {
	out, err := NewGenerator("http://localhost:8080", "dev").Run(nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<item>") {
		t.Error("Expected no items")
	}
	if !strings.HasSuffix(out, "</channel>\n</rss>") {
		t.Error("Expected a closed channel")
	}
}
