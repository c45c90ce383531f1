package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/digest"
	"github.com/lysyi3m/podcast-intel/app/feed"
	"github.com/lysyi3m/podcast-intel/app/llm"
	"github.com/lysyi3m/podcast-intel/app/render"
)

type PageFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type PodcastLookup interface {
	Lookup(name string) (*config.Podcast, error)
}

type TranscriptSource interface {
	Fetch(ctx context.Context, podcast *config.Podcast, episodeTitle string) (string, bool)
}

type EpisodeAnalyzer interface {
	Analyze(ctx context.Context, in llm.EpisodeInput) (*llm.Result, error)
}

type DigestBuilder interface {
	Build(ctx context.Context, day time.Time) (*digest.Report, error)
}

type DigestRenderer interface {
	DigestHTML(report *digest.Report) (string, error)
	DigestText(report *digest.Report) (string, error)
}

var (
	_ PageFetcher      = (*feed.Fetcher)(nil)
	_ PodcastLookup    = (*config.Roster)(nil)
	_ TranscriptSource = (*feed.TranscriptFetcher)(nil)
	_ EpisodeAnalyzer  = (*llm.Analyzer)(nil)
	_ DigestBuilder    = (*digest.Builder)(nil)
	_ DigestRenderer   = (*render.Renderer)(nil)
)
