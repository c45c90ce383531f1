package cfg

import "time"

const (
	CommandFetch        = "fetch"
	CommandAnalyze      = "analyze"
	CommandDigest       = "digest"
	CommandRunAll       = "run-all"
	CommandListPodcasts = "list-podcasts"
	CommandServe        = "serve"
	CommandSeed         = "seed"
)

type Cfg struct {
	Command string

	// Storage
	DBPath       string
	PodcastsFile string
	OutputDir    string
	SeedFile     string

	// Pipeline
	SinceHours   int
	MaxEpisodes  int
	FetchTimeout time.Duration
	SafeFetch    bool
	UserAgent    string

	// Summarizer
	LLMAPIKey  string
	LLMModel   string
	LLMBaseURL string

	// Digest delivery
	SMTP       SMTP
	Recipients []string

	// Dashboard
	Port    string
	BaseUrl string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether digest emails can be delivered.
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.From != ""
}
