package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath       string `long:"db-path" env:"DB_PATH" default:"./data/episodes.db" description:"Path to the sqlite database file"`
	PodcastsFile string `long:"podcasts-file" env:"PODCASTS_FILE" default:"./data/podcasts.yml" description:"YAML file with the podcast roster grouped by lean"`
	OutputDir    string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory for rendered digest files"`
	SeedFile     string `long:"seed-file" env:"SEED_FILE" default:"./seed.sql" description:"SQL file applied by the seed command when the database is empty"`

	// Pipeline
	SinceHours   int           `long:"since-hours" env:"SINCE_HOURS" default:"48" description:"Only ingest episodes published within this many hours"`
	MaxEpisodes  int           `long:"max-episodes" env:"MAX_EPISODES" default:"100" description:"Maximum episodes analyzed per run"`
	FetchTimeout time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15s" description:"Timeout for feed and transcript requests"`
	SafeFetch    bool          `long:"safe-fetch" env:"SAFE_FETCH" description:"Block private and loopback addresses when following scraped transcript links"`
	UserAgent    string        `long:"user-agent" env:"USER_AGENT" default:"Podcast-Intelligence-Monitor/1.0" description:"User agent string for HTTP requests"`

	// Summarizer
	LLMAPIKey  string `long:"llm-api-key" env:"ANTHROPIC_API_KEY" description:"API key for the analysis model"`
	LLMModel   string `long:"llm-model" env:"LLM_MODEL" default:"claude-opus-4-6" description:"Model used for episode analysis and digest summaries"`
	LLMBaseURL string `long:"llm-base-url" env:"LLM_BASE_URL" default:"https://api.anthropic.com" description:"Anthropic API base URL"`

	// Digest delivery
	SMTPHost     string   `long:"smtp-host" env:"SMTP_HOST" description:"SMTP server host (digest email disabled when empty)"`
	SMTPPort     int      `long:"smtp-port" env:"SMTP_PORT" default:"465" description:"SMTP server port (implicit TLS)"`
	SMTPUsername string   `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP login"`
	SMTPPassword string   `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
	SMTPFrom     string   `long:"smtp-from" env:"SMTP_FROM" description:"Sender address for digest emails"`
	Recipients   []string `long:"recipient" env:"DIGEST_RECIPIENTS" env-delim:"," description:"Digest recipient address (repeatable)"`

	// Dashboard
	Port    string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl string `long:"base-url" env:"BASE_URL" description:"Public base URL for the dashboard (e.g., https://intel.example.com)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type command struct {
	name  string
	short string
	long  string
}

var commands = []command{
	{CommandFetch, "Fetch new episodes", "Fetch recent episodes from every podcast RSS feed in the roster"},
	{CommandAnalyze, "Analyze episodes", "Send unanalyzed episodes to the model for structured political analysis"},
	{CommandDigest, "Build the daily digest", "Summarize today's analyzed episodes, write the digest files and email them"},
	{CommandRunAll, "Run the full pipeline", "Fetch, analyze (when new episodes arrived) and build the digest"},
	{CommandListPodcasts, "List configured podcasts", "Print the podcast roster grouped by lean"},
	{CommandServe, "Serve the dashboard", "Run the HTTP dashboard and JSON API"},
	{CommandSeed, "Seed an empty database", "Apply the seed SQL file when the episodes table is empty"},
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return Parse(os.Args[1:])
}

func Parse(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, &struct{}{}); err != nil {
			return nil, fmt.Errorf("failed to register command %s: %w", c.name, err)
		}
	}

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.SinceHours <= 0 {
		return nil, fmt.Errorf("since-hours must be positive, got %d", raw.SinceHours)
	}
	if raw.MaxEpisodes <= 0 {
		return nil, fmt.Errorf("max-episodes must be positive, got %d", raw.MaxEpisodes)
	}

	cfg := &Cfg{
		DBPath:       raw.DBPath,
		PodcastsFile: raw.PodcastsFile,
		OutputDir:    raw.OutputDir,
		SeedFile:     raw.SeedFile,
		SinceHours:   raw.SinceHours,
		MaxEpisodes:  raw.MaxEpisodes,
		FetchTimeout: raw.FetchTimeout,
		SafeFetch:    raw.SafeFetch,
		UserAgent:    raw.UserAgent,
		LLMAPIKey:    strings.TrimSpace(raw.LLMAPIKey),
		LLMModel:     raw.LLMModel,
		LLMBaseURL:   raw.LLMBaseURL,
		SMTP: SMTP{
			Host:     raw.SMTPHost,
			Port:     raw.SMTPPort,
			Username: raw.SMTPUsername,
			Password: raw.SMTPPassword,
			From:     raw.SMTPFrom,
		},
		Recipients: cleanRecipients(raw.Recipients),
		Port:       raw.Port,
		BaseUrl:    strings.TrimRight(raw.BaseUrl, "/"),
		Timezone:   raw.Timezone,
		Debug:      raw.Debug,
		Version:    GetVersion(),
	}

	if parser.Active != nil {
		cfg.Command = parser.Active.Name
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// NeedsLLM reports whether the command talks to the analysis model.
func (c *Cfg) NeedsLLM() bool {
	switch c.Command {
	case CommandAnalyze, CommandDigest, CommandRunAll:
		return true
	}
	return false
}

func cleanRecipients(values []string) []string {
	recipients := make([]string, 0, len(values))
	for _, v := range values {
		for _, addr := range strings.Split(v, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				recipients = append(recipients, addr)
			}
		}
	}
	return recipients
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
