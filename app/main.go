package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/api"
	"github.com/lysyi3m/podcast-intel/app/cfg"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/dashboard"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/digest"
	"github.com/lysyi3m/podcast-intel/app/feed"
	"github.com/lysyi3m/podcast-intel/app/llm"
	"github.com/lysyi3m/podcast-intel/app/mail"
	"github.com/lysyi3m/podcast-intel/app/metrics"
	"github.com/lysyi3m/podcast-intel/app/render"
	"github.com/lysyi3m/podcast-intel/app/tasks"
)

const taskTimeout = 2 * time.Hour

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	setupLogger(os.Stderr, appCfg.Debug)

	if err := run(appCfg); err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		os.Exit(1)
	}
}

func run(c *cfg.Cfg) error {
	roster, err := config.NewLoader(c.PodcastsFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load podcast roster: %w", err)
	}

	if c.Command == cfg.CommandListPodcasts {
		fmt.Println(renderPodcastTable(roster, shouldColorize(os.Stdout)))
		return nil
	}

	if c.NeedsLLM() && c.LLMAPIKey == "" {
		return errors.New("LLM API key is required for this command (set ANTHROPIC_API_KEY)")
	}

	db, err := database.Open(c.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database ready", "path", db.Path(), "version", version, "dirty", dirty)

	app := newApp(c, roster, db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch c.Command {
	case cfg.CommandSeed:
		count, seeded, err := database.Seed(db, c.SeedFile)
		if err != nil {
			return err
		}
		if !seeded {
			slog.Info("Database already has episodes, seed skipped", "episodes", count)
			return nil
		}
		slog.Info("Database seeded", "episodes", count, "file", c.SeedFile)
		return nil
	case cfg.CommandServe:
		return app.serve(ctx)
	}

	task, err := app.task(c.Command)
	if err != nil {
		return err
	}
	return tasks.NewRunner(taskTimeout).Run(ctx, task)
}

type app struct {
	cfg      *cfg.Cfg
	roster   *config.Roster
	episodes *database.EpisodeStore
	digests  *database.DigestStore
	stats    *database.StatsStore
	registry *prometheus.Registry
	recorder *metrics.Collector
}

func newApp(c *cfg.Cfg, roster *config.Roster, db *database.DB) *app {
	registry := prometheus.NewRegistry()
	return &app{
		cfg:      c,
		roster:   roster,
		episodes: database.NewEpisodeStore(db),
		digests:  database.NewDigestStore(db),
		stats:    database.NewStatsStore(db),
		registry: registry,
		recorder: metrics.NewCollector(registry),
	}
}

func (a *app) task(command string) (tasks.TaskInterface, error) {
	switch command {
	case cfg.CommandFetch:
		return a.fetchTask(), nil
	case cfg.CommandAnalyze:
		return a.analyzeTask(), nil
	case cfg.CommandDigest:
		return a.digestTask()
	case cfg.CommandRunAll:
		digestTask, err := a.digestTask()
		if err != nil {
			return nil, err
		}
		return tasks.NewRunAllTask(a.fetchTask(), a.analyzeTask(), digestTask), nil
	}
	return nil, fmt.Errorf("unknown command %q", command)
}

func (a *app) fetchTask() *tasks.FetchTask {
	fetcher := feed.NewFetcher(feed.NewHTTPClient(a.cfg.FetchTimeout, false), a.cfg.UserAgent)
	return tasks.NewFetchTask(a.roster.Podcasts(), fetcher, a.episodes, a.recorder, tasks.NewPacer(tasks.FeedInterval), a.cfg.SinceHours)
}

func (a *app) analyzeTask() *tasks.AnalyzeTask {
	feeds := feed.NewFetcher(feed.NewHTTPClient(a.cfg.FetchTimeout, false), a.cfg.UserAgent)
	pages := feed.NewFetcher(feed.NewHTTPClient(a.cfg.FetchTimeout, a.cfg.SafeFetch), a.cfg.UserAgent)
	transcripts := feed.NewTranscriptFetcher(pages, feed.NewYouTube(feeds))

	analyzer := llm.NewAnalyzer(a.llmClient())
	return tasks.NewAnalyzeTask(a.roster, a.episodes, transcripts, analyzer, a.recorder, tasks.NewPacer(tasks.AnalysisInterval), a.cfg.MaxEpisodes)
}

func (a *app) digestTask() (*tasks.DigestTask, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	builder := digest.NewBuilder(a.episodes, llm.NewSummarizer(a.llmClient()))

	var sender mail.Sender
	if a.cfg.SMTP.Enabled() {
		sender = mail.NewMailer(mail.Config{
			Host:     a.cfg.SMTP.Host,
			Port:     a.cfg.SMTP.Port,
			Username: a.cfg.SMTP.Username,
			Password: a.cfg.SMTP.Password,
			From:     a.cfg.SMTP.From,
		})
	}

	return tasks.NewDigestTask(builder, renderer, a.episodes, a.digests, sender, a.cfg.Recipients, a.cfg.OutputDir, a.recorder), nil
}

func (a *app) llmClient() *llm.Client {
	return llm.NewClient(llm.Config{
		APIKey:  a.cfg.LLMAPIKey,
		BaseURL: a.cfg.LLMBaseURL,
		Model:   a.cfg.LLMModel,
	})
}

func (a *app) serve(ctx context.Context) error {
	renderer, err := render.New()
	if err != nil {
		return err
	}

	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	extractor := analysis.NewExtractor(analysis.NewMatcher(analysis.DefaultThemes))
	reports := dashboard.NewService(a.episodes, a.stats, analysis.NewAggregator(a.episodes, extractor))

	baseURL := a.cfg.BaseUrl
	if baseURL == "" {
		baseURL = "http://localhost:" + a.cfg.Port
	}

	handler := api.NewHandler(reports, renderer, a.stats, a.digests, feed.NewGenerator(baseURL, a.cfg.Version), a.roster.Count())

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      api.NewServer(handler, a.recorder, metrics.Handler(a.registry)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting dashboard", "url", baseURL, "version", a.cfg.Version, "podcasts", a.roster.Count())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down dashboard")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("Dashboard stopped")
	return nil
}
