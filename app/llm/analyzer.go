package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lysyi3m/podcast-intel/app/analysis"
)

const (
	minContentLength  = 50
	maxContentLength  = 20000
	analysisMaxTokens = 1200
	summaryMaxTokens  = 600
)

var ErrInsufficientContent = errors.New("insufficient content for analysis")

type EpisodeInput struct {
	PodcastName string
	Lean        string
	Host        string
	Title       string
	Published   string
	Description string
	Transcript  string
}

// Content returns the text sent for analysis: the transcript when present,
// otherwise the description.
func (in EpisodeInput) Content() string {
	if in.Transcript != "" {
		return in.Transcript
	}
	return in.Description
}

type Result struct {
	Analysis analysis.Analysis
	// JSON is the model's object re-encoded for storage.
	JSON string
}

type Analyzer struct {
	client Completer
}

func NewAnalyzer(client Completer) *Analyzer {
	return &Analyzer{client: client}
}

func (a *Analyzer) Analyze(ctx context.Context, in EpisodeInput) (*Result, error) {
	content := in.Content()
	if len([]rune(content)) < minContentLength {
		return nil, ErrInsufficientContent
	}

	host := in.Host
	if host == "" {
		host = "unknown"
	}

	prompt, err := render(analysisPrompt, struct {
		PodcastName, Lean, Host, Title, Published, Content string
	}{in.PodcastName, in.Lean, host, in.Title, in.Published, truncateRunes(content, maxContentLength)})
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	reply, err := a.client.Complete(ctx, prompt, analysisMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze episode: %w", err)
	}

	var fields map[string]any
	if err := DecodeLLMJSON(reply, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	return &Result{
		Analysis: analysis.Normalize(fields),
		JSON:     string(encoded),
	}, nil
}

type Summarizer struct {
	client Completer
}

func NewSummarizer(client Completer) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize asks for the three-lane top line of a day's episode data.
func (s *Summarizer) Summarize(ctx context.Context, date, episodes string) (string, error) {
	prompt, err := render(digestPrompt, struct{ Date, Episodes string }{date, episodes})
	if err != nil {
		return "", fmt.Errorf("failed to build summary prompt: %w", err)
	}

	reply, err := s.client.Complete(ctx, prompt, summaryMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to summarize digest: %w", err)
	}
	return reply, nil
}
