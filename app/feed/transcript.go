package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lysyi3m/podcast-intel/app/config"
)

const MaxTranscriptLength = 30000

var errNoTranscriptLink = errors.New("no transcript link found")

// TranscriptFetcher tries the podcast's transcript page first and its YouTube
// channel second.
type TranscriptFetcher struct {
	pages     *Fetcher
	youtube   *YouTube
	extractor *ContentExtractor
}

func NewTranscriptFetcher(pages *Fetcher, youtube *YouTube) *TranscriptFetcher {
	return &TranscriptFetcher{
		pages:     pages,
		youtube:   youtube,
		extractor: NewContentExtractor(),
	}
}

// Fetch returns a transcript for the episode, or false when no source produced one.
func (f *TranscriptFetcher) Fetch(ctx context.Context, podcast *config.Podcast, episodeTitle string) (string, bool) {
	if podcast.TranscriptURL != "" {
		text, err := f.fromPage(ctx, podcast.TranscriptURL, episodeTitle)
		if err == nil {
			return truncate(text, MaxTranscriptLength), true
		}
		slog.Debug("Transcript page lookup failed", "podcast", podcast.Name, "title", episodeTitle, "error", err)
	}

	if podcast.YouTubeChannelID != "" {
		text, err := f.fromYouTube(ctx, podcast.YouTubeChannelID, episodeTitle)
		if err == nil {
			slog.Info("Got YouTube transcript", "podcast", podcast.Name, "title", episodeTitle, "length", len(text))
			return truncate(text, MaxTranscriptLength), true
		}
		slog.Debug("YouTube transcript lookup failed", "podcast", podcast.Name, "title", episodeTitle, "error", err)
	}

	return "", false
}

func (f *TranscriptFetcher) fromPage(ctx context.Context, indexURL, episodeTitle string) (string, error) {
	index, err := f.pages.Get(ctx, indexURL)
	if err != nil {
		return "", err
	}

	link, err := FindTranscriptURL(string(index), episodeTitle)
	if err != nil {
		return "", err
	}

	target, err := resolve(indexURL, link)
	if err != nil {
		return "", err
	}

	data, err := f.pages.Get(ctx, target)
	if err != nil {
		return "", err
	}

	if strings.EqualFold(path.Ext(target), ".txt") {
		text := strings.Join(strings.Fields(string(data)), " ")
		if text == "" {
			return "", fmt.Errorf("empty transcript at %s", target)
		}
		return text, nil
	}

	return f.extractor.Run(data, target)
}

func (f *TranscriptFetcher) fromYouTube(ctx context.Context, channelID, episodeTitle string) (string, error) {
	videoID, err := f.youtube.FindVideo(ctx, channelID, episodeTitle)
	if err != nil {
		return "", err
	}
	return f.youtube.Captions(ctx, videoID)
}

// FindTranscriptURL picks the link on a transcript index page that belongs to
// the episode. Links whose text shares the episode title's significant words
// rank first, preferring ones that also look like transcripts. PDFs are
// skipped since their text cannot be read.
func FindTranscriptURL(html, episodeTitle string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse transcript page: %w", err)
	}

	words := significantWords(episodeTitle)
	need := max(1, len(words)/2)

	var best string
	bestScore := 0

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.EqualFold(path.Ext(hrefPath(href)), ".pdf") {
			return
		}

		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		hits := 0
		for _, w := range words {
			if strings.Contains(text, w) || strings.Contains(strings.ToLower(href), w) {
				hits++
			}
		}
		if len(words) == 0 || hits < need {
			return
		}

		score := 1
		if strings.Contains(text, "transcript") || strings.EqualFold(path.Ext(hrefPath(href)), ".txt") {
			score = 2
		}
		if score > bestScore {
			best, bestScore = href, score
		}
	})

	if best == "" {
		return "", errNoTranscriptLink
	}
	return best, nil
}

func hrefPath(href string) string {
	if u, err := url.Parse(href); err == nil {
		return u.Path
	}
	return href
}

func resolve(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid transcript page url: %w", err)
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid transcript link: %w", err)
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
