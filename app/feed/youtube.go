package feed

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const (
	YouTubeFeedURL     = "https://www.youtube.com/feeds/videos.xml?channel_id="
	YouTubeCaptionsURL = "https://www.youtube.com/api/timedtext?lang=en&v="

	recentVideos = 10
)

// YouTube finds a channel's video for an episode and reads its captions.
type YouTube struct {
	fetcher     *Fetcher
	parser      *gofeed.Parser
	feedURL     string
	captionsURL string
}

func NewYouTube(fetcher *Fetcher) *YouTube {
	return &YouTube{
		fetcher:     fetcher,
		parser:      gofeed.NewParser(),
		feedURL:     YouTubeFeedURL,
		captionsURL: YouTubeCaptionsURL,
	}
}

// FindVideo returns the id of the recent channel upload that best matches
// episodeTitle, or the latest upload when none matches.
func (y *YouTube) FindVideo(ctx context.Context, channelID, episodeTitle string) (string, error) {
	data, err := y.fetcher.Get(ctx, y.feedURL+url.QueryEscape(channelID))
	if err != nil {
		return "", err
	}

	channel, err := y.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse channel feed: %w", err)
	}

	var videos []Video
	for _, item := range channel.Items {
		if id := videoID(item); id != "" {
			videos = append(videos, Video{ID: id, Title: item.Title})
		}
		if len(videos) == recentVideos {
			break
		}
	}

	video, ok := MatchVideo(videos, episodeTitle)
	if !ok {
		return "", fmt.Errorf("no videos on channel %s", channelID)
	}
	return video.ID, nil
}

// MatchVideo picks the first video sharing at least half of the episode
// title's significant words (longer than four characters). Without a match
// the first video is returned.
func MatchVideo(videos []Video, episodeTitle string) (Video, bool) {
	if len(videos) == 0 {
		return Video{}, false
	}

	words := significantWords(episodeTitle)
	if len(words) > 0 {
		need := max(1, len(words)/2)
		for _, v := range videos {
			title := strings.ToLower(v.Title)
			hits := 0
			for _, w := range words {
				if strings.Contains(title, w) {
					hits++
				}
			}
			if hits >= need {
				return v, true
			}
		}
	}

	return videos[0], true
}

func significantWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len([]rune(w)) > 4 {
			words = append(words, w)
		}
	}
	return words
}

// Captions returns the joined caption text of a video.
func (y *YouTube) Captions(ctx context.Context, videoID string) (string, error) {
	data, err := y.fetcher.Get(ctx, y.captionsURL+url.QueryEscape(videoID))
	if err != nil {
		return "", err
	}

	text, err := captionText(data)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("no captions for video %s", videoID)
	}
	return text, nil
}

// captionText joins the <text> nodes of a timedtext document.
func captionText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse captions: %w", err)
	}

	var parts []string
	doc.Find("text").Each(func(_ int, s *goquery.Selection) {
		// timedtext escapes entities twice
		if t := strings.Join(strings.Fields(html.UnescapeString(s.Text())), " "); t != "" {
			parts = append(parts, t)
		}
	})

	return strings.Join(parts, " "), nil
}

func videoID(item *gofeed.Item) string {
	if yt, ok := item.Extensions["yt"]; ok {
		if ids := yt["videoId"]; len(ids) > 0 && ids[0].Value != "" {
			return ids[0].Value
		}
	}

	if u, err := url.Parse(item.Link); err == nil {
		if v := u.Query().Get("v"); v != "" {
			return v
		}
	}

	return strings.TrimPrefix(item.GUID, "yt:video:")
}
