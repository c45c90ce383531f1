package dashboard

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/database"
)

const (
	recentLimit          = 20
	trendingDays         = 7
	trendingLimit        = 20
	volumeDays           = 14
	attacksLimit         = 30
	opportunityLimit     = 25
	fallbackEpisodes     = 20
	fallbackPerEpisode   = 2
	rightTopicsLimit     = 15
	rightQuotesLimit     = 20
	rightAttacksLimit    = 30
	rightEpisodeTopicCap = 4
)

type EpisodeSource interface {
	ListAnalyzed(filter database.EpisodeFilter) ([]database.Episode, error)
}

// Service computes the reporting views. Every method degrades to an empty
// value and logs a warning when the store fails.
type Service struct {
	episodes EpisodeSource
	stats    database.StatsRepository
	campaign *analysis.Aggregator
	now      func() time.Time
}

func NewService(episodes EpisodeSource, stats database.StatsRepository, campaign *analysis.Aggregator) *Service {
	return &Service{
		episodes: episodes,
		stats:    stats,
		campaign: campaign,
		now:      time.Now,
	}
}

func (s *Service) Overview() Overview {
	return Overview{
		Stats:         s.Stats(),
		Topics:        s.TrendingTopics(),
		Volume:        s.DailyVolume(),
		Attacks:       s.Attacks(),
		Opportunities: s.Opportunities(),
	}
}

func (s *Service) Stats() Stats {
	empty := Stats{
		ByLean:  map[string]int{},
		Recent:  []RecentEpisode{},
		Threats: map[string]int{},
	}

	total, err := s.stats.CountEpisodes()
	if err != nil {
		slog.Warn("Stats unavailable", "error", err)
		return empty
	}
	analyzed, err := s.stats.CountAnalyzed()
	if err != nil {
		slog.Warn("Stats unavailable", "error", err)
		return empty
	}
	byLean, err := s.stats.CountByLean()
	if err != nil {
		slog.Warn("Stats unavailable", "error", err)
		return empty
	}
	rawThreats, err := s.stats.ThreatCounts()
	if err != nil {
		slog.Warn("Stats unavailable", "error", err)
		return empty
	}
	recent, err := s.episodes.ListAnalyzed(database.EpisodeFilter{Limit: recentLimit})
	if err != nil {
		slog.Warn("Stats unavailable", "error", err)
		return empty
	}

	stats := Stats{
		Total:    total,
		Analyzed: analyzed,
		ByLean:   byLean,
		Recent:   make([]RecentEpisode, 0, len(recent)),
		Threats:  make(map[string]int),
	}

	for level, count := range rawThreats {
		stats.Threats[string(normalizeThreat(level))] += count
	}

	for _, ep := range recent {
		stats.Recent = append(stats.Recent, RecentEpisode{
			Podcast:   ep.PodcastName,
			Lean:      ep.Lean,
			Title:     ep.Title,
			Published: ep.Published,
			FetchedAt: ep.FetchedAt,
			Analysis:  analysis.ParseAnalysis(ep.Analysis),
		})
	}

	return stats
}

// TrendingTopics ranks key topics of episodes fetched in the last week.
func (s *Service) TrendingTopics() []TopicCount {
	since := database.FormatTimestamp(s.now().Add(-trendingDays * 24 * time.Hour))

	episodes, err := s.episodes.ListAnalyzed(database.EpisodeFilter{FetchedAfter: since})
	if err != nil {
		slog.Warn("Trending topics unavailable", "error", err)
		return []TopicCount{}
	}

	counter := newTopicCounter()
	for _, ep := range episodes {
		record := analysis.ParseAnalysis(ep.Analysis)
		if !record.Valid {
			continue
		}
		counter.add(record.KeyTopics...)
	}

	return counter.top(trendingLimit)
}

// DailyVolume counts episodes per fetch day and lean over the last two weeks.
// Each day present carries all three leans.
func (s *Service) DailyVolume() map[string]DayVolume {
	since := database.FormatTimestamp(s.now().Add(-volumeDays * 24 * time.Hour))

	rows, err := s.stats.DailyVolume(since)
	if err != nil {
		slog.Warn("Daily volume unavailable", "error", err)
		return map[string]DayVolume{}
	}

	volume := make(map[string]DayVolume)
	for _, row := range rows {
		day, ok := volume[row.Day]
		if !ok {
			day = DayVolume{config.LeanLeft: 0, config.LeanRight: 0, config.LeanNeutral: 0}
			volume[row.Day] = day
		}
		day[row.Lean] = row.Count
	}

	return volume
}

// Attacks lists the most recent right-lean episodes that carry attacks.
func (s *Service) Attacks() []Attack {
	episodes, err := s.episodes.ListAnalyzed(database.EpisodeFilter{Leans: []config.Lean{config.LeanRight}})
	if err != nil {
		slog.Warn("Attacks unavailable", "error", err)
		return []Attack{}
	}

	attacks := []Attack{}
	for _, ep := range episodes {
		record := analysis.ParseAnalysis(ep.Analysis)
		if len(record.PoliticalAttacks) == 0 {
			continue
		}
		attacks = append(attacks, Attack{
			Podcast:     ep.PodcastName,
			Title:       ep.Title,
			Published:   ep.Published,
			Attacks:     record.PoliticalAttacks,
			ThreatLevel: record.ThreatLevel,
		})
		if len(attacks) == attacksLimit {
			break
		}
	}

	return attacks
}

// Opportunities collects messaging opportunities across all analyzed
// episodes. When none exist it substitutes up to two narrative themes per
// episode from the most recent left and neutral episodes.
func (s *Service) Opportunities() []Opportunity {
	episodes, err := s.episodes.ListAnalyzed(database.EpisodeFilter{})
	if err != nil {
		slog.Warn("Opportunities unavailable", "error", err)
		return []Opportunity{}
	}

	opportunities := []Opportunity{}
	for _, ep := range episodes {
		for _, opp := range analysis.ParseAnalysis(ep.Analysis).MessagingOpportunities {
			opportunities = append(opportunities, Opportunity{Podcast: ep.PodcastName, Lean: ep.Lean, Text: opp})
		}
	}

	if len(opportunities) == 0 {
		opportunities = s.narrativeOpportunities()
	}

	if len(opportunities) > opportunityLimit {
		opportunities = opportunities[:opportunityLimit]
	}

	return opportunities
}

func (s *Service) narrativeOpportunities() []Opportunity {
	episodes, err := s.episodes.ListAnalyzed(database.EpisodeFilter{
		Leans: []config.Lean{config.LeanLeft, config.LeanNeutral},
	})
	if err != nil {
		slog.Warn("Narrative fallback unavailable", "error", err)
		return []Opportunity{}
	}

	opportunities := []Opportunity{}
	used := 0
	for _, ep := range episodes {
		themes := analysis.ParseAnalysis(ep.Analysis).NarrativeThemes
		if len(themes) == 0 {
			continue
		}
		if len(themes) > fallbackPerEpisode {
			themes = themes[:fallbackPerEpisode]
		}
		for _, theme := range themes {
			opportunities = append(opportunities, Opportunity{Podcast: ep.PodcastName, Lean: ep.Lean, Text: theme})
		}
		used++
		if used == fallbackEpisodes {
			break
		}
	}

	return opportunities
}

func (s *Service) RightWing() RightWing {
	data := RightWing{
		Episodes:  []RightEpisode{},
		PerShow:   []ShowCount{},
		TopTopics: []TopicCount{},
		Quotes:    []RightQuote{},
		Attacks:   []RightAttack{},
	}

	episodes, err := s.episodes.ListAnalyzed(database.EpisodeFilter{Leans: []config.Lean{config.LeanRight}})
	if err != nil {
		slog.Warn("Right-wing view unavailable", "error", err)
		return data
	}
	shows, err := s.stats.ShowCounts(config.LeanRight)
	if err != nil {
		slog.Warn("Right-wing view unavailable", "error", err)
		return data
	}

	for _, show := range shows {
		data.PerShow = append(data.PerShow, ShowCount{Podcast: show.Podcast, Count: show.Count, High: show.High})
	}

	counter := newTopicCounter()
	for _, ep := range episodes {
		record := analysis.ParseAnalysis(ep.Analysis)
		if !record.Valid {
			continue
		}
		counter.add(record.KeyTopics...)

		for _, q := range record.NotableQuotes {
			data.Quotes = append(data.Quotes, RightQuote{
				Podcast: ep.PodcastName,
				Title:   ep.Title,
				Quote:   q.Quote,
				Speaker: q.Speaker,
				Type:    q.Type,
				Context: q.Context,
			})
		}
		for _, atk := range record.PoliticalAttacks {
			data.Attacks = append(data.Attacks, RightAttack{Podcast: ep.PodcastName, Attack: atk, Threat: record.ThreatLevel})
		}

		topics := record.KeyTopics
		if len(topics) > rightEpisodeTopicCap {
			topics = topics[:rightEpisodeTopicCap]
		}
		data.Episodes = append(data.Episodes, RightEpisode{
			Podcast:   ep.PodcastName,
			Title:     ep.Title,
			Published: ep.Published,
			Synopsis:  record.Synopsis,
			Threat:    record.ThreatLevel,
			Topics:    topics,
		})
	}

	data.TopTopics = counter.top(rightTopicsLimit)
	if len(data.Quotes) > rightQuotesLimit {
		data.Quotes = data.Quotes[:rightQuotesLimit]
	}
	if len(data.Attacks) > rightAttacksLimit {
		data.Attacks = data.Attacks[:rightAttacksLimit]
	}

	return data
}

// Campaign returns the theme report for the last hours.
func (s *Service) Campaign(hours int) []analysis.CampaignEpisodeReport {
	return s.campaign.BuildReport(hours)
}

func normalizeThreat(level string) analysis.ThreatLevel {
	switch l := analysis.ThreatLevel(strings.ToLower(strings.TrimSpace(level))); l {
	case analysis.ThreatLow, analysis.ThreatMedium, analysis.ThreatHigh:
		return l
	default:
		return analysis.ThreatLow
	}
}

// topicCounter tallies lowercased topics, remembering first-seen order so
// equal counts rank deterministically.
type topicCounter struct {
	counts map[string]int
	order  []string
}

func newTopicCounter() *topicCounter {
	return &topicCounter{counts: make(map[string]int)}
}

func (c *topicCounter) add(topics ...string) {
	for _, topic := range topics {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			continue
		}
		if _, seen := c.counts[topic]; !seen {
			c.order = append(c.order, topic)
		}
		c.counts[topic]++
	}
}

func (c *topicCounter) top(limit int) []TopicCount {
	ranked := make([]TopicCount, 0, len(c.order))
	for _, topic := range c.order {
		ranked = append(ranked, TopicCount{Topic: topic, Count: c.counts[topic]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func marshalPair(key string, value int) ([]byte, error) {
	return json.Marshal([]any{key, value})
}
