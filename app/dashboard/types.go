package dashboard

import (
	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
)

type RecentEpisode struct {
	Podcast   string            `json:"podcast_name"`
	Lean      config.Lean       `json:"lean"`
	Title     string            `json:"title"`
	Published string            `json:"published"`
	FetchedAt string            `json:"fetched_at"`
	Analysis  analysis.Analysis `json:"analysis"`
}

type Stats struct {
	Total    int             `json:"total"`
	Analyzed int             `json:"analyzed"`
	ByLean   map[string]int  `json:"by_lean"`
	Recent   []RecentEpisode `json:"recent"`
	Threats  map[string]int  `json:"threats"`
}

// TopicCount marshals as a [topic, count] pair.
type TopicCount struct {
	Topic string
	Count int
}

func (t TopicCount) MarshalJSON() ([]byte, error) {
	return marshalPair(t.Topic, t.Count)
}

// DayVolume holds per-lean episode counts for one fetch day.
type DayVolume map[config.Lean]int

type Attack struct {
	Podcast     string               `json:"podcast"`
	Title       string               `json:"title"`
	Published   string               `json:"published"`
	Attacks     []string             `json:"attacks"`
	ThreatLevel analysis.ThreatLevel `json:"threat_level"`
}

type Opportunity struct {
	Podcast string      `json:"podcast"`
	Lean    config.Lean `json:"lean"`
	Text    string      `json:"opp"`
}

type Overview struct {
	Stats         Stats
	Topics        []TopicCount
	Volume        map[string]DayVolume
	Attacks       []Attack
	Opportunities []Opportunity
}

type ShowCount struct {
	Podcast string `json:"podcast_name"`
	Count   int    `json:"cnt"`
	High    int    `json:"high_cnt"`
}

type RightQuote struct {
	Podcast string `json:"podcast"`
	Title   string `json:"title"`
	Quote   string `json:"quote"`
	Speaker string `json:"speaker"`
	Type    string `json:"type"`
	Context string `json:"context"`
}

type RightAttack struct {
	Podcast string               `json:"podcast"`
	Attack  string               `json:"attack"`
	Threat  analysis.ThreatLevel `json:"threat"`
}

type RightEpisode struct {
	Podcast   string               `json:"podcast"`
	Title     string               `json:"title"`
	Published string               `json:"published"`
	Synopsis  string               `json:"synopsis"`
	Threat    analysis.ThreatLevel `json:"threat"`
	Topics    []string             `json:"topics"`
}

type RightWing struct {
	Episodes  []RightEpisode `json:"episodes"`
	PerShow   []ShowCount    `json:"per_show"`
	TopTopics []TopicCount   `json:"top_topics"`
	Quotes    []RightQuote   `json:"quotes"`
	Attacks   []RightAttack  `json:"attacks"`
}
