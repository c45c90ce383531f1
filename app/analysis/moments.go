package analysis

import "strings"

type MomentType string

const (
	MomentQuote       MomentType = "quote"
	MomentAttack      MomentType = "attack"
	MomentOpportunity MomentType = "opportunity"
	MomentNarrative   MomentType = "narrative"
	MomentSynopsis    MomentType = "synopsis"
)

// Moment is one theme-tagged excerpt from an episode analysis.
type Moment struct {
	Type    MomentType `json:"type"`
	Themes  []Theme    `json:"themes"`
	Text    string     `json:"text"`
	Speaker string     `json:"speaker,omitempty"`
	Context string     `json:"context,omitempty"`
	Badge   string     `json:"badge"`
}

type Extractor struct {
	matcher *Matcher
}

func NewExtractor(matcher *Matcher) *Extractor {
	return &Extractor{matcher: matcher}
}

// Extract walks the analysis and returns the episode theme set together with
// the moments that matched, in display order. Topics and the synopsis add to
// the theme set without producing moments of their own, except for the single
// synopsis moment emitted when nothing else surfaced.
func (e *Extractor) Extract(a Analysis) ([]Theme, []Moment) {
	var themes []Theme
	var moments []Moment

	for _, topic := range a.KeyTopics {
		themes = e.matcher.Union(themes, e.matcher.Match(topic))
	}

	for _, q := range a.NotableQuotes {
		matched := e.matcher.Match(q.Quote + " " + q.Context)
		if len(matched) == 0 {
			continue
		}
		themes = e.matcher.Union(themes, matched)
		moments = append(moments, Moment{
			Type:    MomentQuote,
			Themes:  matched,
			Text:    q.Quote,
			Speaker: q.Speaker,
			Context: q.Context,
			Badge:   strings.ReplaceAll(q.Type, "_", " "),
		})
	}

	collect := func(texts []string, kind MomentType, badge string) {
		for _, t := range texts {
			matched := e.matcher.Match(t)
			if len(matched) == 0 {
				continue
			}
			themes = e.matcher.Union(themes, matched)
			moments = append(moments, Moment{Type: kind, Themes: matched, Text: t, Badge: badge})
		}
	}

	collect(a.PoliticalAttacks, MomentAttack, "attack")
	collect(a.MessagingOpportunities, MomentOpportunity, "opportunity")
	collect(a.NarrativeThemes, MomentNarrative, "narrative frame")

	synopsisThemes := e.matcher.Match(a.Synopsis)
	themes = e.matcher.Union(themes, synopsisThemes)

	if len(themes) > 0 && len(moments) == 0 && len(synopsisThemes) > 0 {
		moments = append(moments, Moment{
			Type:   MomentSynopsis,
			Themes: synopsisThemes,
			Text:   a.Synopsis,
			Badge:  "episode summary",
		})
	}

	return themes, moments
}
