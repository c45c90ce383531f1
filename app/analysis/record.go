package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ThreatLevel string

const (
	ThreatLow    ThreatLevel = "low"
	ThreatMedium ThreatLevel = "medium"
	ThreatHigh   ThreatLevel = "high"
)

// Quote types the analysis prompt asks for.
const (
	QuoteAttack              = "attack"
	QuoteClaim               = "claim"
	QuoteAdmission           = "admission"
	QuoteNotablePosition     = "notable_position"
	QuoteCrossPartisanSignal = "cross_partisan_signal"
)

type Quote struct {
	Quote   string `json:"quote"`
	Speaker string `json:"speaker"`
	Context string `json:"context"`
	Type    string `json:"type"`
}

// Analysis is the decoded per-episode analysis. Every field holds a usable
// default when the source value was missing or malformed.
type Analysis struct {
	Synopsis               string      `json:"synopsis"`
	KeyTopics              []string    `json:"key_topics"`
	NotableQuotes          []Quote     `json:"notable_quotes"`
	PoliticalAttacks       []string    `json:"political_attacks"`
	NarrativeThemes        []string    `json:"narrative_themes"`
	MessagingOpportunities []string    `json:"messaging_opportunities"`
	ThreatLevel            ThreatLevel `json:"threat_level"`
	ThreatRationale        string      `json:"threat_rationale"`

	// Valid is false when the source could not be read as a JSON object.
	Valid bool `json:"-"`
}

// ParseAnalysis decodes a stored analysis column.
func ParseAnalysis(raw string) Analysis {
	return Normalize(raw)
}

// Normalize decodes raw, which may be nil, a JSON string or bytes, or an
// already-decoded map. It never fails: unusable input yields the defaults.
func Normalize(raw any) Analysis {
	var fields map[string]any

	switch v := raw.(type) {
	case nil:
	case map[string]any:
		fields = v
	case string:
		fields = decodeObject([]byte(v))
	case []byte:
		fields = decodeObject(v)
	case json.RawMessage:
		fields = decodeObject(v)
	}

	a := Analysis{ThreatLevel: ThreatLow}
	if fields == nil {
		return a
	}

	a.Valid = true
	a.Synopsis = firstText(fields["synopsis"], fields["one_liner"])
	a.KeyTopics = textList(fields["key_topics"], false)
	a.NotableQuotes = quoteList(fields["notable_quotes"])
	a.PoliticalAttacks = textList(fields["political_attacks"], false)
	a.NarrativeThemes = textList(fields["narrative_themes"], true)
	a.MessagingOpportunities = textList(fields["messaging_opportunities"], false)
	a.ThreatLevel = threatLevel(fields["threat_level"])
	a.ThreatRationale = text(fields["threat_rationale"])

	return a
}

// JSON re-serializes the analysis in its canonical stored shape.
func (a Analysis) JSON() (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("failed to encode analysis: %w", err)
	}
	return string(data), nil
}

func decodeObject(data []byte) map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}

func firstText(values ...any) string {
	for _, v := range values {
		if s := text(v); s != "" {
			return s
		}
	}
	return ""
}

// text converts a scalar to a string. Objects and arrays are rendered as JSON.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool, float64, json.Number:
		return fmt.Sprint(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func textList(v any, wrapSingle bool) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, text(item))
		}
		return out
	case string:
		if wrapSingle && t != "" {
			return []string{t}
		}
	}
	return []string{}
}

func quoteList(v any) []Quote {
	items, ok := v.([]any)
	if !ok {
		return []Quote{}
	}

	quotes := make([]Quote, 0, len(items))
	for _, item := range items {
		switch q := item.(type) {
		case nil:
		case map[string]any:
			quotes = append(quotes, Quote{
				Quote:   text(q["quote"]),
				Speaker: text(q["speaker"]),
				Context: text(q["context"]),
				Type:    text(q["type"]),
			})
		default:
			quotes = append(quotes, Quote{Quote: text(q)})
		}
	}
	return quotes
}

func threatLevel(v any) ThreatLevel {
	s, _ := v.(string)
	switch level := ThreatLevel(strings.ToLower(strings.TrimSpace(s))); level {
	case ThreatLow, ThreatMedium, ThreatHigh:
		return level
	}
	return ThreatLow
}
