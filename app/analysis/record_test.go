package analysis

import (
	"reflect"
	"testing"
)

func TestNormalizeMalformedInput(t *testing.T) {
	inputs := []any{nil, "", "not json", "[1,2,3]", "42", []byte("{broken"), 3.14}

	for _, in := range inputs {
		a := Normalize(in)
		if a.Valid {
			t.Errorf("Normalize(%v): expected invalid record", in)
		}
		if a.Synopsis != "" || len(a.KeyTopics) != 0 || len(a.NotableQuotes) != 0 {
			t.Errorf("Normalize(%v): expected defaults, got %+v", in, a)
		}
		if a.ThreatLevel != ThreatLow {
			t.Errorf("Normalize(%v): expected threat 'low', got '%s'", in, a.ThreatLevel)
		}
	}
}

func TestNormalizeNarrativeThemesSingleString(t *testing.T) {
	a := ParseAnalysis(`{"narrative_themes": "single string"}`)

	if !reflect.DeepEqual(a.NarrativeThemes, []string{"single string"}) {
		t.Errorf("Expected [single string], got %v", a.NarrativeThemes)
	}
}

func TestNormalizeFieldShapes(t *testing.T) {
	a := ParseAnalysis(`{
		"one_liner": "Short summary",
		"key_topics": "not a list",
		"notable_quotes": ["bare quote", {"quote": "q", "speaker": "s", "context": "c", "type": "claim"}, null],
		"political_attacks": ["attack one", 7, {"target": "x"}],
		"messaging_opportunities": null,
		"threat_level": " HIGH ",
		"threat_rationale": "because"
	}`)

	if !a.Valid {
		t.Fatal("Expected valid record")
	}
	if a.Synopsis != "Short summary" {
		t.Errorf("Expected one_liner fallback, got '%s'", a.Synopsis)
	}
	if len(a.KeyTopics) != 0 {
		t.Errorf("Expected no key topics, got %v", a.KeyTopics)
	}
	if len(a.NotableQuotes) != 2 {
		t.Fatalf("Expected 2 quotes, got %d", len(a.NotableQuotes))
	}
	if a.NotableQuotes[0] != (Quote{Quote: "bare quote"}) {
		t.Errorf("Expected bare quote wrapped, got %+v", a.NotableQuotes[0])
	}
	if a.NotableQuotes[1].Type != QuoteClaim {
		t.Errorf("Expected type 'claim', got '%s'", a.NotableQuotes[1].Type)
	}

	expectedAttacks := []string{"attack one", "7", `{"target":"x"}`}
	if !reflect.DeepEqual(a.PoliticalAttacks, expectedAttacks) {
		t.Errorf("Expected %v, got %v", expectedAttacks, a.PoliticalAttacks)
	}
	if a.MessagingOpportunities == nil || len(a.MessagingOpportunities) != 0 {
		t.Errorf("Expected empty opportunities, got %v", a.MessagingOpportunities)
	}
	if a.ThreatLevel != ThreatHigh {
		t.Errorf("Expected threat 'high', got '%s'", a.ThreatLevel)
	}
	if a.ThreatRationale != "because" {
		t.Errorf("Expected rationale 'because', got '%s'", a.ThreatRationale)
	}
}

func TestNormalizeSynopsisPreferred(t *testing.T) {
	a := Normalize(map[string]any{"synopsis": "Full", "one_liner": "Short"})
	if a.Synopsis != "Full" {
		t.Errorf("Expected 'Full', got '%s'", a.Synopsis)
	}
}

func TestNormalizeUnknownThreatLevel(t *testing.T) {
	a := ParseAnalysis(`{"threat_level": "severe"}`)
	if a.ThreatLevel != ThreatLow {
		t.Errorf("Expected 'low', got '%s'", a.ThreatLevel)
	}
}

func TestAnalysisJSONRoundTrip(t *testing.T) {
	a := ParseAnalysis(`{"synopsis": "S", "narrative_themes": "one", "threat_level": "medium"}`)

	data, err := a.JSON()
	if err != nil {
		t.Fatal(err)
	}

	b := ParseAnalysis(data)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Expected %+v, got %+v", a, b)
	}
}
