package llm

import (
	"strings"
	"testing"
)

func TestDecodeLLMJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain", `{"synopsis": "x"}`},
		{"fenced", "```json\n{\"synopsis\": \"x\"}\n```"},
		{"bare fence", "```\n{\"synopsis\": \"x\"}\n```"},
		{"prose", "Here is the analysis:\n{\"synopsis\": \"x\"}\nHope this helps."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out map[string]any
			if err := DecodeLLMJSON(tt.content, &out); err != nil {
				t.Fatalf("DecodeLLMJSON returned error: %v", err)
			}
			if out["synopsis"] != "x" {
				t.Errorf("Expected synopsis 'x', got %v", out["synopsis"])
			}
		})
	}
}

func TestDecodeLLMJSONFailures(t *testing.T) {
	for _, content := range []string{"", "no json here", "{broken"} {
		var out map[string]any
		if err := DecodeLLMJSON(content, &out); err == nil {
			t.Errorf("Expected error for %q", content)
		}
	}
}

func TestSummarizePayloadSnippet(t *testing.T) {
	if got := summarizePayloadSnippet("  a\n\tb  "); got != "a b" {
		t.Errorf("Expected 'a b', got '%s'", got)
	}
	if got := summarizePayloadSnippet(""); got != "<empty>" {
		t.Errorf("Expected '<empty>', got '%s'", got)
	}
	long := strings.Repeat("é", 200)
	if got := summarizePayloadSnippet(long); len([]rune(got)) != 163 {
		t.Errorf("Expected 160 runes plus ellipsis, got %d", len([]rune(got)))
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo", 2); got != "hé" {
		t.Errorf("Expected 'hé', got '%s'", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Errorf("Expected 'abc', got '%s'", got)
	}
}
