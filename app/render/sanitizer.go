package render

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from feed and LLM text before it reaches a page.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// HTML returns s with every tag removed. The result is already escaped.
func (s *Sanitizer) HTML(text string) template.HTML {
	return template.HTML(s.policy.Sanitize(text))
}

// Plain returns s with every tag removed and entities decoded.
func (s *Sanitizer) Plain(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}
