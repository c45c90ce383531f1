package feed

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/lysyi3m/podcast-intel/app/config"
)

const defaultFilterField = "title"

// Filterer applies one podcast's roster filters to its feed items, typically
// to drop trailers and reruns. Patterns are case-insensitive substrings and
// an exclude hit wins over includes.
type Filterer struct {
	rules []filterRule
}

type filterRule struct {
	field    string
	includes []string
	excludes []string
}

// NewFilterer compiles filters. An empty field means the episode title.
func NewFilterer(filters []config.Filter) *Filterer {
	f := &Filterer{rules: make([]filterRule, 0, len(filters))}
	for _, filter := range filters {
		f.rules = append(f.rules, filterRule{
			field:    cmp.Or(strings.ToLower(strings.TrimSpace(filter.Field)), defaultFilterField),
			includes: lowerAll(filter.Includes),
			excludes: lowerAll(filter.Excludes),
		})
	}
	return f
}

// Run marks the items the rules reject and returns them all in feed order.
func (f *Filterer) Run(items []Item) []Item {
	if len(f.rules) == 0 {
		return items
	}

	marked := make([]Item, 0, len(items))
	for _, item := range items {
		item.IsFiltered, item.FilterReason = f.check(item)
		marked = append(marked, item)
	}
	return marked
}

func (f *Filterer) check(item Item) (bool, string) {
	for _, rule := range f.rules {
		value := strings.ToLower(episodeField(item, rule.field))

		for _, pattern := range rule.excludes {
			if strings.Contains(value, pattern) {
				return true, fmt.Sprintf("%s contains excluded %q", rule.field, pattern)
			}
		}

		if len(rule.includes) > 0 && !containsAny(value, rule.includes) {
			return true, fmt.Sprintf("%s contains none of %q", rule.field, rule.includes)
		}
	}

	return false, ""
}

// episodeField returns "" for unknown fields, so includes on them never match.
func episodeField(item Item, field string) string {
	switch field {
	case "title":
		return item.Title
	case "description":
		return item.Description
	case "any":
		return item.Title + "\n" + item.Description
	}
	return ""
}

func containsAny(value string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(value, p) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
