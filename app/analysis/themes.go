package analysis

import "strings"

type Theme string

const (
	ThemeCruelty       Theme = "cruelty"
	ThemeAffordability Theme = "affordability"
)

// ThemeKeywords binds a theme to its lowercase trigger phrases.
type ThemeKeywords struct {
	Theme    Theme
	Keywords []string
}

// DefaultThemes is the campaign theme registry. Matching output follows this order.
var DefaultThemes = []ThemeKeywords{
	{
		Theme: ThemeCruelty,
		Keywords: []string{
			"cruelty", "cruel", "heartless", "inhumane", "suffering", "punish",
			"harm", "hurt", "cut", "strip", "deny", "rip away", "slash", "brutal",
			"vicious", "callous", "merciless", "pain", "devastate", "abandon",
			"medicaid", "snap", "food stamps", "disability", "veterans benefits",
			"deportation", "family separation", "children", "vulnerable",
		},
	},
	{
		Theme: ThemeAffordability,
		Keywords: []string{
			"afford", "affordability", "cost", "price", "expense", "expensive",
			"housing", "rent", "mortgage", "healthcare", "prescription", "drug price",
			"grocery", "food", "inflation", "wage", "salary", "income", "debt",
			"student loan", "childcare", "utilities", "insurance", "copay",
			"out of pocket", "middle class", "working family", "paycheck",
			"tariff", "tax cut", "billionaire", "corporate", "profit",
		},
	},
}

// Matcher tags text with campaign themes by case-insensitive substring search.
// A keyword embedded in a longer word still matches.
type Matcher struct {
	themes []ThemeKeywords
}

func NewMatcher(themes []ThemeKeywords) *Matcher {
	return &Matcher{themes: themes}
}

// Themes returns the registry order.
func (m *Matcher) Themes() []Theme {
	out := make([]Theme, len(m.themes))
	for i, t := range m.themes {
		out[i] = t.Theme
	}
	return out
}

// Match returns the themes with at least one keyword hit in text, restricted
// to only when given. Empty text never matches.
func (m *Matcher) Match(text string, only ...Theme) []Theme {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var matched []Theme

	for _, t := range m.themes {
		if len(only) > 0 && !containsTheme(only, t.Theme) {
			continue
		}
		for _, kw := range t.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, t.Theme)
				break
			}
		}
	}

	return matched
}

// Union merges theme sets, returning them in registry order.
func (m *Matcher) Union(sets ...[]Theme) []Theme {
	var out []Theme
	for _, t := range m.themes {
		for _, set := range sets {
			if containsTheme(set, t.Theme) {
				out = append(out, t.Theme)
				break
			}
		}
	}
	return out
}

func containsTheme(set []Theme, theme Theme) bool {
	for _, t := range set {
		if t == theme {
			return true
		}
	}
	return false
}
