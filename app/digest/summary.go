package digest

import (
	"strings"

	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/llm"
)

const (
	laneBudget     = 4000
	errorBullet    = "Error generating summary. Check logs."
	fillerBullet   = "—"
	bulletsPerLane = 3
)

var bulletPrefixes = []string{"•", "- ", "* "}

// ParseSummary reads the model's three-lane reply. Lines before the first
// lane header and lines that are neither headers nor bullets are dropped.
func ParseSummary(raw string) Summary {
	summary := Summary{}
	for _, lean := range config.Leans {
		summary[lean] = []string{}
	}

	var current config.Lean
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if bullet, ok := trimBullet(line); ok {
			if current != "" && bullet != "" {
				summary[current] = append(summary[current], bullet)
			}
			continue
		}

		if lean, ok := laneHeader(line); ok {
			current = lean
		}
	}

	return summary
}

func trimBullet(line string) (string, bool) {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return "", false
}

func laneHeader(line string) (config.Lean, bool) {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "RIGHT-WING"):
		return config.LeanRight, true
	case strings.Contains(upper, "CENTER"), strings.Contains(upper, "NEUTRAL"):
		return config.LeanNeutral, true
	case strings.Contains(upper, "LEFT"), strings.Contains(upper, "PROGRESSIVE"):
		return config.LeanLeft, true
	}
	return "", false
}

// FallbackSummary is used when the model call fails or returns nothing usable.
func FallbackSummary() Summary {
	summary := Summary{}
	for _, lean := range config.Leans {
		summary[lean] = []string{errorBullet, fillerBullet, fillerBullet}
	}
	return summary
}

func placeholderBullets() []string {
	bullets := make([]string, bulletsPerLane)
	for i := range bullets {
		bullets[i] = llm.NoEpisodesBullet
	}
	return bullets
}

// usable reports whether at least one lane has a bullet.
func (s Summary) usable() bool {
	for _, bullets := range s {
		if len(bullets) > 0 {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
