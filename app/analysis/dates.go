package analysis

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// isoSuffix is what may follow a recognised ISO prefix: fractional seconds
// and/or a zone designator.
var isoSuffix = regexp.MustCompile(`^(\.\d+)?(Z|[+-]\d{2}(:?\d{2})?)?$`)

var isoLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePublished parses the free-form published text stored from feeds.
// RFC 2822 dates are tried first, then several ISO 8601 shapes. A fraction
// or zone after a recognised ISO prefix is ignored; any other trailing text
// rejects the value.
func ParsePublished(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := mail.ParseDate(s); err == nil {
		return t, true
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
		if len(s) > len(layout) && isoSuffix.MatchString(s[len(layout):]) {
			if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// naive keeps the wall clock of t and discards its zone.
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
