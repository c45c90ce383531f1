package analysis

import (
	"testing"
	"time"
)

func TestParsePublished(t *testing.T) {
	expected := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []string{
		"Sun, 01 Jun 2025 10:00:00 +0000",
		"Sun, 01 Jun 2025 10:00:00 GMT",
		"01 Jun 2025 10:00:00 +0000",
		"2025-06-01T10:00:00Z",
		"2025-06-01T10:00:00.123+00:00",
		"2025-06-01T10:00:00+0000",
		"2025-06-01T10:00:00",
		"2025-06-01 10:00:00",
		"2025-06-01T10:00:00.5",
		"2025-06-01 10:00:00.250",
	}

	for _, s := range tests {
		got, ok := ParsePublished(s)
		if !ok {
			t.Errorf("ParsePublished(%q): expected success", s)
			continue
		}
		if !naive(got).Truncate(time.Second).Equal(expected) {
			t.Errorf("ParsePublished(%q): expected %v, got %v", s, expected, got)
		}
	}

	if got, ok := ParsePublished("2025-06-01"); !ok || got.Day() != 1 {
		t.Errorf("Expected bare date to parse, got %v (%v)", got, ok)
	}

	for _, s := range []string{"", "yesterday", "June first", "2025-06-01T10:00", "2025-06-01 10:00:00 EDT-ish", "2025-06-01T10"} {
		if _, ok := ParsePublished(s); ok {
			t.Errorf("ParsePublished(%q): expected failure", s)
		}
	}
}

func TestNaiveDropsOffset(t *testing.T) {
	zone := time.FixedZone("EST", -5*3600)
	got := naive(time.Date(2025, 6, 1, 10, 0, 0, 0, zone))

	if got.Hour() != 10 || got.Location() != time.UTC {
		t.Errorf("Expected wall clock 10:00 kept, got %v", got)
	}
}
