package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrPodcastNotFound = errors.New("podcast not found in roster")

// Roster holds the loaded podcasts in lane order
type Roster struct {
	podcasts []*Podcast
	byName   map[string]*Podcast
}

// Loader handles loading and validation of the podcast roster
type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the roster file. A missing file yields an empty roster.
func (l *Loader) Load() (*Roster, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Podcast roster not found", "path", l.path)
		return NewRoster(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var raw map[string][]*Podcast
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for key := range raw {
		if _, ok := ParseLean(key); !ok {
			return nil, fmt.Errorf("unknown lean %q in %s", key, l.path)
		}
	}

	var podcasts []*Podcast
	for _, lean := range Leans {
		for _, p := range raw[string(lean)] {
			if p == nil {
				continue
			}
			p.Lean = lean
			podcasts = append(podcasts, p)
		}
	}

	roster, err := NewRoster(podcasts)
	if err != nil {
		return nil, fmt.Errorf("invalid roster %s: %w", l.path, err)
	}

	slog.Debug("Podcast roster loaded", "path", l.path, "podcasts", roster.Count())

	return roster, nil
}

// NewRoster validates podcasts and indexes them by name.
func NewRoster(podcasts []*Podcast) (*Roster, error) {
	r := &Roster{
		podcasts: make([]*Podcast, 0, len(podcasts)),
		byName:   make(map[string]*Podcast, len(podcasts)),
	}

	for i, p := range podcasts {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("podcast at index %d: %w", i, err)
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate podcast name %q", p.Name)
		}
		r.byName[p.Name] = p
		r.podcasts = append(r.podcasts, p)
	}

	return r, nil
}

func (r *Roster) Podcasts() []*Podcast {
	return r.podcasts
}

func (r *Roster) ByLean(lean Lean) []*Podcast {
	var out []*Podcast
	for _, p := range r.podcasts {
		if p.Lean == lean {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) Lookup(name string) (*Podcast, error) {
	p, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPodcastNotFound, name)
	}
	return p, nil
}

func (r *Roster) Count() int {
	return len(r.podcasts)
}

func validate(p *Podcast) error {
	if p.Name == "" {
		return fmt.Errorf("podcast name is required")
	}
	if _, ok := ParseLean(string(p.Lean)); !ok {
		return fmt.Errorf("invalid lean %q for %s", p.Lean, p.Name)
	}

	// Empty means title
	validFields := map[string]bool{
		"":            true,
		"title":       true,
		"description": true,
		"any":         true,
	}

	for i, filter := range p.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
