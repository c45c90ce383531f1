package render

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io"
	"sort"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
	"github.com/lysyi3m/podcast-intel/app/dashboard"
	"github.com/lysyi3m/podcast-intel/app/database"
	"github.com/lysyi3m/podcast-intel/app/digest"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	EmptyDigestText = "No episodes analyzed today."
	ruleWidth       = 60
	rundownTopics   = 4
)

// Casers hold state and are built per call.
func upperCase(s string) string {
	return cases.Upper(language.Und).String(s)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

type Renderer struct {
	html      *htmltemplate.Template
	text      *texttemplate.Template
	sanitizer *Sanitizer
	now       func() time.Time
}

func New() (*Renderer, error) {
	r := &Renderer{
		sanitizer: NewSanitizer(),
		now:       time.Now,
	}

	html, err := htmltemplate.New("pages").Funcs(r.funcs()).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html templates: %w", err)
	}

	text, err := texttemplate.New("text").Funcs(texttemplate.FuncMap(r.funcs())).ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text templates: %w", err)
	}

	r.html = html
	r.text = text
	return r, nil
}

type digestPage struct {
	*digest.Report
	Leans       []config.Lean
	GeneratedAt string
}

// DigestHTML renders the email and archive version of a digest.
func (r *Renderer) DigestHTML(report *digest.Report) (string, error) {
	var buf bytes.Buffer
	if report.Empty() {
		err := r.html.ExecuteTemplate(&buf, "digest_empty.html.tmpl", report)
		return buf.String(), err
	}

	page := digestPage{
		Report:      report,
		Leans:       config.Leans,
		GeneratedAt: r.now().UTC().Format("2006-01-02 15:04"),
	}
	if err := r.html.ExecuteTemplate(&buf, "digest.html.tmpl", page); err != nil {
		return "", fmt.Errorf("failed to render digest html: %w", err)
	}
	return buf.String(), nil
}

// DigestText renders the plain-text alternative of a digest.
func (r *Renderer) DigestText(report *digest.Report) (string, error) {
	if report.Empty() {
		return EmptyDigestText, nil
	}

	var buf bytes.Buffer
	page := digestPage{Report: report, Leans: config.Leans}
	if err := r.text.ExecuteTemplate(&buf, "digest.txt.tmpl", page); err != nil {
		return "", fmt.Errorf("failed to render digest text: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

type volumeSeries struct {
	Labels  []string `json:"labels"`
	Right   []int    `json:"right"`
	Left    []int    `json:"left"`
	Neutral []int    `json:"neutral"`
}

type topicSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

type overviewCharts struct {
	Volume  volumeSeries
	Topics  topicSeries
	Threats []int
	Leans   []int
}

type overviewPage struct {
	dashboard.Overview
	Chart overviewCharts
}

func (r *Renderer) Overview(w io.Writer, data dashboard.Overview) error {
	page := overviewPage{Overview: data, Chart: newOverviewCharts(data)}
	if err := r.html.ExecuteTemplate(w, "overview.html.tmpl", page); err != nil {
		return fmt.Errorf("failed to render overview: %w", err)
	}
	return nil
}

func newOverviewCharts(data dashboard.Overview) overviewCharts {
	charts := overviewCharts{
		Volume: volumeSeries{Labels: []string{}, Right: []int{}, Left: []int{}, Neutral: []int{}},
		Topics: topicSeries{Labels: []string{}, Values: []int{}},
		Threats: []int{
			data.Stats.Threats[string(analysis.ThreatHigh)],
			data.Stats.Threats[string(analysis.ThreatMedium)],
			data.Stats.Threats[string(analysis.ThreatLow)],
		},
		Leans: []int{
			data.Stats.ByLean[string(config.LeanRight)],
			data.Stats.ByLean[string(config.LeanLeft)],
			data.Stats.ByLean[string(config.LeanNeutral)],
		},
	}

	days := make([]string, 0, len(data.Volume))
	for day := range data.Volume {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		counts := data.Volume[day]
		charts.Volume.Labels = append(charts.Volume.Labels, day)
		charts.Volume.Right = append(charts.Volume.Right, counts[config.LeanRight])
		charts.Volume.Left = append(charts.Volume.Left, counts[config.LeanLeft])
		charts.Volume.Neutral = append(charts.Volume.Neutral, counts[config.LeanNeutral])
	}

	for _, topic := range data.Topics {
		charts.Topics.Labels = append(charts.Topics.Labels, topic.Topic)
		charts.Topics.Values = append(charts.Topics.Values, topic.Count)
	}

	return charts
}

type rightCharts struct {
	Shows  topicSeries
	Topics topicSeries
}

type rightPage struct {
	dashboard.RightWing
	Chart rightCharts
}

func (r *Renderer) RightWing(w io.Writer, data dashboard.RightWing) error {
	page := rightPage{
		RightWing: data,
		Chart: rightCharts{
			Shows:  topicSeries{Labels: []string{}, Values: []int{}},
			Topics: topicSeries{Labels: []string{}, Values: []int{}},
		},
	}
	for _, show := range data.PerShow {
		page.Chart.Shows.Labels = append(page.Chart.Shows.Labels, show.Podcast)
		page.Chart.Shows.Values = append(page.Chart.Shows.Values, show.Count)
	}
	for _, topic := range data.TopTopics {
		page.Chart.Topics.Labels = append(page.Chart.Topics.Labels, topic.Topic)
		page.Chart.Topics.Values = append(page.Chart.Topics.Values, topic.Count)
	}

	if err := r.html.ExecuteTemplate(w, "right.html.tmpl", page); err != nil {
		return fmt.Errorf("failed to render right-wing view: %w", err)
	}
	return nil
}

type campaignPage struct {
	Hours         int
	Episodes      []analysis.CampaignEpisodeReport
	Cruelty       int
	Affordability int
	Both          int
	HighThreat    int
}

func (r *Renderer) Campaign(w io.Writer, episodes []analysis.CampaignEpisodeReport, hours int) error {
	page := campaignPage{Hours: hours, Episodes: episodes}
	for _, ep := range episodes {
		cruelty := hasTheme(ep.Themes, analysis.ThemeCruelty)
		affordability := hasTheme(ep.Themes, analysis.ThemeAffordability)
		if cruelty {
			page.Cruelty++
		}
		if affordability {
			page.Affordability++
		}
		if cruelty && affordability {
			page.Both++
		}
		if ep.Threat == analysis.ThreatHigh {
			page.HighThreat++
		}
	}

	if err := r.html.ExecuteTemplate(w, "campaign.html.tmpl", page); err != nil {
		return fmt.Errorf("failed to render campaign view: %w", err)
	}
	return nil
}

func (r *Renderer) funcs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"lane":        laneStyle,
		"quoteStyle":  quoteStyle,
		"threat":      threatStyle,
		"momentStyle": momentStyle,
		"clean":       r.sanitizer.HTML,
		"plain":       r.sanitizer.Plain,
		"upper":       upperCase,
		"join":        strings.Join,
		"first":       first,
		"rule":        func() string { return strings.Repeat("=", ruleWidth) },
		"comma":       func(n int) string { return humanize.Comma(int64(n)) },
		"ago":         ago,
		"rundownTopics": func(topics []string) []string {
			return first(rundownTopics, topics)
		},
		"leanColor": func(l config.Lean) string {
			return colorOf(dashLeanColors, l, "#888")
		},
		"threatColor": func(t analysis.ThreatLevel) string {
			return colorOf(dashThreatColors, t, "#888")
		},
		"themeColor": func(t analysis.Theme) string {
			return colorOf(themeColors, t, "#555")
		},
		"summary": func(s digest.Summary, lean config.Lean) []string {
			if bullets := s[lean]; len(bullets) > 0 {
				return bullets
			}
			return []string{"No data."}
		},
	}
}

func first(n int, items []string) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// ago renders a stored timestamp relative to now, or the raw value when it
// does not parse.
func ago(stamp string) string {
	t, err := time.Parse(database.TimestampLayout, stamp)
	if err != nil {
		return stamp
	}
	return humanize.Time(t)
}

func colorOf[K comparable](colors map[K]string, key K, fallback string) string {
	if c, ok := colors[key]; ok {
		return c
	}
	return fallback
}

func hasTheme(themes []analysis.Theme, theme analysis.Theme) bool {
	for _, t := range themes {
		if t == theme {
			return true
		}
	}
	return false
}
