package render

import (
	"strings"

	"github.com/lysyi3m/podcast-intel/app/analysis"
	"github.com/lysyi3m/podcast-intel/app/config"
)

type LaneStyle struct {
	Label  string
	Color  string
	Bg     string
	Border string
	Dot    string
}

var laneStyles = map[config.Lean]LaneStyle{
	config.LeanRight:   {Label: "RIGHT-WING", Color: "#c0392b", Bg: "#fdf2f2", Border: "#e8b0b0", Dot: "🔴"},
	config.LeanNeutral: {Label: "CENTER / NEUTRAL", Color: "#5d6d7e", Bg: "#f4f6f7", Border: "#c0c9d0", Dot: "⚪"},
	config.LeanLeft:    {Label: "LEFT / PROGRESSIVE", Color: "#1a5276", Bg: "#eaf4fb", Border: "#aed6f1", Dot: "🔵"},
}

func laneStyle(lean config.Lean) LaneStyle {
	if style, ok := laneStyles[lean]; ok {
		return style
	}
	return LaneStyle{Label: upperCase(string(lean)), Color: "#888", Bg: "#f5f5f5", Border: "#ccc", Dot: "⚫"}
}

type QuoteStyle struct {
	Icon  string
	Color string
	Label string
}

var quoteStyles = map[string]QuoteStyle{
	analysis.QuoteAttack:              {Icon: "⚔️", Color: "#c0392b", Label: "Attack"},
	analysis.QuoteClaim:               {Icon: "📌", Color: "#7d6608", Label: "Claim"},
	analysis.QuoteNotablePosition:     {Icon: "💬", Color: "#1a5276", Label: "Notable position"},
	analysis.QuoteCrossPartisanSignal: {Icon: "🤝", Color: "#1e8449", Label: "Cross-partisan signal"},
	analysis.QuoteAdmission:           {Icon: "⚠️", Color: "#6c3483", Label: "Admission"},
}

func quoteStyle(quoteType string) QuoteStyle {
	if style, ok := quoteStyles[quoteType]; ok {
		return style
	}
	return QuoteStyle{Icon: "💬", Color: "#555", Label: titleCase(strings.ReplaceAll(quoteType, "_", " "))}
}

type ThreatStyle struct {
	Label string
	Color string
	Bg    string
}

var threatStyles = map[analysis.ThreatLevel]ThreatStyle{
	analysis.ThreatHigh:   {Label: "HIGH THREAT", Color: "#c0392b", Bg: "#fdf2f2"},
	analysis.ThreatMedium: {Label: "MED THREAT", Color: "#d35400", Bg: "#fef5ec"},
	analysis.ThreatLow:    {Label: "LOW THREAT", Color: "#1e8449", Bg: "#eafaf1"},
}

// threatStyle returns a zero style for unknown levels, which templates skip.
func threatStyle(level analysis.ThreatLevel) ThreatStyle {
	return threatStyles[level]
}

// Dashboard palette, brighter than the email one.
var (
	dashLeanColors = map[config.Lean]string{
		config.LeanLeft:    "#2a9d8f",
		config.LeanRight:   "#e8333c",
		config.LeanNeutral: "#555",
	}
	dashThreatColors = map[analysis.ThreatLevel]string{
		analysis.ThreatHigh:   "#e8333c",
		analysis.ThreatMedium: "#f0a500",
		analysis.ThreatLow:    "#2a9d8f",
	}
	themeColors = map[analysis.Theme]string{
		analysis.ThemeCruelty:       "#7c1d1d",
		analysis.ThemeAffordability: "#1a3a5c",
	}
)

type MomentStyle struct {
	Color string
	Icon  string
}

var momentStyles = map[analysis.MomentType]MomentStyle{
	analysis.MomentQuote:       {Color: "#7c3aed", Icon: "💬"},
	analysis.MomentAttack:      {Color: "#e8333c", Icon: "🚨"},
	analysis.MomentOpportunity: {Color: "#2a9d8f", Icon: "💡"},
	analysis.MomentNarrative:   {Color: "#f0a500", Icon: "📣"},
	analysis.MomentSynopsis:    {Color: "#2c5f8a", Icon: "📋"},
}

func momentStyle(t analysis.MomentType) MomentStyle {
	if style, ok := momentStyles[t]; ok {
		return style
	}
	return MomentStyle{Color: "#888", Icon: "•"}
}
