package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lysyi3m/podcast-intel/app/config"
)

func renderPodcastTable(roster *config.Roster, colorize bool) string {
	tw := table.NewWriter()
	if colorize {
		tw.SetStyle(table.StyleColoredBright)
	} else {
		tw.SetStyle(table.StyleRounded)
	}

	tw.AppendHeader(table.Row{"Lean", "Podcast", "Host", "RSS", "Transcripts"})
	for _, lean := range config.Leans {
		for _, p := range roster.ByLean(lean) {
			tw.AppendRow(table.Row{lean, p.Name, p.Host, mark(p.RSS != ""), transcriptSource(p)})
		}
		tw.AppendSeparator()
	}

	tw.AppendFooter(table.Row{"", "", "", "Total", roster.Count()})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 4, Align: text.AlignCenter},
	})

	return tw.Render()
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func transcriptSource(p *config.Podcast) string {
	switch {
	case p.TranscriptURL != "" && p.YouTubeChannelID != "":
		return "page, youtube"
	case p.TranscriptURL != "":
		return "page"
	case p.YouTubeChannelID != "":
		return "youtube"
	}
	return ""
}
