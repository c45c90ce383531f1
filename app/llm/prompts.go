package llm

import (
	"strings"
	"text/template"
)

// Header lines the digest summary must use, one per lane.
const (
	HeaderRight   = "RIGHT-WING TODAY"
	HeaderNeutral = "CENTER/NEUTRAL TODAY"
	HeaderLeft    = "LEFT/PROGRESSIVE TODAY"

	NoEpisodesBullet = "No new episodes tracked today."
)

var analysisPrompt = template.Must(template.New("analysis").Parse(`You are a senior political analyst.
Analyze this podcast episode and produce a structured intelligence report.

Podcast: {{.PodcastName}}
Lean: {{.Lean}}
Host(s): {{.Host}}
Episode Title: {{.Title}}
Published: {{.Published}}

Description/Summary/Transcript:
{{.Content}}

Return a single JSON object with exactly these keys and nothing else:
{
  "synopsis": "2-3 plain-English sentences on what the episode covers and argues, written for a busy political staffer. Name the podcast and the host.",
  "key_topics": ["topic1", "topic2", "topic3"],
  "notable_quotes": [
    {
      "quote": "Exact or near-exact words, or a clearly attributed paraphrase",
      "speaker": "Name or role of the speaker",
      "context": "One sentence on why it matters politically",
      "type": "attack|claim|admission|notable_position|cross_partisan_signal"
    }
  ],
  "political_attacks": ["Specific attacks on Democrats, progressives or named figures, in the speaker's own framing"],
  "narrative_themes": ["Overarching frames being pushed, e.g. government waste, parental rights, elite capture"],
  "messaging_opportunities": ["Openings a progressive campaign could use in response, if any"],
  "threat_level": "low|medium|high",
  "threat_rationale": "One sentence on the threat level for progressive causes"
}

Pick 1-3 notable quotes a rapid response team would clip. When only a description is available, reconstruct the implied position as an attributed paraphrase.

Be specific, name names and keep the exact framing.`))

var digestPrompt = template.Must(template.New("digest").Parse(`You are a senior political intelligence analyst.

Today is {{.Date}}. Below are summaries of every podcast episode released today across right-wing, center/neutral and left/progressive shows.

EPISODE DATA:
{{.Episodes}}

Write three sections with exactly 3 bullets each. Every bullet is one crisp, specific sentence naming the most important thing happening in that lane today, the kind of thing a comms director needs in 90 seconds.

Use exactly this format with nothing before or after:

` + HeaderRight + `
• [bullet 1]
• [bullet 2]
• [bullet 3]

` + HeaderNeutral + `
• [bullet 1]
• [bullet 2]
• [bullet 3]

` + HeaderLeft + `
• [bullet 1]
• [bullet 2]
• [bullet 3]

Rules:
- One specific claim, frame or trend per bullet. No vague summaries.
- Name shows or hosts when it adds weight.
- If a lane had no episodes today, write "• ` + NoEpisodesBullet + `" for all three bullets in that section.
- Add nothing outside the format above.`))

func render(tmpl *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
