package summarizer

import (
	"fmt"
	"strings"
)

func batchPrompt(inputs []Input) string {
	var b strings.Builder
	b.WriteString("Summarize each of the following items in 2-3 factual sentences. ")
	b.WriteString("Keep concrete numbers, names, and versions. Do not editorialize.\n\n")
	for i, input := range inputs {
		fmt.Fprintf(&b, "%d. %s (%s)\n%s\n\n", i+1, input.Title, input.Source, input.Description)
	}
	b.WriteString("Respond with a numbered list, one entry per item, in the same order. ")
	b.WriteString("No preamble, no closing remarks.")
	return b.String()
}

func selectionPrompt(candidates []Candidate, k int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From the items below, pick the %d most significant for a daily news briefing. ", k)
	b.WriteString("Prefer items with broad impact over incremental updates.\n\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s)\n%s\n\n", i+1, c.Title, c.Source, c.Summary)
	}
	fmt.Fprintf(&b, "Respond with only a JSON array of the %d chosen item numbers, most significant first. Example: [3, 1, 7]", k)
	return b.String()
}

func briefingPrompt(selected []Selected) string {
	var b strings.Builder
	b.WriteString("Write a daily news briefing in Markdown from the stories below. ")
	b.WriteString("Group related stories under `## ` section headings. Within each section, ")
	b.WriteString("explain what happened and why it matters, citing each story as a ")
	b.WriteString("Markdown link to its source URL. Close with a short `## Watch` section ")
	b.WriteString("listing developments to follow.\n\n")
	for i, s := range selected {
		fmt.Fprintf(&b, "Story %d: %s\nSource: %s\nURL: %s\n%s\n\n", i+1, s.Title, s.Source, s.Link, s.Content)
	}
	b.WriteString("Start directly with the first section heading. No introduction, no sign-off.")
	return b.String()
}
