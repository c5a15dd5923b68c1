package summarizer

import (
	"regexp"
	"strings"
)

// Filler openings models produce despite instructions.
var fillerPrefixes = []string{
	"here's a summary",
	"here is a summary",
	"here's your briefing",
	"here is your briefing",
	"here's the briefing",
	"here is the briefing",
	"in today's news",
	"sure,",
	"certainly",
	"below is",
	"i hope this",
	"let me know",
}

var doubleSpaceRe = regexp.MustCompile(`  +`)

// PostProcessBriefing cleans a composed briefing: filler lines are removed,
// sections whose body cites no source link are dropped (the closing watch
// section is exempt since it lists future developments), and repeated
// spaces collapse.
func PostProcessBriefing(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if isFillerLine(line) {
			continue
		}
		kept = append(kept, doubleSpaceRe.ReplaceAllString(line, " "))
	}

	sections := splitSections(kept)
	var out []string
	for _, section := range sections {
		if !sectionHasLink(section) && !isWatchSection(section) {
			continue
		}
		out = append(out, section...)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isFillerLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// splitSections groups lines by `## ` headings. Lines before the first
// heading form their own group and are kept only if they cite a link.
func splitSections(lines []string) [][]string {
	var sections [][]string
	var current []string
	for _, line := range lines {
		if strings.HasPrefix(line, "## ") && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func sectionHasLink(section []string) bool {
	for _, line := range section {
		if strings.Contains(line, "](http") {
			return true
		}
	}
	return false
}

func isWatchSection(section []string) bool {
	return len(section) > 0 &&
		strings.HasPrefix(section[0], "## ") &&
		strings.Contains(strings.ToLower(section[0]), "watch")
}
