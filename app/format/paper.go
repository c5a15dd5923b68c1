package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/ddanilenko/newsbrief/app/papers"
)

const maxListedAuthors = 5

// RenderPaper produces the paper-of-the-day Markdown document.
func RenderPaper(paper papers.Paper, categoryLabel, summary string, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Paper of the Day: %s\n## %s\n\n", date.Format("2006-01-02"), paper.Title)

	fmt.Fprintf(&b, "- **Authors**: %s\n", authorList(paper.Authors))
	if paper.Year > 0 {
		fmt.Fprintf(&b, "- **Year**: %d\n", paper.Year)
	}
	fmt.Fprintf(&b, "- **Citations**: %s\n", formatCount(paper.CitationCount))
	fmt.Fprintf(&b, "- **Field**: %s\n", categoryLabel)
	if paper.URL != "" {
		fmt.Fprintf(&b, "- **Link**: %s\n", paper.URL)
	}
	if paper.PDFURL != "" {
		fmt.Fprintf(&b, "- **PDF**: %s\n", paper.PDFURL)
	}

	b.WriteString("\n")
	b.WriteString(summary)
	b.WriteString("\n")

	return b.String()
}

// FallbackPaperSummary is the structured summary used when no API strategy
// is available or the call fails.
func FallbackPaperSummary(paper papers.Paper, categoryLabel string) string {
	abstract := paper.Abstract
	if abstract == "" {
		abstract = paper.Title
	}
	if runes := []rune(abstract); len(runes) > 300 {
		abstract = string(runes[:300]) + "..."
	}

	var b strings.Builder
	b.WriteString("### Background\n")
	b.WriteString(abstract)
	b.WriteString("\n\n### Approach\nSee the abstract for details.\n\n")
	fmt.Fprintf(&b, "### Impact\nA high-impact paper with %s citations", formatCount(paper.CitationCount))
	fmt.Fprintf(&b, " in the field of %s.\n", categoryLabel)
	return b.String()
}

func authorList(authors []string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	if len(authors) <= maxListedAuthors {
		return strings.Join(authors, ", ")
	}
	return fmt.Sprintf("%s and %d more",
		strings.Join(authors[:maxListedAuthors], ", "), len(authors)-maxListedAuthors)
}

// formatCount renders 25000 as "25,000".
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
