package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/feed"
)

// RenderDigest produces the Markdown digest document: the briefing first,
// then every buffered item grouped by category in buffer order, then a
// footer with counts and failed feeds.
func RenderDigest(items []database.BufferedItem, briefing string, date time.Time, stats feed.FetchStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily News Digest\n## %s\n\n", date.Format("2006-01-02"))

	if len(items) == 0 {
		b.WriteString("No new items today.\n")
		return b.String()
	}

	if briefing != "" {
		b.WriteString("## Briefing\n\n")
		b.WriteString(briefing)
		b.WriteString("\n\n")
	}

	// Categories appear in buffer order.
	var categories []string
	byCategory := make(map[string][]database.BufferedItem)
	labels := make(map[string]string)
	for _, item := range items {
		if _, ok := byCategory[item.Category]; !ok {
			categories = append(categories, item.Category)
			labels[item.Category] = item.CategoryLabel
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range categories {
		fmt.Fprintf(&b, "## %s\n\n", labels[category])
		for i, item := range byCategory[category] {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, item.Title)
			fmt.Fprintf(&b, "- **Source**: %s\n", item.Source)
			fmt.Fprintf(&b, "- **Published**: %s\n", item.PublishedAt.UTC().Format("2006-01-02 15:04 UTC"))
			fmt.Fprintf(&b, "- **Link**: %s\n", item.Link)
			if item.Summary != "" {
				fmt.Fprintf(&b, "- **Summary**: %s\n", item.Summary)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*%d items across %d categories*\n", len(items), len(categories))

	if len(stats) > 0 {
		failed := stats.FailedNames()
		fmt.Fprintf(&b, "*Feeds: %d ok, %d failed*\n", stats.OKCount(), len(failed))
		if len(failed) > 0 {
			sort.Strings(failed)
			fmt.Fprintf(&b, "*Failed feeds: %s*\n", strings.Join(failed, ", "))
		}
	}

	return b.String()
}

// BuildPRBody builds the pull request description for a digest.
func BuildPRBody(date time.Time, itemCount int, stats feed.FetchStats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Daily News Digest - %s\n\n", date.Format("2006-01-02"))
	fmt.Fprintf(&b, "- **Items**: %d\n", itemCount)

	if len(stats) > 0 {
		failed := stats.FailedNames()
		fmt.Fprintf(&b, "- **Feeds**: %d ok, %d failed\n", stats.OKCount(), len(failed))
		if len(failed) > 0 {
			sort.Strings(failed)
			b.WriteString("\n### Failed feeds\n")
			for _, name := range failed {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
	}

	return b.String()
}
