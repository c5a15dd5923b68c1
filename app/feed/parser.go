package feed

import (
	"bytes"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const maxDescriptionRunes = 500

var tagRe = regexp.MustCompile(`<[^>]+>`)
var spaceRe = regexp.MustCompile(`\s+`)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw feed data into normalized items. Entries missing a title
// or link are skipped and logged, never fatal.
func (p *Parser) Run(data []byte, ref FeedRef, maxAge time.Duration) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	now := time.Now().UTC()
	items := make([]Item, 0, len(parsed.Items))

	for _, entry := range parsed.Items {
		if len(items) >= ref.MaxItems {
			break
		}
		if entry == nil {
			continue
		}

		title := StripHTML(entry.Title)
		if title == "" || entry.Link == "" {
			slog.Warn("Skipping malformed feed entry", "feed", ref.Name, "title", entry.Title, "link", entry.Link)
			continue
		}

		published := entryDate(entry, now)
		if maxAge > 0 && now.Sub(published) > maxAge {
			continue
		}

		items = append(items, Item{
			Link:          entry.Link,
			Title:         title,
			Description:   truncate(StripHTML(entry.Description), maxDescriptionRunes),
			Content:       entry.Content,
			PublishedAt:   published,
			Source:        ref.Name,
			Category:      ref.Category,
			CategoryLabel: ref.CategoryLabel,
		})
	}

	return items, nil
}

func entryDate(entry *gofeed.Item, fallback time.Time) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return fallback
}

// StripHTML removes tags, decodes entities and collapses whitespace.
func StripHTML(text string) string {
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
