package feed

import (
	"time"
)

// Item is a normalized entry produced by a feed source.
type Item struct {
	Link          string
	Title         string
	Description   string
	Content       string
	Summary       string
	PublishedAt   time.Time
	Source        string
	Category      string
	CategoryLabel string
}

// SourceFeed is a single feed entry from the sources file.
type SourceFeed struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	MaxItems int    `yaml:"max_items"`
}

// Category groups feeds under one digest section.
type Category struct {
	Name  string       `yaml:"name"`
	Label string       `yaml:"label"`
	Feeds []SourceFeed `yaml:"feeds"`
}

// PaperCategory drives the rotating paper-of-the-day selection.
type PaperCategory struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Query string `yaml:"query"`
}

type SourcesSettings struct {
	MaxItemsPerFeed int `yaml:"max_items_per_feed"`
	MaxAgeHours     int `yaml:"max_age_hours"`
}

// SourcesConfig is the parsed sources file.
type SourcesConfig struct {
	Settings        SourcesSettings `yaml:"settings"`
	Categories      []Category      `yaml:"categories"`
	PaperCategories []PaperCategory `yaml:"paper_categories"`
}

// FeedRef is a flattened feed reference with its category attached.
type FeedRef struct {
	Name          string
	URL           string
	MaxItems      int
	Category      string
	CategoryLabel string
}

// FetchStats maps feed names to whether the download and parse succeeded.
// A healthy feed with no fresh items still counts as ok.
type FetchStats map[string]bool

func (s FetchStats) OKCount() int {
	count := 0
	for _, ok := range s {
		if ok {
			count++
		}
	}
	return count
}

func (s FetchStats) FailedNames() []string {
	var names []string
	for name, ok := range s {
		if !ok {
			names = append(names, name)
		}
	}
	return names
}
