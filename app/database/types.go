package database

import (
	"time"
)

// SeenRecord marks one item identity as seen within a dedup window.
type SeenRecord struct {
	Identity    string // normalized URL for articles, paper ID for papers
	Title       string
	FirstSeenAt time.Time
}

// BufferedItem is an admitted, summarized item awaiting a digest run.
type BufferedItem struct {
	ID            int64
	Link          string
	Identity      string
	Title         string
	Summary       string
	Source        string
	Category      string
	CategoryLabel string
	PublishedAt   time.Time
	BufferedAt    time.Time
}

// Digest is a published digest record backing the serve API.
type Digest struct {
	ID          int64
	GeneratedAt time.Time
	ItemCount   int
	Briefing    string
	Markdown    string
	PRURL       string
}
