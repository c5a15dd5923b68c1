package summarizer

import (
	"time"
)

// Input is one item to summarize.
type Input struct {
	Title       string
	Description string
	Source      string
}

// Candidate is a buffered item offered to briefing selection.
type Candidate struct {
	Title       string
	Summary     string
	Link        string
	Source      string
	Category    string
	PublishedAt time.Time
}

// Selected is a chosen candidate, enriched with full article text when it
// could be fetched.
type Selected struct {
	Candidate
	Content string
}

// DigestResult is the outcome of the briefing protocol.
type DigestResult struct {
	Selected []Selected
	Briefing string
}
