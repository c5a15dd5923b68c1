package tasks

import (
	"context"

	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/papers"
)

// ItemProducer yields fetched feed items plus per-feed success stats.
type ItemProducer interface {
	Produce(ctx context.Context) ([]feed.Item, feed.FetchStats)
}

// PaperSearcher finds candidate papers for a category query.
type PaperSearcher interface {
	Search(ctx context.Context, query string) ([]papers.Paper, error)
}
