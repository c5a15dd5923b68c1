package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/format"
	"github.com/ddanilenko/newsbrief/app/papers"
	"github.com/ddanilenko/newsbrief/app/publish"
	"github.com/ddanilenko/newsbrief/app/summarizer"
)

// PaperTask publishes a paper-of-the-day: the day's category rotates
// through the configured list, and the most-cited paper not seen in the
// last 90 days wins. The paper is marked seen only after publication
// succeeds.
type PaperTask struct {
	Task
	categories []feed.PaperCategory
	searcher   PaperSearcher
	store      *dedup.Store
	strategy   summarizer.Strategy
	publisher  publish.Publisher
}

func NewPaperTask(categories []feed.PaperCategory, searcher PaperSearcher, store *dedup.Store, strategy summarizer.Strategy, publisher publish.Publisher) *PaperTask {
	return &PaperTask{
		Task:       NewTask(TaskTypePaper),
		categories: categories,
		searcher:   searcher,
		store:      store,
		strategy:   strategy,
		publisher:  publisher,
	}
}

func (t *PaperTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.categories) == 0 {
		return fmt.Errorf("no paper categories configured")
	}

	now := time.Now().UTC()
	category := t.categories[now.YearDay()%len(t.categories)]
	slog.Info("Paper category for today", "category", category.Name)

	if err := t.store.Load(); err != nil {
		return fmt.Errorf("failed to load dedup store: %w", err)
	}

	results, err := t.searcher.Search(ctx, category.Query)
	if err != nil {
		return fmt.Errorf("failed to search papers: %w", err)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].CitationCount > results[b].CitationCount
	})

	var pick *papers.Paper
	for i := range results {
		if !t.store.IsDuplicate(results[i].ID, results[i].Title) {
			pick = &results[i]
			break
		}
	}
	if pick == nil {
		slog.Info("No unseen papers for category", "category", category.Name, "results", len(results))
		return nil
	}

	summary := t.summarize(ctx, *pick, category.Label)

	date := now.Format("2006-01-02")
	markdown := format.RenderPaper(*pick, category.Label, summary, now)

	doc := publish.Document{
		Date:          now,
		Branch:        "paper/" + date,
		Path:          "papers/" + date + ".md",
		Markdown:      markdown,
		CommitMessage: "Add paper of the day for " + date,
		PRTitle:       "Paper of the day: " + date,
		PRBody:        markdown,
	}

	if _, err := t.publisher.Publish(ctx, doc); err != nil {
		return fmt.Errorf("failed to publish paper: %w", err)
	}

	if err := t.store.Admit(pick.ID, pick.Title); err != nil {
		return fmt.Errorf("failed to mark paper seen: %w", err)
	}

	slog.Info("Task completed", "type", t.Type,
		"paper", pick.Title, "citations", pick.CitationCount,
		"duration", t.GetDuration())
	return nil
}

func (t *PaperTask) summarize(ctx context.Context, paper papers.Paper, categoryLabel string) string {
	input := summarizer.Input{
		Title:       paper.Title,
		Description: paper.Abstract,
		Source:      categoryLabel,
	}
	summaries, err := t.strategy.SummarizeBatch(ctx, []summarizer.Input{input})
	if err != nil || len(summaries) != 1 || summaries[0] == "" {
		slog.Warn("Paper summarization failed, using fallback", "paper", paper.Title, "error", err)
		return format.FallbackPaperSummary(paper, categoryLabel)
	}
	return summaries[0]
}
