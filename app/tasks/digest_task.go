package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/format"
	"github.com/ddanilenko/newsbrief/app/publish"
	"github.com/ddanilenko/newsbrief/app/summarizer"
)

// DigestTask turns the buffered items into a published digest. The buffer
// is cleared only after the digest is published and recorded; any failure
// leaves it intact for the next run.
type DigestTask struct {
	Task
	bufferRepo database.BufferRepository
	digestRepo database.DigestRepository
	pipeline   *summarizer.Pipeline
	publisher  publish.Publisher
}

func NewDigestTask(bufferRepo database.BufferRepository, digestRepo database.DigestRepository, pipeline *summarizer.Pipeline, publisher publish.Publisher) *DigestTask {
	return &DigestTask{
		Task:       NewTask(TaskTypeDigest),
		bufferRepo: bufferRepo,
		digestRepo: digestRepo,
		pipeline:   pipeline,
		publisher:  publisher,
	}
}

func (t *DigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.bufferRepo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to read buffer: %w", err)
	}
	if len(items) == 0 {
		slog.Info("Buffer empty, skipping digest")
		return nil
	}

	candidates := make([]summarizer.Candidate, len(items))
	for i, item := range items {
		candidates[i] = summarizer.Candidate{
			Title:       item.Title,
			Summary:     item.Summary,
			Link:        item.Link,
			Source:      item.Source,
			Category:    item.Category,
			PublishedAt: item.PublishedAt,
		}
	}
	result := t.pipeline.BuildDigest(ctx, candidates)

	now := time.Now().UTC()
	date := now.Format("2006-01-02")
	markdown := format.RenderDigest(items, result.Briefing, now, nil)

	doc := publish.Document{
		Date:          now,
		Branch:        "digest/" + date,
		Path:          "digests/" + date + ".md",
		Markdown:      markdown,
		CommitMessage: "Add daily digest for " + date,
		PRTitle:       "Daily digest: " + date,
		PRBody:        format.BuildPRBody(now, len(items), nil),
	}

	url, err := t.publisher.Publish(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to publish digest: %w", err)
	}

	digest := database.Digest{
		GeneratedAt: now,
		ItemCount:   len(items),
		Briefing:    result.Briefing,
		Markdown:    markdown,
		PRURL:       url,
	}
	if _, err := t.digestRepo.Insert(digest); err != nil {
		return fmt.Errorf("failed to record digest: %w", err)
	}

	if err := t.bufferRepo.Clear(); err != nil {
		return fmt.Errorf("failed to clear buffer: %w", err)
	}

	slog.Info("Task completed", "type", t.Type,
		"items", len(items), "selected", len(result.Selected), "pr", url,
		"duration", t.GetDuration())
	return nil
}
