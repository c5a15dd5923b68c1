package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/summarizer"
)

// CollectTask fetches all feeds, drops items seen inside the dedup window,
// summarizes the fresh ones, and appends them to the digest buffer.
type CollectTask struct {
	Task
	producer   ItemProducer
	store      *dedup.Store
	pipeline   *summarizer.Pipeline
	bufferRepo database.BufferRepository
}

func NewCollectTask(producer ItemProducer, store *dedup.Store, pipeline *summarizer.Pipeline, bufferRepo database.BufferRepository) *CollectTask {
	return &CollectTask{
		Task:       NewTask(TaskTypeCollect),
		producer:   producer,
		store:      store,
		pipeline:   pipeline,
		bufferRepo: bufferRepo,
	}
}

func (t *CollectTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.store.Load(); err != nil {
		return fmt.Errorf("failed to load dedup store: %w", err)
	}

	items, stats := t.producer.Produce(ctx)

	// Fresh items are admitted, summarized and buffered one batch at a
	// time. An item is admitted before it is buffered, so a crash
	// mid-batch loses at most that batch from the digest but never lets
	// its items reappear as duplicates on the next run.
	batchSize := t.pipeline.BatchSize()
	var pending []feed.Item
	var pendingIDs []string
	duplicates := 0
	buffered := 0

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}

		inputs := make([]summarizer.Input, len(pending))
		for i, item := range pending {
			inputs[i] = summarizer.Input{
				Title:       item.Title,
				Description: item.Description,
				Source:      item.Source,
			}
		}
		summaries := t.pipeline.SummarizeAll(ctx, inputs)

		now := time.Now().UTC()
		for i, item := range pending {
			record := database.BufferedItem{
				Link:          item.Link,
				Identity:      pendingIDs[i],
				Title:         item.Title,
				Summary:       summaries[i],
				Source:        item.Source,
				Category:      item.Category,
				CategoryLabel: item.CategoryLabel,
				PublishedAt:   item.PublishedAt,
				BufferedAt:    now,
			}
			if err := t.bufferRepo.Append(record); err != nil {
				return fmt.Errorf("failed to buffer item: %w", err)
			}
		}

		buffered += len(pending)
		pending = pending[:0]
		pendingIDs = pendingIDs[:0]
		return nil
	}

	for _, item := range items {
		identity := dedup.NormalizeURL(item.Link)
		if t.store.IsDuplicate(identity, item.Title) {
			duplicates++
			continue
		}
		if err := t.store.Admit(identity, item.Title); err != nil {
			return fmt.Errorf("failed to admit item: %w", err)
		}
		pending = append(pending, item)
		pendingIDs = append(pendingIDs, identity)

		if len(pending) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	if failed := stats.FailedNames(); len(failed) > 0 {
		slog.Warn("Some feeds failed", "feeds", failed)
	}
	slog.Info("Task completed", "type", t.Type,
		"fetched", len(items), "duplicates", duplicates, "buffered", buffered,
		"duration", t.GetDuration())
	return nil
}
