package tasks

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/summarizer"
)

func newCollectFixture(seenRepo *fakeSeenRepo, bufferRepo *fakeBufferRepo, items []feed.Item) *CollectTask {
	store := dedup.NewStore(seenRepo, dedup.NewMatcher(0.9), dedup.ScopeArticles, 7*24*time.Hour)
	pipeline := summarizer.NewPipeline(&summarizer.Passthrough{}, nil, 5, 5)
	producer := &fakeProducer{items: items, stats: feed.FetchStats{"Example": len(items) > 0}}
	return NewCollectTask(producer, store, pipeline, bufferRepo)
}

func sampleFeedItems() []feed.Item {
	published := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	return []feed.Item{
		{
			Link: "https://example.com/m4?utm_source=rss", Title: "Apple announces M4 chip",
			Description: "Apple shipped a chip.", Source: "The Verge",
			Category: "tech", CategoryLabel: "Technology", PublishedAt: published,
		},
		{
			Link: "https://example.com/rust", Title: "Rust 1.85 released",
			Description: "New release.", Source: "Ars Technica",
			Category: "tech", CategoryLabel: "Technology", PublishedAt: published,
		},
	}
}

func TestCollectTaskBuffersFreshItems(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	bufferRepo := &fakeBufferRepo{}

	task := newCollectFixture(seenRepo, bufferRepo, sampleFeedItems())
	task.Start()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute collect task: %v", err)
	}

	if len(bufferRepo.items) != 2 {
		t.Fatalf("Expected 2 buffered items, got %d", len(bufferRepo.items))
	}

	first := bufferRepo.items[0]
	if first.Identity != "//example.com/m4" {
		t.Errorf("Expected normalized identity, got %q", first.Identity)
	}
	// Passthrough carries the description as the summary.
	if first.Summary != "Apple shipped a chip." {
		t.Errorf("Expected description as summary, got %q", first.Summary)
	}
	if first.BufferedAt.IsZero() {
		t.Error("Expected buffered timestamp set")
	}
}

func TestCollectTaskIdempotent(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	bufferRepo := &fakeBufferRepo{}

	// Same feed content collected twice, fresh task and store each run.
	for run := 0; run < 2; run++ {
		task := newCollectFixture(seenRepo, bufferRepo, sampleFeedItems())
		if err := task.Execute(context.Background()); err != nil {
			t.Fatalf("Failed to execute run %d: %v", run, err)
		}
	}

	if len(bufferRepo.items) != 2 {
		t.Errorf("Expected second run to buffer nothing, got %d items", len(bufferRepo.items))
	}
}

func TestCollectTaskURLVariantsCollapse(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	bufferRepo := &fakeBufferRepo{}

	items := sampleFeedItems()[:1]
	variant := items[0]
	variant.Link = "https://www.example.com/m4/"
	variant.Title = "A different headline entirely"
	items = append(items, variant)

	task := newCollectFixture(seenRepo, bufferRepo, items)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute collect task: %v", err)
	}

	if len(bufferRepo.items) != 1 {
		t.Errorf("Expected URL variants to dedup to 1 item, got %d", len(bufferRepo.items))
	}
}

func TestCollectTaskSimilarTitlesAcrossSources(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	bufferRepo := &fakeBufferRepo{}

	items := []feed.Item{
		{Link: "https://reuters.example.com/m4", Title: "Apple announces new M4 chip for MacBook Pro",
			Description: "d", Source: "Reuters", Category: "tech", CategoryLabel: "Technology"},
		{Link: "https://bloomberg.example.com/m4", Title: "Apple announces new M4 chip for MacBook Pro - Bloomberg",
			Description: "d", Source: "Bloomberg", Category: "tech", CategoryLabel: "Technology"},
	}

	task := newCollectFixture(seenRepo, bufferRepo, items)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute collect task: %v", err)
	}

	if len(bufferRepo.items) != 1 {
		t.Errorf("Expected similar titles to dedup to 1 item, got %d", len(bufferRepo.items))
	}
}

type taskEventLog struct {
	events []string
}

type batchRecordingStrategy struct {
	log *taskEventLog
}

func (s *batchRecordingStrategy) SummarizeBatch(_ context.Context, inputs []summarizer.Input) ([]string, error) {
	s.log.events = append(s.log.events, fmt.Sprintf("summarize:%d", len(inputs)))
	out := make([]string, len(inputs))
	for i, input := range inputs {
		out[i] = input.Description
	}
	return out, nil
}

func (s *batchRecordingStrategy) SelectTop(_ context.Context, _ []summarizer.Candidate, _ int) ([]int, error) {
	return nil, nil
}

func (s *batchRecordingStrategy) ComposeBriefing(_ context.Context, _ []summarizer.Selected) (string, error) {
	return "", nil
}

type recordingBufferRepo struct {
	fakeBufferRepo
	log *taskEventLog
}

func (r *recordingBufferRepo) Append(item database.BufferedItem) error {
	r.log.events = append(r.log.events, "append")
	return r.fakeBufferRepo.Append(item)
}

func TestCollectTaskAppendsPerBatch(t *testing.T) {
	log := &taskEventLog{}
	bufferRepo := &recordingBufferRepo{log: log}
	store := dedup.NewStore(newFakeSeenRepo(), dedup.NewMatcher(0.9), dedup.ScopeArticles, 7*24*time.Hour)
	pipeline := summarizer.NewPipeline(&batchRecordingStrategy{log: log}, nil, 2, 5)

	published := time.Date(2026, 2, 16, 12, 0, 0, 0, time.UTC)
	var items []feed.Item
	for i, title := range []string{
		"Apple announces M4 chip",
		"Rust 1.85 released",
		"Kubernetes 1.33 ships",
		"Postgres adds async reads",
		"Curl turns thirty",
	} {
		items = append(items, feed.Item{
			Link: fmt.Sprintf("https://example.com/story-%d", i), Title: title,
			Description: "d", Source: "Example",
			Category: "tech", CategoryLabel: "Technology", PublishedAt: published,
		})
	}

	producer := &fakeProducer{items: items, stats: feed.FetchStats{"Example": true}}
	task := NewCollectTask(producer, store, pipeline, bufferRepo)
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute collect task: %v", err)
	}

	// Each batch is buffered before the next one is summarized, so a crash
	// mid-run loses at most one batch.
	expected := []string{
		"summarize:2", "append", "append",
		"summarize:2", "append", "append",
		"summarize:1", "append",
	}
	if got := strings.Join(log.events, " "); got != strings.Join(expected, " ") {
		t.Errorf("Expected per-batch ordering %v, got %v", expected, log.events)
	}
	if len(bufferRepo.items) != 5 {
		t.Errorf("Expected 5 buffered items, got %d", len(bufferRepo.items))
	}
}

func TestCollectTaskCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	task := newCollectFixture(newFakeSeenRepo(), &fakeBufferRepo{}, nil)
	if err := task.Execute(ctx); err == nil {
		t.Error("Expected error on cancelled context")
	}
}
