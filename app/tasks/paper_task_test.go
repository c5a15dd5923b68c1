package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/dedup"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/papers"
	"github.com/ddanilenko/newsbrief/app/summarizer"
)

var paperCategories = []feed.PaperCategory{
	{Name: "distributed_systems", Label: "Distributed Systems", Query: "distributed systems"},
	{Name: "databases", Label: "Databases", Query: "database systems"},
}

func samplePapers() []papers.Paper {
	return []papers.Paper{
		{ID: "mid", Title: "A mildly cited paper", Abstract: "a", CitationCount: 500},
		{ID: "top", Title: "The most cited paper", Abstract: "b", CitationCount: 25000},
		{ID: "low", Title: "A barely cited paper", Abstract: "c", CitationCount: 3},
	}
}

func newPaperFixture(seenRepo *fakeSeenRepo, searcher *fakeSearcher, publisher *fakePublisher) *PaperTask {
	store := dedup.NewStore(seenRepo, nil, dedup.ScopePapers, 90*24*time.Hour)
	return NewPaperTask(paperCategories, searcher, store, &summarizer.Passthrough{}, publisher)
}

func TestPaperTaskPicksMostCitedUnseen(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	seenRepo.Insert(dedup.ScopePapers, seenRecord("top"))

	searcher := &fakeSearcher{papers: samplePapers()}
	publisher := &fakePublisher{}

	task := newPaperFixture(seenRepo, searcher, publisher)
	task.Start()
	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Failed to execute paper task: %v", err)
	}

	if searcher.query == "" {
		t.Error("Expected search query passed to client")
	}
	if len(publisher.docs) != 1 {
		t.Fatalf("Expected 1 published document, got %d", len(publisher.docs))
	}

	doc := publisher.docs[0]
	// "top" was already seen, so the next most cited wins.
	if !strings.Contains(doc.Markdown, "A mildly cited paper") {
		t.Errorf("Expected most cited unseen paper, got %q", doc.Markdown)
	}
	if !strings.HasPrefix(doc.Branch, "paper/") {
		t.Errorf("Expected paper branch, got %q", doc.Branch)
	}

	// Published paper is now inside the 90-day window.
	live, _ := seenRepo.GetLiveRecords(dedup.ScopePapers, time.Now().UTC().AddDate(0, 0, -90))
	if len(live) != 2 {
		t.Errorf("Expected published paper marked seen, got %d records", len(live))
	}
}

func TestPaperTaskPublishFailureKeepsUnseen(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	searcher := &fakeSearcher{papers: samplePapers()}
	publisher := &fakePublisher{err: errStub}

	task := newPaperFixture(seenRepo, searcher, publisher)
	if err := task.Execute(context.Background()); err == nil {
		t.Fatal("Expected error when publishing fails")
	}

	live, _ := seenRepo.GetLiveRecords(dedup.ScopePapers, time.Now().UTC().AddDate(0, 0, -90))
	if len(live) != 0 {
		t.Errorf("Expected no paper marked seen after publish failure, got %d", len(live))
	}
}

func TestPaperTaskAllSeen(t *testing.T) {
	seenRepo := newFakeSeenRepo()
	for _, p := range samplePapers() {
		seenRepo.Insert(dedup.ScopePapers, seenRecord(p.ID))
	}

	publisher := &fakePublisher{}
	task := newPaperFixture(seenRepo, &fakeSearcher{papers: samplePapers()}, publisher)

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Expected all-seen day to be a no-op, got error: %v", err)
	}
	if len(publisher.docs) != 0 {
		t.Errorf("Expected nothing published, got %d docs", len(publisher.docs))
	}
}

func TestPaperTaskSearchFailure(t *testing.T) {
	task := newPaperFixture(newFakeSeenRepo(), &fakeSearcher{err: errStub}, &fakePublisher{})

	if err := task.Execute(context.Background()); err == nil {
		t.Error("Expected error when search fails")
	}
}

func seenRecord(id string) database.SeenRecord {
	return database.SeenRecord{
		Identity:    id,
		Title:       id,
		FirstSeenAt: time.Now().UTC(),
	}
}
