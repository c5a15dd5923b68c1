package dedup

import (
	"testing"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
)

type fakeSeenRepo struct {
	records map[string][]database.SeenRecord
	inserts int
}

func newFakeSeenRepo() *fakeSeenRepo {
	return &fakeSeenRepo{records: make(map[string][]database.SeenRecord)}
}

func (f *fakeSeenRepo) GetLiveRecords(scope string, cutoff time.Time) ([]database.SeenRecord, error) {
	var live []database.SeenRecord
	for _, rec := range f.records[scope] {
		if !rec.FirstSeenAt.Before(cutoff) {
			live = append(live, rec)
		}
	}
	return live, nil
}

func (f *fakeSeenRepo) Insert(scope string, rec database.SeenRecord) error {
	for _, existing := range f.records[scope] {
		if existing.Identity == rec.Identity {
			return nil
		}
	}
	f.records[scope] = append(f.records[scope], rec)
	f.inserts++
	return nil
}

func (f *fakeSeenRepo) DeleteExpired(scope string, cutoff time.Time) (int64, error) {
	var kept []database.SeenRecord
	var deleted int64
	for _, rec := range f.records[scope] {
		if rec.FirstSeenAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	f.records[scope] = kept
	return deleted, nil
}

func (f *fakeSeenRepo) CountLive(scope string, cutoff time.Time) (int, error) {
	live, _ := f.GetLiveRecords(scope, cutoff)
	return len(live), nil
}

func TestStoreAdmitThenDuplicate(t *testing.T) {
	repo := newFakeSeenRepo()
	store := NewStore(repo, NewMatcher(0.9), ScopeArticles, 7*24*time.Hour)

	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}

	identity := NormalizeURL("https://example.com/article?utm_source=rss")
	title := "Apple announces new M4 chip"

	if store.IsDuplicate(identity, title) {
		t.Error("Expected fresh item not to be a duplicate")
	}
	if err := store.Admit(identity, title); err != nil {
		t.Fatalf("Failed to admit item: %v", err)
	}
	if !store.IsDuplicate(identity, title) {
		t.Error("Expected admitted item to be a duplicate")
	}
	if store.Size() != 1 {
		t.Errorf("Expected 1 live record, got %d", store.Size())
	}

	// The same article behind a different tracking URL collapses to the
	// same identity.
	other := NormalizeURL("https://www.example.com/article/")
	if !store.IsDuplicate(other, "Completely different headline") {
		t.Error("Expected URL variant to hit the identity check")
	}
}

func TestStoreSimilarityGate(t *testing.T) {
	repo := newFakeSeenRepo()
	store := NewStore(repo, NewMatcher(0.9), ScopeArticles, 7*24*time.Hour)

	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	if err := store.Admit("//reuters.com/apple-m4", "Apple announces new M4 chip for MacBook Pro"); err != nil {
		t.Fatalf("Failed to admit item: %v", err)
	}

	// Different URL, near-identical title.
	if !store.IsDuplicate("//bloomberg.com/apple-m4", "Apple announces new M4 chip for MacBook Pro - Bloomberg") {
		t.Error("Expected similar title from another source to be flagged")
	}

	// Different URL, different story.
	if store.IsDuplicate("//bloomberg.com/apple-eu", "Apple faces antitrust lawsuit in European Union") {
		t.Error("Expected unrelated story to pass through")
	}
}

func TestStoreNilMatcherIsIdentityOnly(t *testing.T) {
	repo := newFakeSeenRepo()
	store := NewStore(repo, nil, ScopePapers, 90*24*time.Hour)

	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	if err := store.Admit("arXiv:2401.00001", "Attention Is All You Need"); err != nil {
		t.Fatalf("Failed to admit paper: %v", err)
	}

	if !store.IsDuplicate("arXiv:2401.00001", "Different title entirely") {
		t.Error("Expected identity match regardless of title")
	}
	if store.IsDuplicate("arXiv:2401.00002", "Attention Is All You Need") {
		t.Error("Expected identical title with a new ID to pass without a matcher")
	}
}

func TestStoreLoadPrunesExpired(t *testing.T) {
	repo := newFakeSeenRepo()
	now := time.Now().UTC()
	repo.records[ScopeArticles] = []database.SeenRecord{
		{Identity: "//example.com/stale", Title: "Stale", FirstSeenAt: now.Add(-8 * 24 * time.Hour)},
		{Identity: "//example.com/live", Title: "Live", FirstSeenAt: now.Add(-6 * 24 * time.Hour)},
	}

	store := NewStore(repo, NewMatcher(0.9), ScopeArticles, 7*24*time.Hour)
	if err := store.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}

	if store.Size() != 1 {
		t.Fatalf("Expected 1 live record after prune, got %d", store.Size())
	}
	if store.IsDuplicate("//example.com/stale", "Stale") {
		t.Error("Expected expired record to be forgotten")
	}
	if !store.IsDuplicate("//example.com/live", "Live") {
		t.Error("Expected live record to be retained")
	}
}

func TestStoreAdmitRequiresLoad(t *testing.T) {
	store := NewStore(newFakeSeenRepo(), NewMatcher(0.9), ScopeArticles, 7*24*time.Hour)
	if err := store.Admit("//example.com/a", "A"); err == nil {
		t.Error("Expected admit on unloaded store to fail")
	}
}
