package dedup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
)

// Scopes partition seen records by item kind, each with its own window.
const (
	ScopeArticles = "articles"
	ScopePapers   = "papers"
)

// Store is a time-windowed record of previously seen item identities,
// scoped to a single pipeline phase invocation. Load prunes expired
// records and reads the live window into memory; Admit writes through to
// the repository so every admission is durable immediately.
type Store struct {
	repo    database.SeenRepository
	matcher *Matcher
	scope   string
	window  time.Duration
	records []database.SeenRecord
	loaded  bool
}

// NewStore creates a store for one scope. A nil matcher disables the
// title-similarity gate, leaving identity-only deduplication (used for
// papers, where IDs are exact).
func NewStore(repo database.SeenRepository, matcher *Matcher, scope string, window time.Duration) *Store {
	return &Store{
		repo:    repo,
		matcher: matcher,
		scope:   scope,
		window:  window,
	}
}

// Load prunes expired records and reads the live window.
func (s *Store) Load() error {
	now := time.Now().UTC()
	cutoff := now.Add(-s.window)

	pruned, err := s.repo.DeleteExpired(s.scope, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune seen records: %w", err)
	}
	if pruned > 0 {
		slog.Info("Pruned expired seen records", "scope", s.scope, "count", pruned)
	}

	records, err := s.repo.GetLiveRecords(s.scope, cutoff)
	if err != nil {
		return fmt.Errorf("failed to load seen records: %w", err)
	}

	s.records = records
	s.loaded = true

	slog.Debug("Dedup store loaded", "scope", s.scope, "live_records", len(records))
	return nil
}

// IsDuplicate reports whether the identity matches a live record, or the
// title is similar enough to a live record's title. Side-effect free.
func (s *Store) IsDuplicate(identity, title string) bool {
	for _, rec := range s.records {
		if rec.Identity == identity {
			return true
		}
	}

	if s.matcher == nil {
		return false
	}

	for _, rec := range s.records {
		if s.matcher.Match(title, rec.Title) {
			return true
		}
	}
	return false
}

// Admit records the identity as seen. The caller is responsible for
// checking IsDuplicate first; Admit does not re-check.
func (s *Store) Admit(identity, title string) error {
	if !s.loaded {
		return fmt.Errorf("dedup store not loaded")
	}

	rec := database.SeenRecord{
		Identity:    identity,
		Title:       title,
		FirstSeenAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(s.scope, rec); err != nil {
		return fmt.Errorf("failed to record seen item: %w", err)
	}

	s.records = append(s.records, rec)
	return nil
}

// Size returns the number of live records.
func (s *Store) Size() int {
	return len(s.records)
}
