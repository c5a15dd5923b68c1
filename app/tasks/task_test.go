package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/ddanilenko/newsbrief/app/database"
	"github.com/ddanilenko/newsbrief/app/feed"
	"github.com/ddanilenko/newsbrief/app/papers"
	"github.com/ddanilenko/newsbrief/app/publish"
)

// In-memory fakes shared by the task tests.

type fakeSeenRepo struct {
	records map[string][]database.SeenRecord
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

type fakeBufferRepo struct {
	items  []database.BufferedItem
	nextID int64
}

func (f *fakeBufferRepo) Append(item database.BufferedItem) error {
	f.nextID++
	item.ID = f.nextID
	f.items = append(f.items, item)
	return nil
}

func (f *fakeBufferRepo) GetAll() ([]database.BufferedItem, error) {
	out := make([]database.BufferedItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeBufferRepo) Clear() error {
	f.items = nil
	return nil
}

func (f *fakeBufferRepo) Count() (int, error) {
	return len(f.items), nil
}

type fakeDigestRepo struct {
	digests []database.Digest
}

func (f *fakeDigestRepo) Insert(digest database.Digest) (int64, error) {
	digest.ID = int64(len(f.digests) + 1)
	f.digests = append(f.digests, digest)
	return digest.ID, nil
}

func (f *fakeDigestRepo) GetLatest() (*database.Digest, error) {
	if len(f.digests) == 0 {
		return nil, nil
	}
	latest := f.digests[len(f.digests)-1]
	return &latest, nil
}

func (f *fakeDigestRepo) Count() (int, error) {
	return len(f.digests), nil
}

type fakeProducer struct {
	items []feed.Item
	stats feed.FetchStats
}

func (f *fakeProducer) Produce(_ context.Context) ([]feed.Item, feed.FetchStats) {
	return f.items, f.stats
}

type fakePublisher struct {
	err  error
	docs []publish.Document
}

func (f *fakePublisher) Publish(_ context.Context, doc publish.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.docs = append(f.docs, doc)
	return "https://github.com/example/news/pull/1", nil
}

type fakeSearcher struct {
	papers []papers.Paper
	err    error
	query  string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]papers.Paper, error) {
	f.query = query
	if f.err != nil {
		return nil, f.err
	}
	return f.papers, nil
}

var errStub = errors.New("stub failure")
