package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Fetcher downloads and parses all configured feeds using a bounded worker
// pool. Per-feed failures degrade to an empty result, never abort the run.
type Fetcher struct {
	refs        []FeedRef
	httpClient  *http.Client
	parser      *Parser
	userAgent   string
	workerCount int
	timeout     time.Duration
	maxAge      time.Duration
}

func NewFetcher(refs []FeedRef, httpClient *http.Client, parser *Parser, userAgent string, workerCount int, timeout, maxAge time.Duration) *Fetcher {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Fetcher{
		refs:        refs,
		httpClient:  httpClient,
		parser:      parser,
		userAgent:   userAgent,
		workerCount: workerCount,
		timeout:     timeout,
		maxAge:      maxAge,
	}
}

// Produce fetches every feed concurrently and hands back items in
// sources-file order, one flat slice.
func (f *Fetcher) Produce(ctx context.Context) ([]Item, FetchStats) {
	jobs := make(chan FeedRef, len(f.refs))
	var wg sync.WaitGroup

	var mu sync.Mutex
	byFeed := make(map[string][]Item, len(f.refs))
	stats := make(FetchStats, len(f.refs))

	for i := 0; i < f.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				items, err := f.fetchFeed(ctx, ref)
				mu.Lock()
				byFeed[ref.Name] = items
				stats[ref.Name] = err == nil
				mu.Unlock()
			}
		}()
	}

	for _, ref := range f.refs {
		jobs <- ref
	}
	close(jobs)
	wg.Wait()

	var all []Item
	for _, ref := range f.refs {
		all = append(all, byFeed[ref.Name]...)
	}

	slog.Info("Feeds fetched", "feeds", len(f.refs), "ok", stats.OKCount(), "items", len(all))
	return all, stats
}

func (f *Fetcher) fetchFeed(ctx context.Context, ref FeedRef) ([]Item, error) {
	data, err := f.download(ctx, ref.URL)
	if err != nil {
		slog.Warn("Failed to fetch feed", "feed", ref.Name, "error", err)
		return nil, err
	}

	items, err := f.parser.Run(data, ref, f.maxAge)
	if err != nil {
		slog.Warn("Failed to parse feed", "feed", ref.Name, "error", err)
		return nil, err
	}

	slog.Debug("Feed fetched", "feed", ref.Name, "items", len(items))
	return items, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
