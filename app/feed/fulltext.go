package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxFullTextRunes = 8000

// FullTextFetcher downloads an article page and extracts its readable text.
// Used only for items selected into the deep briefing, so the number of
// page fetches per digest is bounded by the selection size.
type FullTextFetcher struct {
	httpClient *http.Client
	extractor  *ContentExtractor
	userAgent  string
	timeout    time.Duration
}

func NewFullTextFetcher(httpClient *http.Client, extractor *ContentExtractor, userAgent string, timeout time.Duration) *FullTextFetcher {
	return &FullTextFetcher{
		httpClient: httpClient,
		extractor:  extractor,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (f *FullTextFetcher) Run(ctx context.Context, link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("item has no link")
	}

	data, err := f.fetchPage(ctx, link)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article content: %w", err)
	}

	text, err := f.extractor.Run(data)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text = truncate(text, maxFullTextRunes)

	slog.Debug("Full text fetched", "url", link, "content_length", len(text))
	return text, nil
}

func (f *FullTextFetcher) fetchPage(ctx context.Context, url string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
