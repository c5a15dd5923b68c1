package papers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.semanticscholar.org/graph/v1"
	searchFields   = "title,abstract,year,citationCount,authors,externalIds,url,openAccessPdf"
	searchLimit    = 20
)

// Client searches the Semantic Scholar Graph API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
	}
}

type searchResponse struct {
	Total int            `json:"total"`
	Data  []searchRecord `json:"data"`
}

type searchRecord struct {
	PaperID       string `json:"paperId"`
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	Year          int    `json:"year"`
	CitationCount int    `json:"citationCount"`
	URL           string `json:"url"`
	Authors       []struct {
		Name string `json:"name"`
	} `json:"authors"`
	OpenAccessPDF *struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
}

// Search returns papers matching the query. Records without an ID or
// title are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]Paper, error) {
	endpoint := fmt.Sprintf("%s/paper/search?query=%s&fields=%s&limit=%d",
		c.baseURL, url.QueryEscape(query), url.QueryEscape(searchFields), searchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search papers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paper search returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	papers := make([]Paper, 0, len(parsed.Data))
	for _, rec := range parsed.Data {
		if rec.PaperID == "" || rec.Title == "" {
			slog.Debug("Skipping malformed paper record", "id", rec.PaperID, "title", rec.Title)
			continue
		}

		paper := Paper{
			ID:            rec.PaperID,
			Title:         rec.Title,
			Abstract:      rec.Abstract,
			Year:          rec.Year,
			CitationCount: rec.CitationCount,
			URL:           rec.URL,
		}
		for _, a := range rec.Authors {
			if a.Name != "" {
				paper.Authors = append(paper.Authors, a.Name)
			}
		}
		if rec.OpenAccessPDF != nil {
			paper.PDFURL = rec.OpenAccessPDF.URL
		}
		papers = append(papers, paper)
	}

	slog.Debug("Paper search completed", "query", query, "total", parsed.Total, "usable", len(papers))
	return papers, nil
}
