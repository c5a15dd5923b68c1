package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

const (
	summaryMaxTokens   = 1024
	selectionMaxTokens = 256
	briefingMaxTokens  = 2048

	callTimeout = 60 * time.Second
)

var _ Strategy = (*Anthropic)(nil)

// Anthropic summarizes via the Messages API. Calls are rate limited and
// individually bounded by callTimeout; retry policy belongs to the caller.
type Anthropic struct {
	client  *anthropic.Client
	limiter *rate.Limiter
	model   string
}

func NewAnthropic(apiKey, model string) *Anthropic {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Anthropic{
		client:  &client,
		limiter: rate.NewLimiter(rate.Every(750*time.Millisecond), 1),
		model:   model,
	}
}

func (a *Anthropic) SummarizeBatch(ctx context.Context, inputs []Input) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	text, err := a.call(ctx, batchPrompt(inputs), summaryMaxTokens)
	if err != nil {
		return nil, err
	}

	summaries, err := parseNumberedList(text, len(inputs))
	if err != nil {
		return nil, fmt.Errorf("malformed batch response: %w", err)
	}
	return summaries, nil
}

func (a *Anthropic) SelectTop(ctx context.Context, candidates []Candidate, k int) ([]int, error) {
	text, err := a.call(ctx, selectionPrompt(candidates, k), selectionMaxTokens)
	if err != nil {
		return nil, err
	}

	indices, err := parseIndexArray(text, len(candidates), k)
	if err != nil {
		return nil, fmt.Errorf("malformed selection response: %w", err)
	}
	return indices, nil
}

func (a *Anthropic) ComposeBriefing(ctx context.Context, selected []Selected) (string, error) {
	text, err := a.call(ctx, briefingPrompt(selected), briefingMaxTokens)
	if err != nil {
		return "", err
	}
	return PostProcessBriefing(text), nil
}

func (a *Anthropic) call(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter interrupted: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	response, err := a.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

var numberedLineRe = regexp.MustCompile(`^\s*(\d+)[.):]\s*(.*)$`)

// parseNumberedList extracts entries "1. ...", "2. ..." in order.
// Unnumbered lines continue the previous entry, so multi-sentence
// summaries survive line wrapping.
func parseNumberedList(text string, want int) ([]string, error) {
	entries := make([]string, 0, want)
	current := -1

	for _, line := range strings.Split(text, "\n") {
		if m := numberedLineRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n == len(entries)+1 {
				entries = append(entries, strings.TrimSpace(m[2]))
				current = len(entries) - 1
				continue
			}
		}
		if current >= 0 {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				entries[current] += " " + trimmed
			}
		}
	}

	if len(entries) != want {
		return nil, fmt.Errorf("expected %d entries, got %d", want, len(entries))
	}
	return entries, nil
}

var indexArrayRe = regexp.MustCompile(`\[[\d,\s]*\]`)

// parseIndexArray extracts a JSON array of 1-based item numbers and
// converts it to 0-based indices. Out-of-range and repeated numbers are
// discarded; an empty result is an error.
func parseIndexArray(text string, count, k int) ([]int, error) {
	match := indexArrayRe.FindString(text)
	if match == "" {
		return nil, fmt.Errorf("no index array found")
	}

	var numbers []int
	if err := json.Unmarshal([]byte(match), &numbers); err != nil {
		return nil, fmt.Errorf("failed to parse index array: %w", err)
	}

	seen := make(map[int]struct{}, len(numbers))
	indices := make([]int, 0, k)
	for _, n := range numbers {
		idx := n - 1
		if idx < 0 || idx >= count {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
		if len(indices) == k {
			break
		}
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("no valid indices in %q", match)
	}
	return indices, nil
}
