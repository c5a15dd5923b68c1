package summarizer

import (
	"context"
	"log/slog"
)

// Strategy produces summaries and briefings. Implementations must return
// exactly one summary per input from SummarizeBatch, and indices into the
// candidates slice from SelectTop.
type Strategy interface {
	SummarizeBatch(ctx context.Context, inputs []Input) ([]string, error)
	SelectTop(ctx context.Context, candidates []Candidate, k int) ([]int, error)
	ComposeBriefing(ctx context.Context, selected []Selected) (string, error)
}

// NewStrategy picks the strategy once at startup: the API-backed one when a
// key is configured, the passthrough otherwise.
func NewStrategy(apiKey, model string) Strategy {
	if apiKey == "" {
		slog.Info("No API key configured, using passthrough summarization")
		return &Passthrough{}
	}
	return NewAnthropic(apiKey, model)
}
