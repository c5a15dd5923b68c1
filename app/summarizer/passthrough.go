package summarizer

import (
	"context"
)

var _ Strategy = (*Passthrough)(nil)

// Passthrough is the no-API strategy: descriptions become summaries, the
// most recent items are selected, and the briefing is a deterministic
// bullet list.
type Passthrough struct{}

func (p *Passthrough) SummarizeBatch(_ context.Context, inputs []Input) ([]string, error) {
	summaries := make([]string, len(inputs))
	for i, input := range inputs {
		summaries[i] = input.Description
	}
	return summaries, nil
}

func (p *Passthrough) SelectTop(_ context.Context, candidates []Candidate, k int) ([]int, error) {
	return mostRecentIndices(candidates, k), nil
}

func (p *Passthrough) ComposeBriefing(_ context.Context, selected []Selected) (string, error) {
	return bulletBriefing(selected), nil
}
