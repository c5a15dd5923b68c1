package summarizer

import (
	"context"
	"log/slog"
	"strings"
)

// FullTextFetcher retrieves the readable text of an article page.
type FullTextFetcher interface {
	Run(ctx context.Context, link string) (string, error)
}

// Pipeline orchestrates the two summarization protocols over a strategy.
// Every external failure degrades to a deterministic fallback, so both
// protocols always produce output.
type Pipeline struct {
	strategy       Strategy
	fulltext       FullTextFetcher
	batchSize      int
	selectionCount int
}

// NewPipeline builds a pipeline. fulltext may be nil, in which case
// briefings use buffered summaries only.
func NewPipeline(strategy Strategy, fulltext FullTextFetcher, batchSize, selectionCount int) *Pipeline {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Pipeline{
		strategy:       strategy,
		fulltext:       fulltext,
		batchSize:      batchSize,
		selectionCount: selectionCount,
	}
}

// BatchSize returns the number of inputs summarized per strategy call.
// Callers that persist results incrementally chunk their work by it.
func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// SummarizeAll returns one summary per input, in order. Inputs are
// summarized in fixed-size batches; a failed batch retries item by item,
// and a failed item keeps its original description. Two tiers, no further
// retries.
func (p *Pipeline) SummarizeAll(ctx context.Context, inputs []Input) []string {
	summaries := make([]string, len(inputs))

	for start := 0; start < len(inputs); start += p.batchSize {
		end := min(start+p.batchSize, len(inputs))
		batch := inputs[start:end]

		out, err := p.strategy.SummarizeBatch(ctx, batch)
		if err == nil && len(out) == len(batch) {
			copy(summaries[start:end], out)
			continue
		}
		slog.Warn("Batch summarization failed, retrying items individually",
			"batch_start", start, "batch_size", len(batch), "error", err)

		for i, input := range batch {
			single, itemErr := p.strategy.SummarizeBatch(ctx, []Input{input})
			if itemErr != nil || len(single) != 1 {
				slog.Warn("Item summarization failed, keeping description",
					"title", input.Title, "error", itemErr)
				summaries[start+i] = input.Description
				continue
			}
			summaries[start+i] = single[0]
		}
	}

	return summaries
}

// BuildDigest runs the briefing protocol: select the top candidates, fetch
// full text for the selected few, compose the briefing. An empty candidate
// list yields an empty result.
func (p *Pipeline) BuildDigest(ctx context.Context, candidates []Candidate) DigestResult {
	if len(candidates) == 0 {
		return DigestResult{}
	}

	k := min(p.selectionCount, len(candidates))

	indices, err := p.strategy.SelectTop(ctx, candidates, k)
	if err != nil {
		slog.Warn("Selection failed, falling back to most recent items", "error", err)
		indices = mostRecentIndices(candidates, k)
	} else if indices = sanitizeIndices(indices, len(candidates), k); len(indices) == 0 {
		slog.Warn("Selection returned no usable indices, falling back to most recent items")
		indices = mostRecentIndices(candidates, k)
	}

	selected := make([]Selected, 0, len(indices))
	for _, idx := range indices {
		sel := Selected{Candidate: candidates[idx], Content: candidates[idx].Summary}
		if p.fulltext != nil && sel.Link != "" {
			text, fetchErr := p.fulltext.Run(ctx, sel.Link)
			if fetchErr != nil {
				slog.Warn("Full text fetch failed, using buffered summary",
					"link", sel.Link, "error", fetchErr)
			} else {
				sel.Content = text
			}
		}
		selected = append(selected, sel)
	}

	briefing, err := p.strategy.ComposeBriefing(ctx, selected)
	if err != nil || strings.TrimSpace(briefing) == "" {
		slog.Warn("Briefing composition failed, falling back to bullet list", "error", err)
		briefing = bulletBriefing(selected)
	}

	return DigestResult{Selected: selected, Briefing: briefing}
}

// sanitizeIndices drops out-of-range and repeated indices and caps the
// result at k. Strategies validate their own output, but the fallback
// decision belongs here.
func sanitizeIndices(indices []int, count, k int) []int {
	seen := make(map[int]struct{}, len(indices))
	valid := make([]int, 0, k)
	for _, idx := range indices {
		if idx < 0 || idx >= count {
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		valid = append(valid, idx)
		if len(valid) == k {
			break
		}
	}
	return valid
}
