package summarizer

import (
	"fmt"
	"sort"
	"strings"
)

// mostRecentIndices returns up to k candidate indices ordered by published
// time, newest first. Ties keep buffer insertion order.
func mostRecentIndices(candidates []Candidate, k int) []int {
	indices := make([]int, len(candidates))
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return candidates[indices[a]].PublishedAt.After(candidates[indices[b]].PublishedAt)
	})

	if k < len(indices) {
		indices = indices[:k]
	}
	return indices
}

// bulletBriefing renders the deterministic briefing used when no API
// strategy is available or composition fails.
func bulletBriefing(selected []Selected) string {
	if len(selected) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Top stories:\n")
	for _, s := range selected {
		fmt.Fprintf(&b, "- [%s](%s) (%s)\n", s.Title, s.Link, s.Source)
	}
	return strings.TrimRight(b.String(), "\n")
}
