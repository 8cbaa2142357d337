package analyzer

import (
	"sort"
	"time"
)

// dedupByText merges entries whose canonical text (after whitespace
// collapsing) is identical, keeping the earliest-timestamped one, then
// returns the survivors ordered by timestamp ascending (spec §4.4
// "Deduplication within extractor outputs" and output-ordering rule).
func dedupByText[T any](items []T, textOf func(T) string, tsOf func(T) time.Time) []T {
	type entry struct {
		item T
		ts   time.Time
	}
	best := make(map[string]entry, len(items))
	order := make([]string, 0, len(items))

	for _, it := range items {
		key := collapseWhitespace(textOf(it))
		ts := tsOf(it)
		existing, ok := best[key]
		if !ok {
			best[key] = entry{item: it, ts: ts}
			order = append(order, key)
			continue
		}
		if ts.Before(existing.ts) {
			best[key] = entry{item: it, ts: ts}
		}
	}

	out := make([]T, 0, len(order))
	for _, key := range order {
		out = append(out, best[key].item)
	}
	sort.SliceStable(out, func(i, j int) bool { return tsOf(out[i]).Before(tsOf(out[j])) })
	return out
}
