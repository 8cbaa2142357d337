// Package orchestrator merges messages harvested from every enabled
// source into one canonical, deduplicated set and groups them into
// Conversations (spec §4.3).
package orchestrator

import (
	"sort"
	"strings"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// Stats is the consolidate() operation's statistics output (spec §4.3
// step 3).
type Stats struct {
	TotalSeen         int
	TotalUnique       int
	DuplicatesRemoved int
	PerSource         map[model.Source]int
}

// Options configures consolidate()'s failure and resource ceilings.
type Options struct {
	// DedupCeiling bounds the size of the in-flight dedup map. Exceeding
	// it aborts the cycle with an OrchestratorLimitError (spec §7).
	DedupCeiling int
}

// Consolidate implements `consolidate(messages_by_source) ->
// (canonical_messages, stats)`. Incoming messages are deduplicated by
// ContentHash; on a collision the survivor is the one with the earlier
// timestamp (id lexicographic as tiebreaker), and the survivor's
// metadata.seen_in_sources accumulates the union of both messages'
// metadata.source (spec §4.3 step 2). sourceErrs records which sources
// (if any) failed outright — needed to decide whether a
// zero-unique-messages result is itself a failure (spec §4.3
// "Failure semantics").
func Consolidate(messagesBySource map[model.Source][]model.Message, opts Options, sourceErrs []error) ([]model.Message, Stats, error) {
	survivors := make(map[model.ContentHash]model.Message)
	stats := Stats{PerSource: make(map[model.Source]int)}

	// Deterministic iteration: sort source keys, then within a source
	// rely on the reader's own stable ordering. Collisions are broken
	// by timestamp/id, not by map iteration order, so this is cosmetic
	// for determinism of PerSource accounting only.
	sources := make([]model.Source, 0, len(messagesBySource))
	for src := range messagesBySource {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	for _, src := range sources {
		for _, m := range messagesBySource[src] {
			stats.TotalSeen++
			stats.PerSource[src]++

			if len(survivors) >= opts.DedupCeiling {
				return nil, stats, &model.OrchestratorLimitError{Ceiling: opts.DedupCeiling, Seen: len(survivors)}
			}

			hash := model.HashMessage(m)
			existing, ok := survivors[hash]
			if !ok {
				survivors[hash] = withSeenInSources(m, nil)
				continue
			}

			winner, loser := existing, m
			if messageLess(m, existing) {
				winner, loser = m, existing
			}
			survivors[hash] = withSeenInSources(winner, []model.Message{existing, loser})
			stats.DuplicatesRemoved++
		}
	}

	if len(survivors) == 0 && len(sourceErrs) > 0 {
		return nil, stats, sourceErrs[0]
	}

	canonical := make([]model.Message, 0, len(survivors))
	for _, m := range survivors {
		canonical = append(canonical, m)
	}
	stats.TotalUnique = len(canonical)

	return canonical, stats, nil
}

// messageLess reports whether a should win over b under spec §4.3
// step 2's survivor rule: earlier timestamp wins, id lexicographic as
// tiebreaker.
func messageLess(a, b model.Message) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	return a.ID < b.ID
}

// withSeenInSources returns winner with its metadata.seen_in_sources
// set to the union of its own source and every message in others,
// including the sources others already accumulated in earlier
// collisions.
func withSeenInSources(winner model.Message, others []model.Message) model.Message {
	seen := map[string]bool{winner.Metadata[model.MetaSource]: true}
	for _, o := range others {
		seen[o.Metadata[model.MetaSource]] = true
		for _, s := range strings.Split(o.Metadata[model.MetaSeenInSources], ",") {
			seen[s] = true
		}
	}

	names := make([]string, 0, len(seen))
	for s := range seen {
		if s != "" {
			names = append(names, s)
		}
	}
	sort.Strings(names)

	meta := make(map[string]string, len(winner.Metadata)+1)
	for k, v := range winner.Metadata {
		meta[k] = v
	}
	meta[model.MetaSeenInSources] = joinComma(names)
	winner.Metadata = meta
	return winner
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}
