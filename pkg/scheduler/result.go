package scheduler

import (
	"sync"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// SourceResult is one source's contribution to a cycle: how many raw
// records it yielded, how many parsed cleanly, and the error (if any)
// that made the scheduler abandon its cursor advancement for this
// cycle (spec §4.8 step 2, §5 "on deadline the step is abandoned and
// the source's cursor is left untouched").
type SourceResult struct {
	Source       model.Source
	RecordsRead  int
	MessagesOut  int
	Skipped      int
	Err          error
	CursorMoved  bool
}

// CycleResult is `run_one_cycle()`'s structured result (spec §6): per
// source counts, the orchestrator's dedup accounting, and what the
// writer/aging stages did.
type CycleResult struct {
	Skipped         bool // true if the cycle was skipped because the lock was already held
	Sources         []SourceResult
	OrchestratorErr error
	DuplicatesRemoved int
	TotalUnique       int
	ArtifactsWritten  int
	ArtifactsMoved    int
	ArtifactsCompressed int
	WriterErr         error
	AgingErr          error
}

// Stats is the cumulative read-only snapshot exposed by `stats()`
// (spec §6): counters accumulated since process start, across every
// cycle run so far.
type Stats struct {
	mu sync.Mutex

	CyclesRun      int
	CyclesSkipped  int
	TotalMessages  int
	TotalUnique    int
	TotalDuplicates int
	TotalArtifactsWritten int
	TotalArtifactsMoved   int
	TotalErrors    int
}

// Snapshot returns a copy of the current cumulative counters, safe to
// read concurrently with an in-flight cycle.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		CyclesRun:             s.CyclesRun,
		CyclesSkipped:         s.CyclesSkipped,
		TotalMessages:         s.TotalMessages,
		TotalUnique:           s.TotalUnique,
		TotalDuplicates:       s.TotalDuplicates,
		TotalArtifactsWritten: s.TotalArtifactsWritten,
		TotalArtifactsMoved:   s.TotalArtifactsMoved,
		TotalErrors:           s.TotalErrors,
	}
}

func (s *Stats) record(res CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Skipped {
		s.CyclesSkipped++
		return
	}
	s.CyclesRun++
	s.TotalUnique += res.TotalUnique
	s.TotalDuplicates += res.DuplicatesRemoved
	s.TotalArtifactsWritten += res.ArtifactsWritten
	s.TotalArtifactsMoved += res.ArtifactsMoved
	for _, sr := range res.Sources {
		s.TotalMessages += sr.MessagesOut
		if sr.Err != nil {
			s.TotalErrors++
		}
	}
	if res.OrchestratorErr != nil {
		s.TotalErrors++
	}
	if res.AgingErr != nil {
		s.TotalErrors++
	}
}
