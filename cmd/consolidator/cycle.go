package main

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/scheduler"
)

func timeNow() time.Time { return time.Now().UTC() }

// newTimer fires once at target, or immediately if target has already
// passed (covers the very first cycle, where NextRun(now) may land a
// moment in the past by the time the timer is armed).
func newTimer(target time.Time) *time.Timer {
	d := time.Until(target)
	if d < 0 {
		d = 0
	}
	return time.NewTimer(d)
}

// logCycleResult reports one cycle's outcome at the granularity spec
// §7 calls for: an all-green summary on a clean cycle, per-source
// detail when anything failed.
func logCycleResult(l *log.Logger, res scheduler.CycleResult) {
	if res.Skipped {
		l.Info("cycle skipped, lock held by another process")
		return
	}

	l.Info("cycle complete",
		"uniqueMessages", res.TotalUnique,
		"duplicatesRemoved", res.DuplicatesRemoved,
		"artifactsWritten", res.ArtifactsWritten,
		"artifactsMoved", res.ArtifactsMoved,
		"artifactsCompressed", res.ArtifactsCompressed,
	)

	for _, sr := range res.Sources {
		if sr.Err != nil {
			l.Warn("source failed, cursor not advanced", "source", sr.Source, "error", sr.Err)
		}
	}
	if res.OrchestratorErr != nil {
		l.Error("orchestrator aborted cycle", "error", res.OrchestratorErr)
	}
	if res.WriterErr != nil {
		l.Error("writer aborted cycle", "error", res.WriterErr)
	}
	if res.AgingErr != nil {
		l.Error("aging pass failed", "error", res.AgingErr)
	}
}
