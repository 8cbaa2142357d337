// Package scheduler sequences one end-to-end pipeline cycle (spec
// §4.8): read → parse → orchestrate → analyze → write → age, and
// persists the per-source cursors only after the cycle's output is
// durably written. It is the only component that touches every other
// package; everything it orchestrates stays independently testable.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/config"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/lock"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/logging"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/aging"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/analyzer"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/orchestrator"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/source/jsonexport"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/source/jsonllog"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/source/kvstore"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/source/sqliteapp"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/writer"
)

const (
	readerTimeout = 30 * time.Second
	parserTimeout = 60 * time.Second
)

// perSourceTimeout bounds a source's combined read+parse step; spec
// §4.8 gives readers 30s and parsers 60s individually, but the two run
// back-to-back inside one goroutine here, so the fan-out deadline is
// their sum.
const perSourceTimeout = readerTimeout + parserTimeout

// Scheduler owns the wiring between sources, the orchestrator, the
// analyzer, the writer, and the aging service, plus the cursor and
// lock files that persist state between cycles (spec §4.8).
type Scheduler struct {
	cfg      config.Config
	clock    model.Clock
	out      io.Writer
	level    logging.Level
	log      *log.Logger
	writer   *writer.Writer
	schedule cron.Schedule

	cursorPath string
	lockPath   string

	stats Stats
}

// New builds a Scheduler from a validated Config. Every component
// logger (reader, writer, aging, scheduler) is constructed from w at
// level, each with its own "component" prefix (spec §9's "no
// module-level mutable state" applied to logging: there is no shared
// global logger, only loggers built at wiring time and held as
// fields).
func New(cfg config.Config, w io.Writer, level logging.Level) (*Scheduler, error) {
	if w == nil {
		w = io.Discard
	}
	spec, err := cron.ParseStandard(cfg.CronSpec())
	if err != nil {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		spec, err = parser.Parse(cfg.CronSpec())
		if err != nil {
			return nil, &model.ConfigError{Field: "cycleSeconds", Reason: fmt.Sprintf("unparseable cadence %q: %v", cfg.CronSpec(), err)}
		}
	}

	return &Scheduler{
		cfg:        cfg,
		clock:      model.SystemClock{},
		out:        w,
		level:      level,
		log:        logging.New(w, "scheduler", level),
		writer:     writer.New(logging.New(w, "writer", level)),
		schedule:   spec,
		cursorPath: filepath.Join(cfg.OutputRoot, ".cursors"),
		lockPath:   filepath.Join(cfg.OutputRoot, ".lock"),
	}, nil
}

// NextRun returns the next scheduled cycle time after from, per the
// configured cadence (spec §4.8).
func (s *Scheduler) NextRun(from time.Time) time.Time {
	return s.schedule.Next(from)
}

// Stats returns a read-only snapshot of cumulative counters since
// process start (spec §6 "stats()").
func (s *Scheduler) Stats() Stats {
	return s.stats.Snapshot()
}

// sourceOutcome is one source's read+parse result, produced inside the
// bounded-concurrency fan-out (spec §4.8 steps 1-2).
type sourceOutcome struct {
	source   model.Source
	messages []model.Message
	result   SourceResult
	cursor   any
	err      error
}

// RunOneCycle executes one full pipeline cycle (spec §4.8): acquire
// the advisory lock, fan out read+parse per enabled source with
// bounded concurrency, consolidate, analyze and write every
// conversation, age the output tree, then persist cursors and release
// the lock. A held lock or an orchestrator/writer failure aborts the
// cycle without advancing any cursor; per-source failures are
// isolated and only that source's cursor stays behind.
func (s *Scheduler) RunOneCycle(ctx context.Context) (CycleResult, error) {
	if err := os.MkdirAll(s.cfg.OutputRoot, 0o755); err != nil {
		return CycleResult{}, fmt.Errorf("scheduler: creating output root: %w", err)
	}
	fl, acquired, err := lock.TryAcquire(s.lockPath)
	if err != nil {
		return CycleResult{}, fmt.Errorf("scheduler: acquiring lock: %w", err)
	}
	if !acquired {
		res := CycleResult{Skipped: true}
		s.stats.record(res)
		return res, nil
	}
	defer fl.Release()

	cursors, err := loadCursors(s.cursorPath)
	if err != nil {
		return CycleResult{}, err
	}

	outcomes := s.readAndParseAll(ctx, cursors)

	messagesBySource := make(map[model.Source][]model.Message, len(outcomes))
	var sourceErrs []error
	result := CycleResult{Sources: make([]SourceResult, 0, len(outcomes))}
	newCursors := cursors

	for _, oc := range outcomes {
		result.Sources = append(result.Sources, oc.result)
		if oc.err != nil {
			sourceErrs = append(sourceErrs, oc.err)
			continue
		}
		if len(oc.messages) > 0 {
			messagesBySource[oc.source] = oc.messages
		}
		applyCursor(&newCursors, oc.source, oc.cursor)
	}

	canonical, orchStats, err := orchestrator.Consolidate(messagesBySource, orchestrator.Options{DedupCeiling: s.cfg.DedupCeiling}, sourceErrs)
	if err != nil {
		result.OrchestratorErr = err
		s.stats.record(result)
		return result, nil
	}
	result.DuplicatesRemoved = orchStats.DuplicatesRemoved
	result.TotalUnique = orchStats.TotalUnique

	conversations := orchestrator.BuildConversations(canonical)
	now := s.clock.Now()

	for _, conv := range conversations {
		analysis := analyzer.Analyze(conv, now)
		tier := string(aging.TierForAge(now.Sub(conv.Span.End), s.cfg.Tiers))
		wres, werr := s.writer.Write(s.cfg.OutputRoot, tier, conv.Span.End, analysis)
		if werr != nil {
			result.WriterErr = &model.WriterError{Path: wres.AICFPath, Err: werr}
			s.stats.record(result)
			return result, nil
		}
		if wres.AICFWritten {
			result.ArtifactsWritten++
		}
		if wres.MarkdownWritten {
			result.ArtifactsWritten++
		}
	}

	agingLogger := logging.New(s.out, "aging", s.level)
	agingStats, agingErr := aging.Run(s.cfg.OutputRoot, s.cfg.Tiers, now, agingLogger)
	result.ArtifactsMoved = agingStats.Moved
	result.ArtifactsCompressed = agingStats.Compressed
	if agingErr != nil {
		result.AgingErr = agingErr
	}

	if err := saveCursors(s.cursorPath, newCursors); err != nil {
		result.WriterErr = err
		s.stats.record(result)
		return result, nil
	}

	s.stats.record(result)
	return result, nil
}

// readAndParseAll runs each enabled source's read_since + parse under
// a per-source deadline, with concurrency bounded to the number of
// sources (spec §5 "a thread pool with one worker per source is
// sufficient"). errgroup isolates one source's failure from the rest.
func (s *Scheduler) readAndParseAll(ctx context.Context, cursors model.Cursors) []sourceOutcome {
	type job struct {
		source model.Source
		run    func(context.Context) sourceOutcome
	}

	var jobs []job
	if s.cfg.KVStore.Enabled {
		jobs = append(jobs, job{model.SourceKVStore, func(ctx context.Context) sourceOutcome {
			return s.readKVStore(cursors.KVStore)
		}})
	}
	if s.cfg.SQLiteApp.Enabled {
		jobs = append(jobs, job{model.SourceSQLiteApp, func(ctx context.Context) sourceOutcome {
			return s.readSQLiteApp(ctx, cursors.SQLiteApp)
		}})
	}
	if s.cfg.JSONLLog.Enabled {
		jobs = append(jobs, job{model.SourceJSONLCLI, func(ctx context.Context) sourceOutcome {
			return s.readJSONLLog(cursors.JSONLLog)
		}})
	}
	if s.cfg.JSONExport.Enabled {
		jobs = append(jobs, job{model.SourceJSONExport, func(ctx context.Context) sourceOutcome {
			return s.readJSONExport(cursors.JSONExport)
		}})
	}

	outcomes := make([]sourceOutcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(jobs))
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			stepCtx, cancel := context.WithTimeout(gctx, perSourceTimeout)
			defer cancel()
			done := make(chan sourceOutcome, 1)
			go func() { done <- j.run(stepCtx) }()
			select {
			case oc := <-done:
				outcomes[i] = oc
			case <-stepCtx.Done():
				// the step is abandoned; its late result is discarded
				err := &model.SourceUnavailableError{Source: j.source, Reason: "read+parse deadline exceeded", Err: stepCtx.Err()}
				outcomes[i] = sourceOutcome{source: j.source, err: err, result: SourceResult{Source: j.source, Err: err}}
			}
			return nil // per-source failures are carried in the outcome, not propagated
		})
	}
	_ = g.Wait()
	return outcomes
}

func (s *Scheduler) readKVStore(cursor model.KVStoreCursor) sourceOutcome {
	logger := logging.New(s.out, "reader.kvstore", s.level)
	r := kvstore.New(s.cfg.KVStore.BasePath, s.cfg.ProjectName, logger)
	records, next, err := r.ReadSince(cursor)
	if err != nil {
		return sourceOutcome{source: model.SourceKVStore, err: err, result: SourceResult{Source: model.SourceKVStore, Err: err}}
	}

	workspaceID := ""
	if len(records) > 0 {
		if i := strings.IndexByte(records[0].Key, '/'); i >= 0 {
			workspaceID = records[0].Key[:i]
		}
	}
	msgs, skipped := kvstore.Parse(records, workspaceID, time.Local)

	return sourceOutcome{
		source:   model.SourceKVStore,
		messages: msgs,
		cursor:   next,
		result: SourceResult{
			Source:      model.SourceKVStore,
			RecordsRead: len(records),
			MessagesOut: len(msgs),
			Skipped:     skipped,
			CursorMoved: true,
		},
	}
}

func (s *Scheduler) readSQLiteApp(ctx context.Context, cursor model.SQLiteCursor) sourceOutcome {
	r := sqliteapp.New(s.cfg.SQLiteApp.BasePath)
	rows, next, err := r.ReadSince(ctx, cursor)
	if err != nil {
		return sourceOutcome{source: model.SourceSQLiteApp, err: err, result: SourceResult{Source: model.SourceSQLiteApp, Err: err}}
	}

	var msgs []model.Message
	var skipped int
	for _, row := range rows {
		m, err := sqliteapp.Parse(row, time.Local)
		if err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, m)
	}

	return sourceOutcome{
		source:   model.SourceSQLiteApp,
		messages: msgs,
		cursor:   next,
		result: SourceResult{
			Source:      model.SourceSQLiteApp,
			RecordsRead: len(rows),
			MessagesOut: len(msgs),
			Skipped:     skipped,
			CursorMoved: true,
		},
	}
}

func (s *Scheduler) readJSONLLog(cursor model.JSONLLogCursor) sourceOutcome {
	logger := logging.New(s.out, "reader.jsonllog", s.level)
	r := jsonllog.New(s.cfg.JSONLLog.BasePath, logger)
	records, next, err := r.ReadSince(cursor)
	if err != nil {
		return sourceOutcome{source: model.SourceJSONLCLI, err: err, result: SourceResult{Source: model.SourceJSONLCLI, Err: err}}
	}

	var msgs []model.Message
	var skipped int
	for _, rec := range records {
		m, err := jsonllog.Parse(rec, time.Local)
		if err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, m)
	}

	return sourceOutcome{
		source:   model.SourceJSONLCLI,
		messages: msgs,
		cursor:   next,
		result: SourceResult{
			Source:      model.SourceJSONLCLI,
			RecordsRead: len(records),
			MessagesOut: len(msgs),
			Skipped:     skipped,
			CursorMoved: true,
		},
	}
}

func (s *Scheduler) readJSONExport(cursor model.JSONExportCursor) sourceOutcome {
	r := jsonexport.New(s.cfg.JSONExport.BasePath, int64(s.cfg.MaxExportMiB)*1024*1024)
	files, next, errs := r.ReadSince(cursor)

	var msgs []model.Message
	var skipped int
	for _, f := range files {
		fm, fskipped, err := jsonexport.Parse(f, time.Local)
		if err != nil {
			skipped++
			continue
		}
		msgs = append(msgs, fm...)
		skipped += fskipped
	}

	var firstErr error
	if len(errs) > 0 {
		firstErr = errs[0]
	}

	return sourceOutcome{
		source:   model.SourceJSONExport,
		messages: msgs,
		cursor:   next,
		result: SourceResult{
			Source:      model.SourceJSONExport,
			RecordsRead: len(files),
			MessagesOut: len(msgs),
			Skipped:     skipped,
			Err:         firstErr,
			CursorMoved: true,
		},
	}
}

// applyCursor writes a source's new cursor value into cursors, keyed
// by source tag. Only called for sources that completed their
// read+parse step without error (spec §5 "no cursor is advanced past
// a record whose message was not durably written" — here "durably
// written" is deferred to the end of the cycle via saveCursors, which
// only runs after every conversation's artifacts succeeded).
func applyCursor(cursors *model.Cursors, source model.Source, value any) {
	switch source {
	case model.SourceKVStore:
		if v, ok := value.(model.KVStoreCursor); ok {
			cursors.KVStore = v
		}
	case model.SourceSQLiteApp:
		if v, ok := value.(model.SQLiteCursor); ok {
			cursors.SQLiteApp = v
		}
	case model.SourceJSONLCLI:
		if v, ok := value.(model.JSONLLogCursor); ok {
			cursors.JSONLLog = v
		}
	case model.SourceJSONExport:
		if v, ok := value.(model.JSONExportCursor); ok {
			cursors.JSONExport = v
		}
	}
}
