package model

import "fmt"

// InvalidMessageError reports a Message that fails its construction
// invariants (spec §3).
type InvalidMessageError struct {
	Field  string
	Reason string
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("invalid message: %s: %s", e.Field, e.Reason)
}

// SourceUnavailableError wraps a reader-level failure: missing storage
// backend, denied permissions, or an unrecognized schema. Surfaced at
// cycle-result granularity; never retried within the same cycle.
type SourceUnavailableError struct {
	Source Source
	Reason string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s unavailable: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("source %s unavailable: %s", e.Source, e.Reason)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// ParseError reports a single record that could not be normalized into
// a Message. The record is skipped; the parser continues.
type ParseError struct {
	Source   Source
	RecordID string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s record %q: %v", e.Source, e.RecordID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// OrchestratorLimitError reports that the deduplication map exceeded its
// configured ceiling. The cycle aborts and cursors are left unchanged.
type OrchestratorLimitError struct {
	Ceiling int
	Seen    int
}

func (e *OrchestratorLimitError) Error() string {
	return fmt.Sprintf("orchestrator: dedup map exceeded ceiling %d (saw %d messages)", e.Ceiling, e.Seen)
}

// WriterError reports a failed atomic write or rename. The cursor for
// the affected conversation's sources is not advanced.
type WriterError struct {
	Path string
	Err  error
}

func (e *WriterError) Error() string {
	return fmt.Sprintf("writer: %s: %v", e.Path, e.Err)
}

func (e *WriterError) Unwrap() error { return e.Err }

// ConfigError reports an invalid configuration value. Fatal at startup,
// never recoverable at cycle time.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// SchemaNotRecognizedError is a specialization of SourceUnavailableError
// for the SQLite reader when none of its candidate table/column names
// match the opened database.
type SchemaNotRecognizedError struct {
	Path string
	Tried []string
}

func (e *SchemaNotRecognizedError) Error() string {
	return fmt.Sprintf("sqlite schema not recognized in %s (tried: %v)", e.Path, e.Tried)
}
