// Package model defines the normalized types the consolidation pipeline
// operates on: Message, Conversation, Analysis, and the Cursor family.
// All downstream code (orchestrator, analyzer, writers) sees only these
// types — source-specific shapes never escape the parsers.
package model

import "time"

// Role is the speaker of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the two recognized roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Source tags the origin of a Message. The zero value is never valid;
// every constructed Message must carry one of these.
type Source string

const (
	SourceKVStore    Source = "kv-store"
	SourceSQLiteApp  Source = "sqlite-app"
	SourceJSONLCLI   Source = "jsonl-cli"
	SourceJSONExport Source = "json-export"
	SourceGeneric    Source = "generic"
)

// Metadata keys shared across all parsers. Parsers may set additional
// source-specific keys; only these two are required by construction.
const (
	MetaSource        = "source"
	MetaExtractedFrom = "extracted_from"
	MetaSeenInSources = "seen_in_sources"
	MetaMessageType   = "message_type"
	MetaThinking      = "thinking"
	MetaTruncated     = "truncated"
)

// MessageTypeSystem is the sentinel metadata value that permits an
// otherwise-empty Message.Content (§3 invariant).
const MessageTypeSystem = "system"

// ClockSkewTolerance bounds how far into the future a Message timestamp
// may lie relative to the clock used to validate it.
const ClockSkewTolerance = 60 * time.Second

// Message is the normalized, immutable unit the pipeline operates on.
// Construct one only via NewMessage (in pkg/parserutil), which fills
// the required metadata; Validate checks the invariants below.
type Message struct {
	ID             string
	ConversationID string
	Timestamp      time.Time
	Role           Role
	Content        string
	Metadata       map[string]string
}

// Validate checks the invariants from spec §3: timestamp present and
// not unreasonably in the future, role recognized, content non-empty
// unless explicitly tagged as a system message.
func (m Message) Validate(now time.Time) error {
	if m.Timestamp.IsZero() {
		return &InvalidMessageError{Field: "timestamp", Reason: "missing"}
	}
	if m.Timestamp.After(now.Add(ClockSkewTolerance)) {
		return &InvalidMessageError{Field: "timestamp", Reason: "beyond clock-skew tolerance"}
	}
	if !m.Role.Valid() {
		return &InvalidMessageError{Field: "role", Reason: "must be user or assistant"}
	}
	if m.Content == "" && m.Metadata[MetaMessageType] != MessageTypeSystem {
		return &InvalidMessageError{Field: "content", Reason: "empty content requires message_type=system"}
	}
	if m.Metadata[MetaSource] == "" {
		return &InvalidMessageError{Field: "metadata.source", Reason: "missing"}
	}
	if m.Metadata[MetaExtractedFrom] == "" {
		return &InvalidMessageError{Field: "metadata.extracted_from", Reason: "missing"}
	}
	return nil
}
