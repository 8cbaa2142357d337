package model

import "time"

// Priority tags the confidence or impact of an extracted entry.
// Matches spec §3's {low, medium, high, critical} scale.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// WorkStatus is the status guess emitted by the technical-work extractor.
type WorkStatus string

const (
	WorkPlanned    WorkStatus = "planned"
	WorkInProgress WorkStatus = "in-progress"
	WorkCompleted  WorkStatus = "completed"
	WorkFailed     WorkStatus = "failed"
)

// EntryMeta carries the bookkeeping every extracted entry needs:
// whether it was truncated to its field bound, and at what boundary.
type EntryMeta struct {
	Truncated bool
}

// UserIntent is one entry from the user-intent extractor.
type UserIntent struct {
	Timestamp time.Time
	Text      string
	Priority  Priority
	Meta      EntryMeta
}

// AIAction is one entry from the AI-action extractor.
type AIAction struct {
	Timestamp time.Time
	Text      string
	ActionType string // e.g. "implemented", "fixed", "created", "refactored"
	Meta      EntryMeta
}

// TechnicalWork is one entry from the technical-work extractor.
type TechnicalWork struct {
	Timestamp time.Time
	Text      string
	Status    WorkStatus
	Meta      EntryMeta
}

// Decision is one entry from the decision extractor.
type Decision struct {
	Timestamp time.Time
	Summary   string // <= 200 chars, sentence-bounded
	Reasoning string // optional
	Impact    Priority
	Meta      EntryMeta
}

// FlowEventKind tags a flow event's role transition.
type FlowEventKind string

const (
	FlowUserMessage       FlowEventKind = "user_message"
	FlowAIMessage         FlowEventKind = "ai_message"
	FlowAIContinuation    FlowEventKind = "ai_continuation"
)

// FlowEvent is one entry from the flow extractor: one per message, in
// conversation order.
type FlowEvent struct {
	Timestamp time.Time
	MessageID string
	Role      Role
	Kind      FlowEventKind
}

// WorkingState is the single reduced record from the state extractor.
type WorkingState struct {
	WorkingOn  string
	Blockers   []string // up to 3, most-recent-first
	NextAction string
	Progress   float64 // completed technical-work items / total items, 0 when total is 0
}

// Analysis is the output of the six extractors for one Conversation.
type Analysis struct {
	ConversationID string
	GeneratedAt    time.Time
	UserIntents    []UserIntent
	AIActions      []AIAction
	TechnicalWork  []TechnicalWork
	Decisions      []Decision
	FlowEvents     []FlowEvent
	WorkingState   WorkingState
}
