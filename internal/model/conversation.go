package model

import (
	"sort"
	"time"
)

// Conversation is a set of Messages sharing a conversation id, ordered
// by timestamp ascending with id as tiebreaker (spec §3).
type Conversation struct {
	ID         string
	Messages   []Message
	SourceMix  map[Source]int
	Span       Span
	UserCount  int
	AICount    int
}

// Span is a Conversation's earliest/latest timestamp and its duration.
type Span struct {
	Start time.Time
	End   time.Time
}

func (s Span) Duration() time.Duration { return s.End.Sub(s.Start) }

// Count is the total number of messages in the Conversation.
func (c Conversation) Count() int { return len(c.Messages) }

// BuildConversation groups an already-deduplicated set of messages that
// share one conversation id into a Conversation view. Messages are
// sorted by timestamp ascending, id as tiebreaker, satisfying the
// ordering invariant in spec §3. Every message's ConversationID must
// already equal id; callers (pkg/orchestrator) are responsible for
// grouping before calling this.
func BuildConversation(id string, messages []Message) Conversation {
	sorted := make([]Message, len(messages))
	copy(sorted, messages)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	mix := make(map[Source]int)
	var userCount, aiCount int
	var span Span
	for i, m := range sorted {
		src := Source(m.Metadata[MetaSource])
		mix[src]++
		if m.Role == RoleUser {
			userCount++
		} else if m.Role == RoleAssistant {
			aiCount++
		}
		if i == 0 {
			span.Start = m.Timestamp
			span.End = m.Timestamp
			continue
		}
		if m.Timestamp.Before(span.Start) {
			span.Start = m.Timestamp
		}
		if m.Timestamp.After(span.End) {
			span.End = m.Timestamp
		}
	}

	return Conversation{
		ID:        id,
		Messages:  sorted,
		SourceMix: mix,
		Span:      span,
		UserCount: userCount,
		AICount:   aiCount,
	}
}
