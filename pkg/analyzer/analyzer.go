// Package analyzer implements the six-dimensional conversation
// analysis pass (spec §4.4): user intents, AI actions, technical work,
// decisions, flow, and working state, each extracted independently and
// assembled into a single Analysis per conversation.
package analyzer

import (
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// Analyze runs all six extractors over conv and assembles their
// output into a single Analysis.
func Analyze(conv model.Conversation, now time.Time) model.Analysis {
	intents := ExtractUserIntents(conv)
	actions := ExtractAIActions(conv)
	technical := ExtractTechnicalWork(conv)
	decisions := ExtractDecisions(conv)
	flow := ExtractFlow(conv)
	state := ExtractWorkingState(conv, intents, technical)

	return model.Analysis{
		ConversationID: conv.ID,
		GeneratedAt:    now,
		UserIntents:    intents,
		AIActions:      actions,
		TechnicalWork:  technical,
		Decisions:      decisions,
		FlowEvents:     flow,
		WorkingState:   state,
	}
}
