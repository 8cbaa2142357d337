package analyzer

import "github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"

// ExtractFlow emits one FlowEvent per message in conversation order,
// tagging consecutive assistant messages after the first as
// continuations rather than new AI turns (spec §4.4 "Flow extractor").
func ExtractFlow(conv model.Conversation) []model.FlowEvent {
	events := make([]model.FlowEvent, 0, len(conv.Messages))
	prevAssistant := false

	for _, m := range conv.Messages {
		var kind model.FlowEventKind
		switch {
		case m.Role == model.RoleUser:
			kind = model.FlowUserMessage
			prevAssistant = false
		case m.Role == model.RoleAssistant && prevAssistant:
			kind = model.FlowAIContinuation
		case m.Role == model.RoleAssistant:
			kind = model.FlowAIMessage
			prevAssistant = true
		default:
			prevAssistant = false
			continue
		}

		events = append(events, model.FlowEvent{
			Timestamp: m.Timestamp,
			MessageID: m.ID,
			Role:      m.Role,
			Kind:      kind,
		})
	}

	return events
}
