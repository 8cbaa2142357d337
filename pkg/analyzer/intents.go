package analyzer

import (
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// ExtractUserIntents scans user messages for imperative-mood
// statements and question forms, inferring priority from the shared
// pattern table's keyword hits (spec §4.4 "User-intent extractor").
func ExtractUserIntents(conv model.Conversation) []model.UserIntent {
	pt := SharedPatternTable()
	var intents []model.UserIntent

	for _, m := range conv.Messages {
		if m.Role != model.RoleUser {
			continue
		}
		for _, sentence := range splitSentences(m.Content) {
			if !isImperative(sentence) && !isQuestion(sentence) {
				continue
			}
			priority := model.PriorityMedium
			if pt.HasCategory(sentence, CategoryIntentCritical) {
				priority = model.PriorityCritical
			}
			text, meta := truncate(sentence, 200)
			intents = append(intents, model.UserIntent{
				Timestamp: m.Timestamp,
				Text:      text,
				Priority:  priority,
				Meta:      meta,
			})
		}
	}

	return dedupByText(intents,
		func(i model.UserIntent) string { return i.Text },
		func(i model.UserIntent) time.Time { return i.Timestamp },
	)
}
