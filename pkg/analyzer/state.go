package analyzer

import "github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"

// ExtractWorkingState reduces a conversation to a single snapshot: what
// the user is currently working on, any open blockers, the next
// concrete action, and a completion ratio over technical-work items (spec §4.4
// "Working-state extractor").
func ExtractWorkingState(conv model.Conversation, intents []model.UserIntent, technicalWork []model.TechnicalWork) model.WorkingState {
	pt := SharedPatternTable()

	state := model.WorkingState{}

	if len(intents) > 0 {
		state.WorkingOn = intents[len(intents)-1].Text
	}

	state.Blockers = recentBlockers(conv, pt, 3)
	state.NextAction = nextAction(conv)
	state.Progress = completionRatio(technicalWork)

	return state
}

// recentBlockers returns up to max blocker-pattern sentences, most
// recent first, scanning every message in conversation order.
func recentBlockers(conv model.Conversation, pt *PatternTable, max int) []string {
	var hits []string
	for _, m := range conv.Messages {
		for _, sentence := range splitSentences(m.Content) {
			if pt.HasCategory(sentence, CategoryBlocker) {
				text, _ := truncate(sentence, 200)
				hits = append(hits, text)
			}
		}
	}
	if len(hits) == 0 {
		return nil
	}
	// reverse into most-recent-first order, capped at max
	out := make([]string, 0, max)
	for i := len(hits) - 1; i >= 0 && len(out) < max; i-- {
		out = append(out, hits[i])
	}
	return out
}

// nextAction returns the most recent imperative sentence in the
// conversation, from either role, or "" if none was found.
func nextAction(conv model.Conversation) string {
	last := ""
	for _, m := range conv.Messages {
		for _, sentence := range splitSentences(m.Content) {
			if isImperative(sentence) {
				text, _ := truncate(sentence, 200)
				last = text
			}
		}
	}
	return last
}

// completionRatio is the fraction of technical-work items marked
// completed over the total number of tracked items, 0 when there are
// none.
func completionRatio(items []model.TechnicalWork) float64 {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, w := range items {
		if w.Status == model.WorkCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(items))
}
