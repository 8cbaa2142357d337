package analyzer

import (
	"strings"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// ExtractDecisions matches decision phrasing across every message,
// capturing a bounded summary, the following sentence as the
// reasoning (if present), and an impact estimate from keyword buckets
// (spec §4.4 "Decision extractor").
func ExtractDecisions(conv model.Conversation) []model.Decision {
	pt := SharedPatternTable()
	var decisions []model.Decision

	for _, m := range conv.Messages {
		sentences := splitSentences(m.Content)
		for i, sentence := range sentences {
			if !pt.HasCategory(sentence, CategoryDecisionPhrase) {
				continue
			}
			summary, meta := truncate(sentence, 200)

			reasoning := ""
			if i+1 < len(sentences) {
				reasoning = sentences[i+1]
			}

			decisions = append(decisions, model.Decision{
				Timestamp: m.Timestamp,
				Summary:   summary,
				Reasoning: reasoning,
				Impact:    impactOf(pt, sentence+" "+reasoning),
				Meta:      meta,
			})
		}
	}

	return dedupByText(decisions,
		func(d model.Decision) string { return d.Summary },
		func(d model.Decision) time.Time { return d.Timestamp },
	)
}

// impactOf buckets impact by keyword: architecture/security → critical;
// feature/component → high; anything else (style/comment and all
// other decisions) → medium (spec §4.4).
func impactOf(pt *PatternTable, text string) model.Priority {
	switch {
	case pt.HasCategory(text, CategoryImpactCritical):
		return model.PriorityCritical
	case pt.HasCategory(text, CategoryImpactHigh):
		return model.PriorityHigh
	case strings.Contains(strings.ToLower(text), "style") || strings.Contains(strings.ToLower(text), "comment"):
		return model.PriorityMedium
	default:
		return model.PriorityMedium
	}
}
