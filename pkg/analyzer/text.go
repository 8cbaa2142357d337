package analyzer

import (
	"strings"
	"unicode"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// splitSentences breaks text on '.', '?', '!', and '\n' (spec §4.4
// "Sentence splitting respects . ? ! \n"), returning trimmed,
// non-empty sentences. A '.' only ends a sentence when followed by
// whitespace or end-of-string, so it doesn't fire mid-word inside a
// file name or extension (e.g. "actions.go" or "e.g.").
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	var b strings.Builder
	for i, r := range runes {
		b.WriteRune(r)
		switch r {
		case '?', '!', '\n':
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		case '.':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(b.String()); s != "" {
					sentences = append(sentences, s)
				}
				b.Reset()
			}
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// truncate bounds s at maxLen runes, preferring to break on a word
// boundary; if no word boundary exists before maxLen, breaks at the
// rune boundary instead. Operates on runes throughout so multi-byte
// UTF-8 content (accented text, emoji) never gets sliced mid-codepoint.
// Returns the (possibly shortened) string, with "..." appended when
// shortened, and an EntryMeta recording whether truncation happened
// (spec §4.4 "Length bounds").
func truncate(s string, maxLen int) (string, model.EntryMeta) {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s, model.EntryMeta{Truncated: false}
	}

	cut := maxLen
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}

	return strings.TrimSpace(string(runes[:cut])) + "...", model.EntryMeta{Truncated: true}
}

// collapseWhitespace is the canonical form used for within-category
// deduplication: trims outer whitespace and collapses internal runs to
// a single space (spec §4.4 "Deduplication within extractor outputs").
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
