package analyzer

import (
	"strings"
	"time"

	trie "github.com/derekparker/trie/v3"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// actionVerbs maps each verb-led action phrase the extractor looks
// for (spec §4.4 "implemented, fixed, created, added, refactored,
// deleted") to the action type tag it yields. Looked up via a trie
// rather than the shared Aho-Corasick pattern table because this
// extractor needs exact single-token matches keyed by their own verb
// identity, not category membership. `derekparker/trie/v3` rode along
// in the teacher's go.mod as an indirect dependency with no importer of
// its own; this is where it gets promoted to direct use.
var actionVerbs = map[string]string{
	"implemented": "implemented",
	"fixed":       "fixed",
	"created":     "created",
	"added":       "added",
	"refactored":  "refactored",
	"deleted":     "deleted",
	"removed":     "deleted",
	"updated":     "updated",
	"renamed":     "updated",
}

var actionTrie = buildActionTrie()

func buildActionTrie() *trie.Trie {
	t := trie.New()
	for verb, actionType := range actionVerbs {
		t.Add(verb, actionType)
	}
	return t
}

// ExtractAIActions scans assistant messages for verb-led action
// phrases, yielding one AIAction per sentence containing a recognized
// verb (spec §4.4 "AI-action extractor").
func ExtractAIActions(conv model.Conversation) []model.AIAction {
	var actions []model.AIAction
	for _, m := range conv.Messages {
		if m.Role != model.RoleAssistant {
			continue
		}
		for _, sentence := range splitSentences(m.Content) {
			actionType, ok := matchActionVerb(sentence)
			if !ok {
				continue
			}
			text, meta := truncate(sentence, 200)
			actions = append(actions, model.AIAction{
				Timestamp:  m.Timestamp,
				Text:       text,
				ActionType: actionType,
				Meta:       meta,
			})
		}
	}
	return dedupByText(actions,
		func(a model.AIAction) string { return a.Text },
		func(a model.AIAction) time.Time { return a.Timestamp },
	)
}

// matchActionVerb looks up each word of sentence in the verb trie,
// returning the action type of the first match found.
func matchActionVerb(sentence string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(sentence)) {
		clean := strings.Trim(word, ".,!?;:'\"()")
		if node, ok := actionTrie.Find(clean); ok {
			if actionType, ok := node.Meta().(string); ok {
				return actionType, true
			}
		}
	}
	return "", false
}
