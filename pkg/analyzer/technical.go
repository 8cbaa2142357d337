package analyzer

import (
	"regexp"
	"strings"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// filePathPattern matches a plausible source file path: at least one
// '/' and a recognized extension (spec §4.4 "file paths (anything
// containing / and a typical source extension)").
var filePathPattern = regexp.MustCompile(`(?:[\w.\-]+/)+[\w.\-]+\.(?:go|ts|tsx|js|jsx|py|rs|java|rb|c|h|cpp|hpp|yaml|yml|json|toml|md)\b`)

// shellCommandPattern matches a shell-prompt-marked command line: '$'
// or '>' at the start of a line, optionally indented.
var shellCommandPattern = regexp.MustCompile(`(?m)^\s*[$>]\s+\S`)

var codeFencePattern = regexp.MustCompile("```")

var testRunnerPatterns = SharedPatternTable()

// statusPhrases maps a work-status keyword to the WorkStatus it
// implies, checked in this fixed order so "failed" (more specific
// than a bare past-tense verb) wins over a looser "completed" guess.
var statusPhrases = []struct {
	phrase string
	status model.WorkStatus
}{
	{"failed", model.WorkFailed},
	{"error", model.WorkFailed},
	{"broke", model.WorkFailed},
	{"completed", model.WorkCompleted},
	{"done", model.WorkCompleted},
	{"passed", model.WorkCompleted},
	{"working on", model.WorkInProgress},
	{"in progress", model.WorkInProgress},
	{"plan to", model.WorkPlanned},
	{"will", model.WorkPlanned},
	{"going to", model.WorkPlanned},
}

// ExtractTechnicalWork pattern-matches file paths, code fences, shell
// commands, and test-runner keywords across every message, emitting a
// work item per hit with a status guess (spec §4.4 "Technical-work
// extractor").
func ExtractTechnicalWork(conv model.Conversation) []model.TechnicalWork {
	var items []model.TechnicalWork

	for _, m := range conv.Messages {
		var hits []string
		hits = append(hits, filePathPattern.FindAllString(m.Content, -1)...)
		if codeFencePattern.MatchString(m.Content) {
			hits = append(hits, "code fence")
		}
		hits = append(hits, shellCommandPattern.FindAllString(m.Content, -1)...)
		if testRunnerPatterns.HasCategory(m.Content, CategoryTestRunner) {
			hits = append(hits, "test run")
		}
		if len(hits) == 0 {
			continue
		}

		for _, sentence := range splitSentences(m.Content) {
			if !sentenceHasTechnicalSignal(sentence, hits) {
				continue
			}
			text, meta := truncate(sentence, 300)
			items = append(items, model.TechnicalWork{
				Timestamp: m.Timestamp,
				Text:      text,
				Status:    guessStatus(sentence),
				Meta:      meta,
			})
		}
	}

	return dedupByText(items,
		func(w model.TechnicalWork) string { return w.Text },
		func(w model.TechnicalWork) time.Time { return w.Timestamp },
	)
}

// sentenceHasTechnicalSignal reports whether sentence itself carries
// one of the message-level hits: a file path or shell-command match
// found verbatim in the sentence, or a code fence / test-runner
// keyword appearing directly in the sentence.
func sentenceHasTechnicalSignal(sentence string, hits []string) bool {
	for _, h := range hits {
		if h == "code fence" || h == "test run" {
			continue
		}
		if strings.Contains(sentence, h) {
			return true
		}
	}
	return codeFencePattern.MatchString(sentence) || testRunnerPatterns.HasCategory(sentence, CategoryTestRunner)
}

func guessStatus(sentence string) model.WorkStatus {
	lower := strings.ToLower(sentence)
	for _, sp := range statusPhrases {
		if strings.Contains(lower, sp.phrase) {
			return sp.status
		}
	}
	return model.WorkInProgress
}
