package analyzer

import (
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"
)

// pos is a coarse part-of-speech tag, adapted from the teacher's
// narrative tagger down to the handful of categories the
// imperative-mood heuristic needs: is the sentence's first content
// word a base-form verb ("fix the bug") or something else ("the bug
// is still there")?
type pos int

const (
	posOther pos = iota
	posVerb
	posNoun
	posDeterminer
	posPronoun
	posModal
)

// imperativeLexicon lists base-form verbs common in software-work
// requests, the domain analogue of the teacher's narrative-verb
// lexicon (fight/rule/serve/attack) used the same way: a baseline
// dictionary lookup before falling back to suffix heuristics.
var imperativeLexicon = map[string]pos{
	"fix": posVerb, "add": posVerb, "implement": posVerb, "refactor": posVerb,
	"create": posVerb, "remove": posVerb, "delete": posVerb, "update": posVerb,
	"run": posVerb, "check": posVerb, "test": posVerb, "use": posVerb,
	"make": posVerb, "write": posVerb, "build": posVerb, "change": posVerb,
	"try": posVerb, "investigate": posVerb, "review": posVerb, "document": posVerb,
	"deploy": posVerb, "debug": posVerb, "configure": posVerb, "install": posVerb,
	"move": posVerb, "rename": posVerb, "split": posVerb, "merge": posVerb,
	"revert": posVerb, "ensure": posVerb, "verify": posVerb, "handle": posVerb,
	"can": posModal, "could": posModal, "will": posModal, "would": posModal,
	"should": posModal, "must": posModal,
	"the": posDeterminer, "a": posDeterminer, "an": posDeterminer, "this": posDeterminer, "that": posDeterminer,
	"i": posPronoun, "you": posPronoun, "we": posPronoun, "it": posPronoun, "they": posPronoun,
}

var stopwordChecker = stopwords.MustGet("en")

// firstContentWord returns the lowercased first word of the sentence
// that is not a stopword ("please", "just", ...), skipping leading
// punctuation. Falls back to the bare first word when every word is a
// stopword, so a sentence of only filler words still gets tagged.
func firstContentWord(sentence string) string {
	for _, w := range strings.Fields(strings.ToLower(sentence)) {
		clean := strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		if clean == "" {
			continue
		}
		if stopwordChecker != nil && stopwordChecker.Contains(clean) {
			continue
		}
		return clean
	}
	return firstWord(sentence)
}

func firstWord(sentence string) string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimFunc(words[0], func(r rune) bool { return !unicode.IsLetter(r) }))
}

func tagWord(word string) pos {
	if word == "" {
		return posOther
	}
	if p, ok := imperativeLexicon[word]; ok {
		return p
	}
	if strings.HasSuffix(word, "ing") || strings.HasSuffix(word, "ed") {
		return posVerb
	}
	return posNoun
}

// isImperative reports whether sentence reads as an imperative-mood
// software-work request: it begins (after stopword/punctuation
// trimming) with a base-form verb, e.g. "fix the flaky test" or
// "please refactor the parser". Sentences starting with a pronoun,
// determiner, or modal ("I think...", "the bug is...", "we should...")
// are not imperative by this heuristic (spec §4.4 "imperative-mood
// statements").
func isImperative(sentence string) bool {
	word := firstContentWord(sentence)
	return tagWord(word) == posVerb
}

// isQuestion reports whether sentence is a question form (spec §4.4
// "...and question forms").
func isQuestion(sentence string) bool {
	s := strings.TrimSpace(sentence)
	return strings.HasSuffix(s, "?")
}
