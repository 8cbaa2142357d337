// Package analyzer implements the six independent extractors that
// reduce a Conversation to an Analysis (spec §4.4): user intents, AI
// actions, technical work, decisions, flow events, and working state.
package analyzer

import (
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// Category tags which extractor a pattern feeds.
type Category string

const (
	CategoryIntentCritical  Category = "intent_critical"
	CategoryIntentQuestion  Category = "intent_question"
	CategoryBlocker         Category = "blocker"
	CategoryDecisionPhrase  Category = "decision_phrase"
	CategoryImpactCritical  Category = "impact_critical"
	CategoryImpactHigh      Category = "impact_high"
	CategoryTestRunner      Category = "test_runner"
)

// PatternRecord is one row of the deterministic (pattern, priority,
// category, truncation-bound) table spec §9 calls for. Priority
// disambiguates overlapping matches within the same category; the
// table is evaluated in the fixed order it was built in, never by
// map iteration (spec §9 "table of pattern records evaluated in a
// deterministic order").
type PatternRecord struct {
	Pattern       string
	Category      Category
	Priority      model.Priority
	TruncateBound int
}

// patternTable is the fixed, ordered list backing the single
// Aho-Corasick automaton shared by every extractor that does
// keyword-table scanning (spec §9; grounded on the teacher's
// implicit-matcher dictionary, generalized from entity surface forms
// to conversation-analysis keyword phrases).
var patternTable = []PatternRecord{
	{Pattern: "critical", Category: CategoryIntentCritical, Priority: model.PriorityCritical, TruncateBound: 200},
	{Pattern: "blocker", Category: CategoryIntentCritical, Priority: model.PriorityCritical, TruncateBound: 200},
	{Pattern: "blocked", Category: CategoryIntentCritical, Priority: model.PriorityCritical, TruncateBound: 200},
	{Pattern: "urgent", Category: CategoryIntentCritical, Priority: model.PriorityCritical, TruncateBound: 200},
	{Pattern: "blocked by", Category: CategoryBlocker, Priority: model.PriorityHigh, TruncateBound: 200},
	{Pattern: "blocking on", Category: CategoryBlocker, Priority: model.PriorityHigh, TruncateBound: 200},
	{Pattern: "waiting on", Category: CategoryBlocker, Priority: model.PriorityHigh, TruncateBound: 200},
	{Pattern: "stuck on", Category: CategoryBlocker, Priority: model.PriorityHigh, TruncateBound: 200},
	{Pattern: "we decided to", Category: CategoryDecisionPhrase, Priority: model.PriorityMedium, TruncateBound: 200},
	{Pattern: "let's use", Category: CategoryDecisionPhrase, Priority: model.PriorityMedium, TruncateBound: 200},
	{Pattern: "the approach is", Category: CategoryDecisionPhrase, Priority: model.PriorityMedium, TruncateBound: 200},
	{Pattern: "chose", Category: CategoryDecisionPhrase, Priority: model.PriorityMedium, TruncateBound: 200},
	{Pattern: "selected", Category: CategoryDecisionPhrase, Priority: model.PriorityMedium, TruncateBound: 200},
	{Pattern: "architecture", Category: CategoryImpactCritical, Priority: model.PriorityCritical, TruncateBound: 0},
	{Pattern: "security", Category: CategoryImpactCritical, Priority: model.PriorityCritical, TruncateBound: 0},
	{Pattern: "feature", Category: CategoryImpactHigh, Priority: model.PriorityHigh, TruncateBound: 0},
	{Pattern: "component", Category: CategoryImpactHigh, Priority: model.PriorityHigh, TruncateBound: 0},
	{Pattern: "npm test", Category: CategoryTestRunner, Priority: model.PriorityMedium, TruncateBound: 0},
	{Pattern: "go test", Category: CategoryTestRunner, Priority: model.PriorityMedium, TruncateBound: 0},
	{Pattern: "pytest", Category: CategoryTestRunner, Priority: model.PriorityMedium, TruncateBound: 0},
	{Pattern: "jest", Category: CategoryTestRunner, Priority: model.PriorityMedium, TruncateBound: 0},
}

// PatternTable wraps a single Aho-Corasick automaton built over every
// pattern in patternTable, so any extractor can run one O(n) scan
// instead of N separate substring searches (spec §9).
type PatternTable struct {
	ac       *ahocorasick.Automaton
	patterns []PatternRecord
}

var sharedPatternTable *PatternTable

// SharedPatternTable lazily builds and caches the module-wide pattern
// automaton. It is read-only once built (the pattern table is a fixed
// literal, never mutated at runtime), so sharing it across goroutines
// is safe without additional synchronization.
func SharedPatternTable() *PatternTable {
	if sharedPatternTable != nil {
		return sharedPatternTable
	}
	pt, err := buildPatternTable(patternTable)
	if err != nil {
		// patternTable is a fixed compile-time literal; a build failure
		// here means a programming error, not a runtime condition.
		panic(err)
	}
	sharedPatternTable = pt
	return sharedPatternTable
}

func buildPatternTable(records []PatternRecord) (*PatternTable, error) {
	patterns := make([]string, len(records))
	for i, r := range records {
		patterns[i] = canonicalize(r.Pattern)
	}
	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		Build()
	if err != nil {
		return nil, err
	}
	return &PatternTable{ac: ac, patterns: records}, nil
}

// PatternMatch is one keyword hit in a message's text.
type PatternMatch struct {
	Record PatternRecord
	Start  int
	End    int
}

// Scan canonicalizes text and returns every pattern hit, in the order
// the automaton finds them (left to right; the automaton's
// LeftmostLongest match kind resolves overlaps deterministically).
func (pt *PatternTable) Scan(text string) []PatternMatch {
	canon := canonicalize(text)
	hits := pt.ac.FindAllOverlapping([]byte(canon))

	matches := make([]PatternMatch, 0, len(hits))
	for _, h := range hits {
		if h.PatternID < 0 || h.PatternID >= len(pt.patterns) {
			continue
		}
		matches = append(matches, PatternMatch{
			Record: pt.patterns[h.PatternID],
			Start:  h.Start,
			End:    h.End,
		})
	}
	return matches
}

// HasCategory reports whether text matched any pattern tagged cat.
func (pt *PatternTable) HasCategory(text string, cat Category) bool {
	for _, m := range pt.Scan(text) {
		if m.Record.Category == cat {
			return true
		}
	}
	return false
}

// canonicalize lowercases and collapses whitespace runs so multiword
// patterns ("we decided to") match regardless of surrounding
// formatting, mirroring the teacher's CanonicalizeForMatch but scoped
// to keyword-phrase scanning rather than entity-name scanning.
func canonicalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := true
	for _, r := range s {
		c := unicode.ToLower(r)
		if unicode.IsSpace(c) {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteRune(c)
		lastWasSpace = false
	}
	return strings.TrimSuffix(b.String(), " ")
}
