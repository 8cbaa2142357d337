// Package writer generates the two on-disk projections of an Analysis
// (spec §4.5): the compact pipe-delimited AICF format for machine
// consumption, and a human-readable markdown document. Both are
// regenerated from scratch on every write and committed atomically.
package writer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// FormatVersion is the AICF schema version written into every
// artifact's header line (spec §4.5 "version|{spec-version}").
const FormatVersion = "1"

// Fixed AICF category keys, in the fixed write order spec §4.5
// requires.
const (
	keyVersion        = "version"
	keyTimestamp      = "timestamp"
	keyConversationID = "conversationId"
	keyUserIntent     = "userIntents"
	keyAIAction       = "aiActions"
	keyTechnicalWork  = "technicalWork"
	keyDecision       = "decisions"
	keyFlow           = "flow"
	keyWorkingState   = "workingState"
)

// categoryOrder is the fixed order extractor-output categories are
// written in, after the three header lines (spec §4.5 "Order of
// categories is fixed as listed").
var categoryOrder = []string{
	keyUserIntent,
	keyAIAction,
	keyTechnicalWork,
	keyDecision,
	keyFlow,
	keyWorkingState,
}

// Document is an AICF artifact's decoded form: the three header
// fields, plus every record grouped by category key. Consumer
// tolerance requires unknown keys be preserved verbatim on round-trip
// (spec §6 "Round-trip fidelity"), so Records keeps every line's raw
// fields regardless of whether this writer recognizes the key.
type Document struct {
	Version        string
	GeneratedAt    time.Time
	ConversationID string
	Records        map[string][][]string // category key -> ordered list of field-rows
}

// escapeField escapes the AICF field-separator character set: a
// literal backslash first (so later escapes aren't re-escaped), then
// pipe and newline (spec §4.5 "Embedded pipes in content are escaped
// as \|; embedded newlines as \n; backslashes as \\").
func escapeField(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// unescapeField is escapeField's inverse.
func unescapeField(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			b.WriteRune(r)
			continue
		}
		switch runes[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case '|':
			b.WriteByte('|')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, key string, fields ...string) {
	b.WriteString(key)
	for _, f := range fields {
		b.WriteByte('|')
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// RenderAICF serializes a single Analysis into the AICF text format:
// fixed three-line header, then each category's records in timestamp
// order, ending in exactly one trailing newline (spec §4.5).
func RenderAICF(a model.Analysis) []byte {
	var b strings.Builder

	writeLine(&b, keyVersion, FormatVersion)
	writeLine(&b, keyTimestamp, a.GeneratedAt.UTC().Format(time.RFC3339Nano))
	writeLine(&b, keyConversationID, a.ConversationID)

	for _, intent := range a.UserIntents {
		writeLine(&b, keyUserIntent, intent.Timestamp.UTC().Format(time.RFC3339Nano), string(intent.Priority), intent.Text)
	}
	for _, action := range a.AIActions {
		writeLine(&b, keyAIAction, action.Timestamp.UTC().Format(time.RFC3339Nano), action.ActionType, action.Text)
	}
	for _, w := range a.TechnicalWork {
		writeLine(&b, keyTechnicalWork, w.Timestamp.UTC().Format(time.RFC3339Nano), string(w.Status), w.Text)
	}
	for _, d := range a.Decisions {
		writeLine(&b, keyDecision, d.Timestamp.UTC().Format(time.RFC3339Nano), string(d.Impact), d.Summary, d.Reasoning)
	}
	for _, f := range a.FlowEvents {
		writeLine(&b, keyFlow, f.Timestamp.UTC().Format(time.RFC3339Nano), f.MessageID, string(f.Role), string(f.Kind))
	}
	writeLine(&b, keyWorkingState,
		a.WorkingState.WorkingOn,
		strings.Join(a.WorkingState.Blockers, "\x1f"),
		a.WorkingState.NextAction,
		strconv.FormatFloat(a.WorkingState.Progress, 'f', -1, 64),
	)

	return []byte(b.String())
}

// ParseAICF decodes an AICF document. A line that fails to parse
// aborts with a ParseError naming the 1-indexed line number (spec §6
// "Lines that fail to parse cause the reader to abort with a typed
// error and the filename and line number"); unknown keys are kept
// verbatim in Records so round-tripping never drops data (spec §6
// "Consumer tolerance: unknown keys are preserved").
func ParseAICF(path string, data []byte) (*Document, error) {
	doc := &Document{Records: make(map[string][][]string)}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	for i, line := range lines {
		if line == "" {
			continue
		}
		fields := splitUnescaped(line)
		if len(fields) == 0 {
			continue
		}
		key := fields[0]
		rest := fields[1:]

		switch key {
		case keyVersion:
			if len(rest) < 1 {
				return nil, lineErr(path, i, key, "missing version field")
			}
			doc.Version = rest[0]
		case keyTimestamp:
			if len(rest) < 1 {
				return nil, lineErr(path, i, key, "missing timestamp field")
			}
			ts, err := time.Parse(time.RFC3339Nano, rest[0])
			if err != nil {
				return nil, lineErr(path, i, key, err.Error())
			}
			doc.GeneratedAt = ts
		case keyConversationID:
			if len(rest) < 1 {
				return nil, lineErr(path, i, key, "missing conversationId field")
			}
			doc.ConversationID = rest[0]
		default:
			doc.Records[key] = append(doc.Records[key], rest)
		}
	}

	return doc, nil
}

func lineErr(path string, zeroIndexedLine int, key, reason string) error {
	return &model.ParseError{
		Source:   model.SourceGeneric,
		RecordID: fmt.Sprintf("%s:%d", path, zeroIndexedLine+1),
		Err:      fmt.Errorf("aicf key %q: %s", key, reason),
	}
}

// splitUnescaped splits line on unescaped '|' characters, respecting
// the \\ and \| escape sequences so an escaped pipe inside a field
// never looks like a separator.
func splitUnescaped(line string) []string {
	var fields []string
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) {
			b.WriteRune(r)
			b.WriteRune(runes[i+1])
			i++
			continue
		}
		if r == '|' {
			fields = append(fields, unescapeField(b.String()))
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	fields = append(fields, unescapeField(b.String()))
	return fields
}

// RenderDocument re-serializes a parsed Document, preserving any
// unrecognized category keys it carried (spec §6 "Round-trip
// fidelity"): parsing an artifact and rendering it back with no
// intermediate mutation reproduces the original bytes.
func RenderDocument(doc *Document) []byte {
	var b strings.Builder

	writeLine(&b, keyVersion, doc.Version)
	writeLine(&b, keyTimestamp, doc.GeneratedAt.UTC().Format(time.RFC3339Nano))
	writeLine(&b, keyConversationID, doc.ConversationID)

	for _, key := range sortedCategoryKeys(doc.Records) {
		for _, fields := range doc.Records[key] {
			writeLine(&b, key, fields...)
		}
	}

	return []byte(b.String())
}

// sortedCategoryKeys returns doc.Records' keys with every recognized
// category first (in categoryOrder), followed by any unrecognized keys
// in lexicographic order, so round-tripped unknown data still writes
// deterministically.
func sortedCategoryKeys(records map[string][][]string) []string {
	known := make(map[string]bool, len(categoryOrder))
	for _, k := range categoryOrder {
		known[k] = true
	}
	var extra []string
	for k := range records {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	out := make([]string, 0, len(categoryOrder)+len(extra))
	for _, k := range categoryOrder {
		if _, ok := records[k]; ok {
			out = append(out, k)
		}
	}
	out = append(out, extra...)
	return out
}
