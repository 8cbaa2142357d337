package kvstore

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

const parserName = "kvstore.parser"

// synthesizedConversationWindow is the grouping window used when a
// record carries no conversationId (spec §4.2).
const synthesizedConversationWindow = 30 * time.Minute

// fieldPattern captures one `"name": "value"` pair with a
// double-quoted, escaped-JSON-string value, the shape the store's
// values are serialized in. The value side stops at an unescaped
// closing quote.
var fieldPattern = func(name string) *regexp.Regexp {
	return regexp.MustCompile(`"` + regexp.QuoteMeta(name) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
}

var (
	requestMessagePattern = fieldPattern("request_message")
	responseTextPattern   = fieldPattern("response_text")
	conversationIDPattern = fieldPattern("conversationId")
	timestampPattern      = fieldPattern("timestamp")
)

// entry is one parsed record before conversation-id resolution.
type entry struct {
	key            string
	requestMessage string
	responseText   string
	conversationID string
	timestamp      time.Time
}

// scan extracts the fields this parser cares about from one raw
// record value. Returns an error if neither request_message nor
// response_text is present — such a record isn't a conversation turn
// and the reader should not have yielded it, but the parser still
// defends against it (spec §4.2 "malformed entries are skipped").
func scan(rec Record, loc *time.Location) (entry, error) {
	raw := string(rec.Value)

	reqMatch := requestMessagePattern.FindStringSubmatch(raw)
	respMatch := responseTextPattern.FindStringSubmatch(raw)
	if reqMatch == nil && respMatch == nil {
		return entry{}, fmt.Errorf("%s: no request_message or response_text field in %s", parserName, rec.Key)
	}

	e := entry{key: rec.Key}
	if reqMatch != nil {
		e.requestMessage = parserutil.DecodeEscapes(reqMatch[1])
	}
	if respMatch != nil {
		e.responseText = parserutil.DecodeEscapes(respMatch[1])
	}
	if m := conversationIDPattern.FindStringSubmatch(raw); m != nil {
		e.conversationID = m[1]
	}

	tsStr := ""
	if m := timestampPattern.FindStringSubmatch(raw); m != nil {
		tsStr = m[1]
	}
	if tsStr == "" {
		return entry{}, fmt.Errorf("%s: record %s has no timestamp", parserName, rec.Key)
	}
	ts, err := parserutil.NormalizeTimestamp(tsStr, loc)
	if err != nil {
		return entry{}, fmt.Errorf("%s: %w", parserName, err)
	}
	e.timestamp = ts
	return e, nil
}

// Parse converts a batch of raw records from one workspace into
// Messages. Records with an explicit conversationId use it directly;
// the rest are grouped into synthesized conversations by clustering
// consecutive-by-timestamp entries within a 30-minute window (spec
// §4.2). skipped counts records that failed to scan.
func Parse(records []Record, workspaceID string, loc *time.Location) (msgs []model.Message, skipped int) {
	entries := make([]entry, 0, len(records))
	for _, rec := range records {
		e, err := scan(rec, loc)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].timestamp.Before(entries[j].timestamp) })
	assignSynthesizedIDs(entries, workspaceID)

	for _, e := range entries {
		if e.requestMessage != "" {
			msgs = append(msgs, parserutil.NewMessage(
				e.key+":request", e.conversationID, e.timestamp, model.RoleUser, e.requestMessage,
				model.SourceKVStore, parserName, map[string]string{"workspace": workspaceID},
			))
		}
		if e.responseText != "" {
			msgs = append(msgs, parserutil.NewMessage(
				e.key+":response", e.conversationID, e.timestamp, model.RoleAssistant, e.responseText,
				model.SourceKVStore, parserName, map[string]string{"workspace": workspaceID},
			))
		}
	}
	return msgs, skipped
}

// assignSynthesizedIDs fills in e.conversationID for every entry that
// lacks one, by clustering consecutive (already timestamp-sorted)
// entries from the same workspace into windows no wider than
// synthesizedConversationWindow between adjacent messages.
func assignSynthesizedIDs(entries []entry, workspaceID string) {
	var currentID string
	var windowStart time.Time

	for i := range entries {
		if entries[i].conversationID != "" {
			continue
		}
		if currentID == "" || entries[i].timestamp.Sub(windowStart) > synthesizedConversationWindow {
			currentID = "synth-" + workspaceID + "-" + uuid.NewString()
		}
		windowStart = entries[i].timestamp
		entries[i].conversationID = currentID
	}
}
