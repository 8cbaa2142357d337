package sqliteapp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

const parserName = "sqliteapp.parser"

// Parse maps one database row to a Message, preserving the row's own
// timestamp column (spec §4.2). Content that is a JSON array of
// structured blocks is flattened via the shared block rules; a plain
// string column has its backslash escapes decoded and is otherwise
// used as-is.
func Parse(row Row, loc *time.Location) (model.Message, error) {
	role, err := parseRole(row.Role)
	if err != nil {
		return model.Message{}, fmt.Errorf("%s: row %d: %w", parserName, row.ID, err)
	}

	ts, err := parseRowTimestamp(row.Timestamp, loc)
	if err != nil {
		return model.Message{}, fmt.Errorf("%s: row %d: %w", parserName, row.ID, err)
	}

	content := flattenContent(row.Content)

	return parserutil.NewMessage(
		strconv.FormatInt(row.ID, 10), row.ConversationID, ts, role, content,
		model.SourceSQLiteApp, parserName, nil,
	), nil
}

func parseRole(raw string) (model.Role, error) {
	switch strings.ToLower(raw) {
	case "user", "human":
		return model.RoleUser, nil
	case "assistant", "ai", "model":
		return model.RoleAssistant, nil
	default:
		return "", fmt.Errorf("unrecognized role %q", raw)
	}
}

// parseRowTimestamp accepts either a unix epoch (seconds or
// milliseconds, as many desktop apps store INTEGER created_at columns)
// or an ISO-8601 string.
func parseRowTimestamp(raw string, loc *time.Location) (time.Time, error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1_000_000_000_000 { // milliseconds
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return parserutil.NormalizeTimestamp(raw, loc)
}

// structuredBlock mirrors the JSON shape a content column may encode:
// [{"type":"paragraph","text":"..."},{"type":"code","language":"go","text":"..."}]
type structuredBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

func flattenContent(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed[0] != '[' {
		return parserutil.DecodeEscapes(raw)
	}

	var structured []structuredBlock
	if err := json.Unmarshal([]byte(trimmed), &structured); err != nil {
		return parserutil.DecodeEscapes(raw)
	}

	blocks := make([]parserutil.ContentBlock, 0, len(structured))
	for _, b := range structured {
		switch b.Type {
		case "paragraph", "text":
			blocks = append(blocks, parserutil.ContentBlock{Kind: parserutil.BlockParagraph, Text: b.Text})
		case "code", "preformatted":
			blocks = append(blocks, parserutil.ContentBlock{Kind: parserutil.BlockCode, Language: b.Language, Text: b.Text})
		case "list":
			blocks = append(blocks, parserutil.ContentBlock{Kind: parserutil.BlockList, Text: b.Text})
		case "table":
			blocks = append(blocks, parserutil.ContentBlock{Kind: parserutil.BlockTable, Text: b.Text})
		}
	}
	return parserutil.AssembleContent(blocks)
}
