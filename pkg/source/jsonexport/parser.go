package jsonexport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

const parserName = "jsonexport.parser"

// document is the top-level shape: a `chats` array, each chat an
// ordered list of messages (spec §4.2).
type document struct {
	Chats []chat `json:"chats"`
}

type chat struct {
	ID       string    `json:"id"`
	Messages []message `json:"message"`
}

type message struct {
	ID        string  `json:"id"`
	Role      string  `json:"role"`
	Timestamp string  `json:"timestamp"`
	Content   []block `json:"content"`
}

type block struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Parse walks f's `chats` array in index order, flattening each
// chat's ordered content blocks per the shared rules, and returns the
// resulting Messages plus a skip count: unknown block types, and
// messages dropped for an unrecognized role or an unparseable timestamp.
func Parse(f File, loc *time.Location) (msgs []model.Message, skippedBlocks int, err error) {
	var doc document
	if err := json.Unmarshal(f.Data, &doc); err != nil {
		return nil, 0, fmt.Errorf("%s: %s: %w", parserName, f.Path, err)
	}

	for chatIdx, c := range doc.Chats {
		conversationID := c.ID
		if conversationID == "" {
			conversationID = fmt.Sprintf("%s-chat%d", f.Fingerprint[:12], chatIdx)
		}

		for msgIdx, m := range c.Messages {
			role, ok := parseRole(m.Role)
			if !ok {
				skippedBlocks++
				continue
			}

			blocks := make([]parserutil.ContentBlock, 0, len(m.Content))
			for _, b := range m.Content {
				pb, ok := toParserBlock(b)
				if !ok {
					skippedBlocks++
					continue
				}
				blocks = append(blocks, pb)
			}
			content := parserutil.AssembleContent(blocks)

			ts, tsErr := parserutil.NormalizeTimestamp(m.Timestamp, loc)
			if tsErr != nil {
				skippedBlocks++
				continue
			}

			id := m.ID
			if id == "" {
				id = fmt.Sprintf("%s-msg%d-%d", f.Fingerprint[:12], msgIdx, uuid.New().ID())
			}

			msgs = append(msgs, parserutil.NewMessage(
				id, conversationID, ts, role, content,
				model.SourceJSONExport, parserName,
				map[string]string{"exportFile": f.Path},
			))
		}
	}
	return msgs, skippedBlocks, nil
}

func parseRole(raw string) (model.Role, bool) {
	switch raw {
	case "user":
		return model.RoleUser, true
	case "assistant":
		return model.RoleAssistant, true
	default:
		return "", false
	}
}

func toParserBlock(b block) (parserutil.ContentBlock, bool) {
	switch b.Type {
	case "paragraph":
		return parserutil.ContentBlock{Kind: parserutil.BlockParagraph, Text: b.Text}, true
	case "preformatted", "code":
		return parserutil.ContentBlock{Kind: parserutil.BlockCode, Language: b.Language, Text: b.Text}, true
	case "ordered_list", "unordered_list", "list":
		return parserutil.ContentBlock{Kind: parserutil.BlockList, Text: b.Text}, true
	case "table":
		return parserutil.ContentBlock{Kind: parserutil.BlockTable, Text: b.Text}, true
	default:
		return parserutil.ContentBlock{}, false
	}
}
