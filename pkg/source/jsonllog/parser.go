package jsonllog

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/parserutil"
)

// auxiliary metadata keys this parser captures from a log line, beyond
// the required metadata.source/metadata.extracted_from pair (spec §4.2
// "Auxiliary fields").
const (
	metaCWD         = "cwd"
	metaBranch      = "branch"
	metaTokenUsage  = "token_usage"
	metaSessionFile = "session_file"
)

const parserName = "jsonllog.parser"

// Parse converts one raw log line into a Message. The role is read
// from the nested "message.role" path, never from a top-level "role"
// field — CLI agent logs often carry an outer record-type field also
// named "role" that belongs to the log envelope, not the conversation
// turn (spec §4.2). A "thinking" field, if present, is kept only in
// Metadata[model.MetaThinking] and never folded into Content.
//
// Lines whose assembled content is empty are dropped unless the record
// carries an explicit system marker (type == "system"), in which case
// an empty-content system Message is constructed instead of skipped.
func Parse(rec Record, loc *time.Location) (model.Message, error) {
	if !gjson.Valid(rec.Line) {
		return model.Message{}, fmt.Errorf("%s: invalid json in %s", parserName, rec.Path)
	}
	root := gjson.Parse(rec.Line)

	roleStr := root.Get("message.role").String()
	recordType := root.Get("type").String()

	var role model.Role
	switch roleStr {
	case "user":
		role = model.RoleUser
	case "assistant":
		role = model.RoleAssistant
	default:
		if recordType == "system" {
			role = model.RoleAssistant
		} else {
			return model.Message{}, fmt.Errorf("%s: unrecognized message.role %q", parserName, roleStr)
		}
	}

	id := firstNonEmpty(root.Get("uuid").String(), root.Get("id").String(), root.Get("messageId").String())
	if id == "" {
		return model.Message{}, fmt.Errorf("%s: record has no id/uuid", parserName)
	}

	conversationID := firstNonEmpty(root.Get("sessionId").String(), root.Get("conversationId").String(), rec.Path)

	tsStr := firstNonEmpty(root.Get("timestamp").String(), root.Get("message.timestamp").String())
	if tsStr == "" {
		return model.Message{}, fmt.Errorf("%s: record has no timestamp", parserName)
	}
	ts, err := parserutil.NormalizeTimestamp(tsStr, loc)
	if err != nil {
		return model.Message{}, fmt.Errorf("%s: %w", parserName, err)
	}

	content := assembleContent(root)

	extra := map[string]string{}
	if cwd := root.Get("cwd").String(); cwd != "" {
		extra[metaCWD] = cwd
	}
	if branch := root.Get("gitBranch").String(); branch != "" {
		extra[metaBranch] = branch
	}
	if usage := root.Get("message.usage"); usage.Exists() {
		extra[metaTokenUsage] = usage.Raw
	}
	if thinking := root.Get("message.thinking").String(); thinking != "" {
		extra[model.MetaThinking] = thinking
	}
	extra[metaSessionFile] = rec.Path

	if content == "" {
		if recordType != "system" {
			return model.Message{}, fmt.Errorf("%s: empty content without system marker", parserName)
		}
		extra[model.MetaMessageType] = model.MessageTypeSystem
	}

	return parserutil.NewMessage(id, conversationID, ts, role, content, model.SourceJSONLCLI, parserName, extra), nil
}

// assembleContent flattens the message.content field, which may be a
// plain string or an array of typed content blocks (text/tool_use/
// tool_result), into the shared block-rendering form (spec §4.2).
func assembleContent(root gjson.Result) string {
	c := root.Get("message.content")
	if !c.Exists() {
		return ""
	}
	if c.Type == gjson.String {
		return strings.TrimSpace(parserutil.DecodeEscapes(c.String()))
	}

	var blocks []parserutil.ContentBlock
	if c.IsArray() {
		for _, item := range c.Array() {
			switch item.Get("type").String() {
			case "text":
				blocks = append(blocks, parserutil.ContentBlock{
					Kind: parserutil.BlockParagraph,
					Text: parserutil.DecodeEscapes(item.Get("text").String()),
				})
			case "tool_use":
				blocks = append(blocks, parserutil.ContentBlock{
					Kind:     parserutil.BlockCode,
					Language: item.Get("name").String(),
					Text:     item.Get("input").Raw,
				})
			case "tool_result":
				blocks = append(blocks, parserutil.ContentBlock{
					Kind: parserutil.BlockParagraph,
					Text: parserutil.DecodeEscapes(flattenToolResult(item)),
				})
			}
		}
	}
	return parserutil.AssembleContent(blocks)
}

func flattenToolResult(item gjson.Result) string {
	content := item.Get("content")
	if content.Type == gjson.String {
		return content.String()
	}
	var parts []string
	for _, c := range content.Array() {
		if t := c.Get("text").String(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
