package parserutil

import (
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// NewMessage constructs a Message, always filling id, conversation id,
// timestamp, role, content, metadata.source and metadata.extracted_from
// (spec §4.2 "Message construction"). extra carries any additional
// source-specific metadata the parser wants to reserve (not required,
// never overwritten by this helper); nil is fine.
func NewMessage(
	id, conversationID string,
	timestamp time.Time,
	role model.Role,
	content string,
	source model.Source,
	extractedFrom string,
	extra map[string]string,
) model.Message {
	meta := make(map[string]string, len(extra)+2)
	for k, v := range extra {
		meta[k] = v
	}
	meta[model.MetaSource] = string(source)
	meta[model.MetaExtractedFrom] = extractedFrom

	return model.Message{
		ID:             id,
		ConversationID: conversationID,
		Timestamp:      timestamp.UTC(),
		Role:           role,
		Content:        content,
		Metadata:       meta,
	}
}
