package analyzer

import (
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func testMsg(id string, ts time.Time, role model.Role, content string) model.Message {
	return model.Message{
		ID:             id,
		ConversationID: "c1",
		Timestamp:      ts,
		Role:           role,
		Content:        content,
		Metadata: map[string]string{
			model.MetaSource: string(model.SourceJSONLCLI),
		},
	}
}

func testConv(messages ...model.Message) model.Conversation {
	return model.BuildConversation("c1", messages)
}
