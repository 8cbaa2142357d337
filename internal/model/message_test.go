package model

import (
	"testing"
	"time"
)

func validMessage(now time.Time) Message {
	return Message{
		ID:             "A",
		ConversationID: "S1",
		Timestamp:      now.Add(-time.Minute),
		Role:           RoleUser,
		Content:        "hello",
		Metadata: map[string]string{
			MetaSource:        string(SourceJSONLCLI),
			MetaExtractedFrom: "jsonllog.parser",
		},
	}
}

func TestMessage_Validate_OK(t *testing.T) {
	now := time.Now().UTC()
	if err := validMessage(now).Validate(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMessage_Validate_FutureTimestampBeyondSkew(t *testing.T) {
	now := time.Now().UTC()
	m := validMessage(now)
	m.Timestamp = now.Add(5 * time.Minute)
	if err := m.Validate(now); err == nil {
		t.Fatal("expected error for timestamp beyond clock-skew tolerance")
	}
}

func TestMessage_Validate_WithinSkewTolerance(t *testing.T) {
	now := time.Now().UTC()
	m := validMessage(now)
	m.Timestamp = now.Add(30 * time.Second)
	if err := m.Validate(now); err != nil {
		t.Fatalf("unexpected error within skew tolerance: %v", err)
	}
}

func TestMessage_Validate_BadRole(t *testing.T) {
	now := time.Now().UTC()
	m := validMessage(now)
	m.Role = "system"
	if err := m.Validate(now); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestMessage_Validate_EmptyContentRequiresSystemType(t *testing.T) {
	now := time.Now().UTC()
	m := validMessage(now)
	m.Content = ""
	if err := m.Validate(now); err == nil {
		t.Fatal("expected error for empty content without system message_type")
	}

	m.Metadata[MetaMessageType] = MessageTypeSystem
	if err := m.Validate(now); err != nil {
		t.Fatalf("unexpected error for system message with empty content: %v", err)
	}
}

func TestMessage_Validate_MissingMetadata(t *testing.T) {
	now := time.Now().UTC()
	m := validMessage(now)
	delete(m.Metadata, MetaSource)
	if err := m.Validate(now); err == nil {
		t.Fatal("expected error for missing metadata.source")
	}
}
