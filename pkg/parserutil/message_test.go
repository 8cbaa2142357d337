package parserutil

import (
	"testing"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func TestNewMessage_FillsRequiredMetadata(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 42, 23, 0, time.UTC)
	m := NewMessage("A", "S1", ts, model.RoleUser, "hi", model.SourceJSONLCLI, "jsonllog.parser", nil)

	if m.Metadata[model.MetaSource] != string(model.SourceJSONLCLI) {
		t.Errorf("metadata.source = %q", m.Metadata[model.MetaSource])
	}
	if m.Metadata[model.MetaExtractedFrom] != "jsonllog.parser" {
		t.Errorf("metadata.extracted_from = %q", m.Metadata[model.MetaExtractedFrom])
	}
	if err := m.Validate(ts.Add(time.Minute)); err != nil {
		t.Errorf("constructed message should validate: %v", err)
	}
}

func TestNewMessage_PreservesExtraMetadata(t *testing.T) {
	m := NewMessage("A", "S1", time.Now(), model.RoleUser, "hi", model.SourceJSONLCLI, "p",
		map[string]string{"cwd": "/home"})
	if m.Metadata["cwd"] != "/home" {
		t.Errorf("expected extra metadata preserved, got %v", m.Metadata)
	}
}
