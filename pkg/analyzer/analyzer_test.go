package analyzer

import (
	"testing"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func TestAnalyze_AssemblesAllSixDimensions(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleUser, "Fix the critical login bug"),
		testMsg("m2", t1.Add(time.Minute), model.RoleAssistant, "I implemented a fix in pkg/auth/login.go"),
		testMsg("m3", t1.Add(2*time.Minute), model.RoleAssistant, "We decided to use a token blacklist. It keeps revocation simple."),
	)
	now := t1.Add(time.Hour)

	a := Analyze(conv, now)

	if a.ConversationID != conv.ID {
		t.Errorf("expected ConversationID %q, got %q", conv.ID, a.ConversationID)
	}
	if !a.GeneratedAt.Equal(now) {
		t.Errorf("expected GeneratedAt %v, got %v", now, a.GeneratedAt)
	}
	if len(a.UserIntents) == 0 {
		t.Error("expected at least one user intent")
	}
	if len(a.AIActions) == 0 {
		t.Error("expected at least one AI action")
	}
	if len(a.TechnicalWork) == 0 {
		t.Error("expected at least one technical-work item")
	}
	if len(a.Decisions) == 0 {
		t.Error("expected at least one decision")
	}
	if len(a.FlowEvents) != 3 {
		t.Errorf("expected 3 flow events, got %d", len(a.FlowEvents))
	}
	if a.WorkingState.WorkingOn == "" {
		t.Error("expected a non-empty working-on field")
	}
}

func TestAnalyze_EmptyConversationYieldsEmptyAnalysis(t *testing.T) {
	conv := testConv()
	a := Analyze(conv, time.Now())
	if len(a.UserIntents) != 0 || len(a.AIActions) != 0 || len(a.TechnicalWork) != 0 ||
		len(a.Decisions) != 0 || len(a.FlowEvents) != 0 {
		t.Errorf("expected all extractor outputs empty, got %+v", a)
	}
	if a.WorkingState.Progress != 0 {
		t.Errorf("expected zero progress for empty conversation, got %v", a.WorkingState.Progress)
	}
}
