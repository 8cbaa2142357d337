package analyzer

import (
	"testing"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func TestExtractAIActions_MatchesKnownVerbs(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleAssistant, "I implemented the retry logic. I also fixed the timeout bug."),
	)

	actions := ExtractAIActions(conv)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d: %+v", len(actions), actions)
	}
	if actions[0].ActionType != "implemented" {
		t.Errorf("expected first action type 'implemented', got %q", actions[0].ActionType)
	}
	if actions[1].ActionType != "fixed" {
		t.Errorf("expected second action type 'fixed', got %q", actions[1].ActionType)
	}
}

func TestExtractAIActions_AliasesNormalize(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleAssistant, "I removed the dead code."),
		testMsg("m2", t1.Add(time.Minute), model.RoleAssistant, "I renamed the config field."),
	)

	actions := ExtractAIActions(conv)
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[0].ActionType != "deleted" {
		t.Errorf("expected 'removed' to alias to 'deleted', got %q", actions[0].ActionType)
	}
	if actions[1].ActionType != "updated" {
		t.Errorf("expected 'renamed' to alias to 'updated', got %q", actions[1].ActionType)
	}
}

func TestExtractAIActions_IgnoresUserMessages(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleUser, "I implemented the retry logic myself."),
	)
	if actions := ExtractAIActions(conv); len(actions) != 0 {
		t.Fatalf("expected no actions from a user message, got %d", len(actions))
	}
}

func TestExtractAIActions_NoVerbNoMatch(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleAssistant, "Looking into this now."),
	)
	if actions := ExtractAIActions(conv); len(actions) != 0 {
		t.Fatalf("expected no actions without a recognized verb, got %d", len(actions))
	}
}
