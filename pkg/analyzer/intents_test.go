package analyzer

import (
	"testing"
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func TestExtractUserIntents_ImperativeAndQuestion(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleUser, "Fix the login bug. What caused it?"),
		testMsg("m2", t1.Add(time.Minute), model.RoleAssistant, "I'll look into it."),
	)

	intents := ExtractUserIntents(conv)
	if len(intents) != 2 {
		t.Fatalf("expected 2 intents, got %d: %+v", len(intents), intents)
	}
	if intents[0].Text != "Fix the login bug." {
		t.Errorf("unexpected first intent text: %q", intents[0].Text)
	}
	if intents[1].Text != "What caused it?" {
		t.Errorf("unexpected second intent text: %q", intents[1].Text)
	}
}

func TestExtractUserIntents_CriticalPriorityFromPatternTable(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleUser, "Fix this critical bug now"),
	)
	intents := ExtractUserIntents(conv)
	if len(intents) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(intents))
	}
	if intents[0].Priority != model.PriorityCritical {
		t.Errorf("expected critical priority, got %q", intents[0].Priority)
	}
}

func TestExtractUserIntents_IgnoresAssistantMessages(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleAssistant, "Fix the login bug. What caused it?"),
	)
	if intents := ExtractUserIntents(conv); len(intents) != 0 {
		t.Fatalf("expected no intents from assistant message, got %d", len(intents))
	}
}

func TestExtractUserIntents_IgnoresStatements(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	conv := testConv(
		testMsg("m1", t1, model.RoleUser, "The bug is in the auth module."),
	)
	if intents := ExtractUserIntents(conv); len(intents) != 0 {
		t.Fatalf("expected no intents from a plain statement, got %d", len(intents))
	}
}
