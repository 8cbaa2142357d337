package writer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// RenderMarkdown renders a single Analysis as a human-readable
// document with a fixed section order (Overview, User Intents, AI
// Actions, Technical Work, Decisions, Flow, Working State). A section
// is omitted entirely when its source list is empty (spec §4.5). No
// HTML is emitted; the file ends with exactly one trailing newline.
func RenderMarkdown(a model.Analysis) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Conversation %s\n\n", a.ConversationID)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", a.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "- User intents: %d\n", len(a.UserIntents))
	fmt.Fprintf(&b, "- AI actions: %d\n", len(a.AIActions))
	fmt.Fprintf(&b, "- Technical work items: %d\n", len(a.TechnicalWork))
	fmt.Fprintf(&b, "- Decisions: %d\n", len(a.Decisions))
	b.WriteByte('\n')

	if len(a.UserIntents) > 0 {
		b.WriteString("## User Intents\n\n")
		for _, intent := range a.UserIntents {
			fmt.Fprintf(&b, "- `%s` **[%s]** %s\n", intent.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), intent.Priority, mdInline(intent.Text))
		}
		b.WriteByte('\n')
	}

	if len(a.AIActions) > 0 {
		b.WriteString("## AI Actions\n\n")
		for _, action := range a.AIActions {
			fmt.Fprintf(&b, "- `%s` **%s** %s\n", action.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), action.ActionType, mdInline(action.Text))
		}
		b.WriteByte('\n')
	}

	if len(a.TechnicalWork) > 0 {
		b.WriteString("## Technical Work\n\n")
		for _, w := range a.TechnicalWork {
			fmt.Fprintf(&b, "- `%s` **[%s]** %s\n", w.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), w.Status, mdBlock(w.Text))
		}
		b.WriteByte('\n')
	}

	if len(a.Decisions) > 0 {
		b.WriteString("## Decisions\n\n")
		for _, d := range a.Decisions {
			fmt.Fprintf(&b, "- `%s` **[%s]** %s\n", d.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), d.Impact, mdInline(d.Summary))
			if d.Reasoning != "" {
				fmt.Fprintf(&b, "  - Reasoning: %s\n", mdInline(d.Reasoning))
			}
		}
		b.WriteByte('\n')
	}

	if len(a.FlowEvents) > 0 {
		b.WriteString("## Flow\n\n")
		for _, f := range a.FlowEvents {
			fmt.Fprintf(&b, "- `%s` %s (%s)\n", f.Timestamp.UTC().Format("2006-01-02T15:04:05Z"), f.Kind, f.Role)
		}
		b.WriteByte('\n')
	}

	b.WriteString("## Working State\n\n")
	fmt.Fprintf(&b, "- Working on: %s\n", mdInline(a.WorkingState.WorkingOn))
	if len(a.WorkingState.Blockers) > 0 {
		b.WriteString("- Blockers:\n")
		for _, blocker := range a.WorkingState.Blockers {
			fmt.Fprintf(&b, "  - %s\n", mdInline(blocker))
		}
	}
	fmt.Fprintf(&b, "- Next action: %s\n", mdInline(a.WorkingState.NextAction))
	fmt.Fprintf(&b, "- Progress: %s\n", strconv.FormatFloat(a.WorkingState.Progress, 'f', 2, 64))

	out := strings.TrimRight(b.String(), "\n") + "\n"
	return []byte(out)
}

// mdInline escapes a string for inline rendering: backtick fences
// around content that itself contains a fenced code block are
// avoided by falling back to mdBlock, otherwise markdown control
// characters are neutralized with a backslash.
func mdInline(s string) string {
	if strings.Contains(s, "```") || strings.Contains(s, "\n") {
		return mdBlock(s)
	}
	replacer := strings.NewReplacer(
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
	)
	return replacer.Replace(s)
}

// mdBlock renders s as a fenced code block when it's long or itself
// contains a code fence, keeping source/path fragments and command
// output legible instead of mangled inline (spec §4.5 "long content is
// rendered as fenced blocks").
func mdBlock(s string) string {
	if len(s) <= 120 && !strings.Contains(s, "```") && !strings.Contains(s, "\n") {
		return mdInline(s)
	}
	return "\n\n```\n" + s + "\n```\n"
}
