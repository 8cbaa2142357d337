package writer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func sampleAnalysis() model.Analysis {
	t1 := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	return model.Analysis{
		ConversationID: "S1",
		GeneratedAt:    t1.Add(time.Hour),
		UserIntents: []model.UserIntent{
			{Timestamp: t1, Text: "Fix the | pipe bug\nwith a newline", Priority: model.PriorityCritical},
		},
		AIActions: []model.AIAction{
			{Timestamp: t1.Add(time.Minute), Text: "Implemented the fix", ActionType: "implemented"},
		},
		TechnicalWork: []model.TechnicalWork{
			{Timestamp: t1.Add(2 * time.Minute), Text: "Updated pkg/foo.go", Status: model.WorkCompleted},
		},
		Decisions: []model.Decision{
			{Timestamp: t1.Add(3 * time.Minute), Summary: "We decided to use Postgres", Reasoning: "It is reliable", Impact: model.PriorityHigh},
		},
		FlowEvents: []model.FlowEvent{
			{Timestamp: t1, MessageID: "m1", Role: model.RoleUser, Kind: model.FlowUserMessage},
		},
		WorkingState: model.WorkingState{
			WorkingOn:  "the pipe bug",
			Blockers:   []string{"waiting on review"},
			NextAction: "merge the fix",
			Progress:   0.5,
		},
	}
}

func TestRenderAICF_EscapesPipesAndNewlines(t *testing.T) {
	body := RenderAICF(sampleAnalysis())
	s := string(body)
	require.Contains(t, s, `Fix the \| pipe bug\nwith a newline`)
	require.True(t, len(s) > 0 && s[len(s)-1] == '\n', "expected exactly one trailing newline")
}

func TestRenderAICF_FixedHeaderAndCategoryOrder(t *testing.T) {
	body := RenderAICF(sampleAnalysis())
	doc, err := ParseAICF("test.aicf", body)
	require.NoError(t, err)
	require.Equal(t, FormatVersion, doc.Version)
	require.Equal(t, "S1", doc.ConversationID)
	require.Len(t, doc.Records[keyUserIntent], 1)
	require.Len(t, doc.Records[keyAIAction], 1)
	require.Len(t, doc.Records[keyTechnicalWork], 1)
	require.Len(t, doc.Records[keyDecision], 1)
	require.Len(t, doc.Records[keyFlow], 1)
	require.Len(t, doc.Records[keyWorkingState], 1)
}

func TestParseAICF_RoundTripIsByteIdentical(t *testing.T) {
	a := sampleAnalysis()
	original := RenderAICF(a)

	doc, err := ParseAICF("test.aicf", original)
	require.NoError(t, err)

	rewritten := RenderDocument(doc)
	require.Equal(t, original, rewritten)
}

func TestParseAICF_PreservesUnknownKeys(t *testing.T) {
	raw := "version|1\ntimestamp|2025-10-22T09:00:00Z\nconversationId|S1\ncustomKey|field1|field2\n"
	doc, err := ParseAICF("test.aicf", []byte(raw))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"field1", "field2"}}, doc.Records["customKey"])

	rewritten := RenderDocument(doc)
	require.Contains(t, string(rewritten), "customKey|field1|field2")
}

func TestParseAICF_InvalidLineReturnsTypedError(t *testing.T) {
	raw := "version|1\ntimestamp|not-a-timestamp\nconversationId|S1\n"
	_, err := ParseAICF("bad.aicf", []byte(raw))
	require.Error(t, err)
	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestEscapeField_RoundTrips(t *testing.T) {
	cases := []string{
		`plain text`,
		`has | a pipe`,
		"has\na newline",
		`has \ a backslash`,
		`mixed \| and \\ and \n escapes already`,
	}
	for _, c := range cases {
		escaped := escapeField(c)
		require.Equal(t, c, unescapeField(escaped))
	}
}
