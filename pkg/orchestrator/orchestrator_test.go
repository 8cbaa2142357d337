package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

func msg(id, convID string, ts time.Time, role model.Role, content string, source model.Source) model.Message {
	return model.Message{
		ID:             id,
		ConversationID: convID,
		Timestamp:      ts,
		Role:           role,
		Content:        content,
		Metadata: map[string]string{
			model.MetaSource:        string(source),
			model.MetaExtractedFrom: "test",
		},
	}
}

func TestConsolidate_DeduplicatesIdenticalContentAcrossSources(t *testing.T) {
	t1 := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	bySource := map[model.Source][]model.Message{
		model.SourceJSONLCLI:  {msg("a", "c1", t1, model.RoleUser, "hello world", model.SourceJSONLCLI)},
		model.SourceSQLiteApp: {msg("b", "c1", t2, model.RoleUser, "hello world", model.SourceSQLiteApp)},
	}

	canonical, stats, err := Consolidate(bySource, Options{DedupCeiling: 1000}, nil)
	require.NoError(t, err)
	require.Len(t, canonical, 1)
	require.Equal(t, 2, stats.TotalSeen)
	require.Equal(t, 1, stats.TotalUnique)
	require.Equal(t, 1, stats.DuplicatesRemoved)

	require.Equal(t, "a", canonical[0].ID, "earlier timestamp should survive")
	seen := canonical[0].Metadata[model.MetaSeenInSources]
	require.Contains(t, seen, string(model.SourceJSONLCLI))
	require.Contains(t, seen, string(model.SourceSQLiteApp))
}

func TestConsolidate_TimestampTieBreaksByLexicographicID(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	byIn := map[model.Source][]model.Message{
		model.SourceJSONLCLI: {
			msg("zzz", "c1", ts, model.RoleUser, "same text", model.SourceJSONLCLI),
			msg("aaa", "c1", ts, model.RoleUser, "same text", model.SourceJSONLCLI),
		},
	}
	canonical, _, err := Consolidate(byIn, Options{DedupCeiling: 1000}, nil)
	require.NoError(t, err)
	require.Len(t, canonical, 1)
	require.Equal(t, "aaa", canonical[0].ID)
}

func TestConsolidate_DistinctContentNotMerged(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	byIn := map[model.Source][]model.Message{
		model.SourceJSONLCLI: {
			msg("a", "c1", ts, model.RoleUser, "first message", model.SourceJSONLCLI),
			msg("b", "c1", ts.Add(time.Minute), model.RoleAssistant, "second message", model.SourceJSONLCLI),
		},
	}
	canonical, stats, err := Consolidate(byIn, Options{DedupCeiling: 1000}, nil)
	require.NoError(t, err)
	require.Len(t, canonical, 2)
	require.Equal(t, 0, stats.DuplicatesRemoved)
}

func TestConsolidate_CeilingExceededReturnsOrchestratorLimitError(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	var msgs []model.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, msg(string(rune('a'+i)), "c1", ts.Add(time.Duration(i)*time.Minute), model.RoleUser, string(rune('x'+i)), model.SourceJSONLCLI))
	}
	byIn := map[model.Source][]model.Message{model.SourceJSONLCLI: msgs}

	_, _, err := Consolidate(byIn, Options{DedupCeiling: 2}, nil)
	require.Error(t, err)
	var limitErr *model.OrchestratorLimitError
	require.ErrorAs(t, err, &limitErr)
}

func TestConsolidate_AllSourcesFailedAndZeroMessagesPropagatesError(t *testing.T) {
	sourceErr := &model.SourceUnavailableError{Source: model.SourceJSONLCLI, Reason: "gone"}
	_, _, err := Consolidate(map[model.Source][]model.Message{}, Options{DedupCeiling: 1000}, []error{sourceErr})
	require.ErrorIs(t, err, sourceErr, "zero usable messages with a failed source is a failure")
}

func TestBuildConversations_GroupsBySharedConversationID(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg("a", "c1", ts, model.RoleUser, "hi", model.SourceJSONLCLI),
		msg("b", "c1", ts.Add(time.Minute), model.RoleAssistant, "hello", model.SourceJSONLCLI),
		msg("c", "c2", ts, model.RoleUser, "other convo", model.SourceJSONLCLI),
	}
	convs := BuildConversations(msgs)
	require.Len(t, convs, 2)
}

func TestBuildConversations_SplitsCollidingIDsWithNoSharedContentHash(t *testing.T) {
	early := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg("a", "S1", early, model.RoleUser, "jan conversation", model.SourceJSONLCLI),
		msg("b", "S1", early.Add(time.Minute), model.RoleAssistant, "jan reply", model.SourceJSONLCLI),
		msg("c", "S1", late, model.RoleUser, "june conversation", model.SourceSQLiteApp),
		msg("d", "S1", late.Add(time.Minute), model.RoleAssistant, "june reply", model.SourceSQLiteApp),
	}
	convs := BuildConversations(msgs)
	require.Len(t, convs, 2, "same-id groups from different sources with no shared content hash should split")
	for _, c := range convs {
		require.Contains(t, c.ID, "S1")
	}
}

func TestBuildConversations_KeepsSameIDMergedWhenContentHashShared(t *testing.T) {
	early := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg("a", "S1", early, model.RoleUser, "hi", model.SourceJSONLCLI),
		msg("b", "S1", late, model.RoleUser, "hi", model.SourceSQLiteApp),
	}
	convs := BuildConversations(msgs)
	require.Len(t, convs, 1, "a shared content hash across sources is the same conversation even with a wide timestamp gap")
	require.Equal(t, "S1", convs[0].ID)
}

func TestBuildConversations_KeepsInterleavedSameIDMergedAcrossSources(t *testing.T) {
	ts := time.Date(2025, 10, 22, 9, 0, 0, 0, time.UTC)
	msgs := []model.Message{
		msg("a", "S1", ts, model.RoleUser, "hi", model.SourceJSONLCLI),
		msg("b", "S1", ts.Add(time.Minute), model.RoleUser, "hi", model.SourceSQLiteApp),
	}
	convs := BuildConversations(msgs)
	require.Len(t, convs, 1, "interleaved messages across sources that share a content hash are the same conversation")
	require.Equal(t, "S1", convs[0].ID)
}
