package orchestrator

import (
	"sort"
	"strings"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// BuildConversations groups already-deduplicated canonical messages by
// conversation id (spec §4.3 step 4). Two different sources
// occasionally assign the same literal conversation id to genuinely
// unrelated sessions (e.g. a CLI log session "S1" and a desktop-app
// thread also named "S1"); when that happens none of the id's messages
// from one source share a ContentHash with any message from another
// source, which is the signal this function uses to split them apart
// and re-key each split group with its source as a prefix
// (SPEC_FULL.md §5 decision 4), instead of silently merging unrelated
// conversations under one id.
func BuildConversations(messages []model.Message) []model.Conversation {
	byID := make(map[string][]model.Message)
	for _, m := range messages {
		byID[m.ConversationID] = append(byID[m.ConversationID], m)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []model.Conversation
	for _, id := range ids {
		for splitID, group := range splitIfUnrelated(id, byID[id]) {
			out = append(out, model.BuildConversation(splitID, group))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// splitIfUnrelated returns a map from (possibly re-keyed) conversation
// id to its messages. If the group's messages all come from one
// source, or any two sources share at least one ContentHash for this
// id, it returns the group unchanged under id. Otherwise each source's
// subset becomes its own conversation keyed "<source>:<id>".
func splitIfUnrelated(id string, group []model.Message) map[string][]model.Message {
	bySource := make(map[model.Source][]model.Message)
	for _, m := range group {
		src := model.Source(m.Metadata[model.MetaSource])
		bySource[src] = append(bySource[src], m)
	}
	if len(bySource) < 2 {
		return map[string][]model.Message{id: group}
	}

	// After Consolidate every survivor's hash is unique, so a hash two
	// sources shared survives only as the survivor's seen_in_sources.
	for _, m := range group {
		own := m.Metadata[model.MetaSource]
		for _, s := range strings.Split(m.Metadata[model.MetaSeenInSources], ",") {
			if s != "" && s != own && len(bySource[model.Source(s)]) > 0 {
				return map[string][]model.Message{id: group}
			}
		}
	}

	hashes := make(map[model.Source]map[model.ContentHash]bool, len(bySource))
	for src, msgs := range bySource {
		set := make(map[model.ContentHash]bool, len(msgs))
		for _, m := range msgs {
			set[model.HashMessage(m)] = true
		}
		hashes[src] = set
	}
	if hashSetsOverlap(hashes) {
		return map[string][]model.Message{id: group}
	}

	out := make(map[string][]model.Message, len(bySource))
	for src, msgs := range bySource {
		out[string(src)+":"+id] = msgs
	}
	return out
}

// hashSetsOverlap reports whether any two sources' ContentHash sets
// share a member. With fewer than two sources there is no pair to
// compare and it returns false; splitIfUnrelated never calls it then.
func hashSetsOverlap(bySource map[model.Source]map[model.ContentHash]bool) bool {
	sources := make([]model.Source, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	for i := 0; i < len(sources); i++ {
		for j := i + 1; j < len(sources); j++ {
			a, b := bySource[sources[i]], bySource[sources[j]]
			small, large := a, b
			if len(large) < len(small) {
				small, large = large, small
			}
			for h := range small {
				if large[h] {
					return true
				}
			}
		}
	}
	return false
}
