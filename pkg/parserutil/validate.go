package parserutil

import (
	"time"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// ValidateOrSkip validates msg against spec §3's invariants and, if it
// fails, wraps the failure as a *model.ParseError tagged with the
// record id — the uniform way every parser skips a malformed record
// without failing its whole batch (spec §4.2).
func ValidateOrSkip(msg model.Message, now time.Time) error {
	if err := msg.Validate(now); err != nil {
		return &model.ParseError{
			Source:   model.Source(msg.Metadata[model.MetaSource]),
			RecordID: msg.ID,
			Err:      err,
		}
	}
	return nil
}
