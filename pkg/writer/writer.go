package writer

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
)

// Writer persists both projections of an Analysis under a tiered
// output directory, skipping the write entirely when the artifact
// would be byte-identical to what's already on disk (spec §6
// "Idempotence of writes").
type Writer struct {
	cache *ArtifactCache
	log   *log.Logger
}

// New constructs a Writer. logger should already carry a "writer"
// component prefix (internal/logging.New).
func New(logger *log.Logger) *Writer {
	return &Writer{cache: NewArtifactCache(), log: logger}
}

// Result reports what Write did for one conversation.
type Result struct {
	AICFPath      string
	MarkdownPath  string
	AICFWritten   bool
	MarkdownWritten bool
}

// Filename returns the fixed artifact basename for a conversation on
// the given date, without extension or directory (spec §4.5
// "{YYYY-MM-DD}_{conversation_id}").
func Filename(date time.Time, conversationID string) string {
	return date.UTC().Format("2006-01-02") + "_" + sanitizeID(conversationID)
}

// sanitizeID replaces path separators so a synthesized or
// source-prefixed conversation id (e.g. "jsonl-cli:S1") never escapes
// its tier directory.
func sanitizeID(id string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "-")
	return replacer.Replace(id)
}

// Write renders and atomically persists both projections of a under
// <outputRoot>/<tier>/, skipping either file whose content (excluding
// the timestamp header/line, which spec §6 permits to vary) is
// unchanged since the last write recorded in the Writer's cache.
func (w *Writer) Write(outputRoot, tier string, date time.Time, a model.Analysis) (Result, error) {
	dir := filepath.Join(outputRoot, tier)
	base := Filename(date, a.ConversationID)
	aicfPath := filepath.Join(dir, base+".aicf")
	mdPath := filepath.Join(dir, base+".md")

	result := Result{AICFPath: aicfPath, MarkdownPath: mdPath}

	aicfBody := RenderAICF(a)
	aicfFP := Fingerprint(stripTimestampLine(aicfBody))
	if !w.cache.Unchanged(aicfPath, aicfFP) {
		if err := AtomicWriteFile(aicfPath, aicfBody, 0o644); err != nil {
			return result, err
		}
		w.cache.Record(aicfPath, aicfFP)
		result.AICFWritten = true
		if w.log != nil {
			w.log.Debug("wrote aicf artifact", "path", aicfPath)
		}
	}

	mdBody := RenderMarkdown(a)
	mdFP := Fingerprint(stripGeneratedLine(mdBody))
	if !w.cache.Unchanged(mdPath, mdFP) {
		if err := AtomicWriteFile(mdPath, mdBody, 0o644); err != nil {
			return result, err
		}
		w.cache.Record(mdPath, mdFP)
		result.MarkdownWritten = true
		if w.log != nil {
			w.log.Debug("wrote markdown artifact", "path", mdPath)
		}
	}

	return result, nil
}

// stripTimestampLine removes the AICF header's timestamp line before
// fingerprinting, so a rewrite with only GeneratedAt changed is still
// treated as unchanged content.
func stripTimestampLine(body []byte) []byte {
	lines := strings.Split(string(body), "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, keyTimestamp+"|") {
			continue
		}
		out = append(out, l)
	}
	return []byte(strings.Join(out, "\n"))
}

// stripGeneratedLine is stripTimestampLine's markdown analogue: the
// Overview section's "Generated:" bullet is the only line permitted to
// vary between idempotent writes.
func stripGeneratedLine(body []byte) []byte {
	lines := strings.Split(string(body), "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(l, "- Generated: ") {
			continue
		}
		out = append(out, l)
	}
	return []byte(strings.Join(out, "\n"))
}
