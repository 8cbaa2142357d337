// Package aging re-files artifacts across the tiered output directory
// (recent/medium/old/archive) as they age, and compresses artifacts
// moving from old into archive by regenerating them with low-priority
// extractor fields dropped (spec §4.6).
package aging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/config"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/internal/model"
	"github.com/Vaeshkar/create-ai-chat-context-experimental-sub002/pkg/writer"
)

// Tier names the four age-based storage tiers (spec §3).
type Tier string

const (
	TierRecent  Tier = "recent"
	TierMedium  Tier = "medium"
	TierOld     Tier = "old"
	TierArchive Tier = "archive"
)

var tiers = []Tier{TierRecent, TierMedium, TierOld, TierArchive}

// TierForAge buckets age (relative to now) into one of the four tiers
// using thresholds: recent [0, Medium); medium [Medium, Old); old
// [Old, Archive); archive [Archive, inf) (spec §3, §4.6).
func TierForAge(age time.Duration, thresholds config.TierThresholds) Tier {
	days := age.Hours() / 24
	switch {
	case days < float64(thresholds.MediumDays):
		return TierRecent
	case days < float64(thresholds.OldDays):
		return TierMedium
	case days < float64(thresholds.ArchiveDays):
		return TierOld
	default:
		return TierArchive
	}
}

// artifactNamePattern matches the fixed filename shape
// {YYYY-MM-DD}_{conversation_id}.{aicf|md} (spec §4.5).
var artifactNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})_(.+)\.(aicf|md)$`)

// ParseArtifactName extracts the date prefix, conversation id, and
// extension from an artifact's basename.
func ParseArtifactName(name string) (date time.Time, conversationID, ext string, ok bool) {
	m := artifactNamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", "", false
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, "", "", false
	}
	return date, m[2], m[3], true
}

// Stats summarizes one aging pass.
type Stats struct {
	Scanned    int
	Moved      int
	Compressed int
	Errors     int
}

// Run walks every tier directory under outputRoot, recomputes each
// artifact's tier from its filename date relative to now, and moves
// any artifact whose current directory no longer matches. Artifacts
// moving from old into archive are additionally regenerated with intents, AI
// actions, and flow events dropped (SPEC_FULL.md §5 decision 3: this
// applies to both AICF and markdown, not only AICF). A second pass
// over an already-settled tree is a no-op (spec §4.6 "Moves are
// idempotent").
func Run(outputRoot string, thresholds config.TierThresholds, now time.Time, logger *log.Logger) (Stats, error) {
	var stats Stats

	for _, tier := range tiers {
		dir := filepath.Join(outputRoot, string(tier))
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("aging: read tier dir %s: %w", dir, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			stats.Scanned++
			date, convID, ext, ok := ParseArtifactName(name)
			if !ok {
				continue
			}
			wantTier := TierForAge(now.Sub(date), thresholds)
			if wantTier == tier {
				continue
			}

			srcPath := filepath.Join(dir, name)
			dstDir := filepath.Join(outputRoot, string(wantTier))
			dstPath := filepath.Join(dstDir, name)

			if wantTier == TierArchive && tier == TierOld && ext == "aicf" {
				if err := compressAICF(srcPath, dstPath); err != nil {
					stats.Errors++
					if logger != nil {
						logger.Error("aging: compress failed", "path", srcPath, "err", err)
					}
					continue
				}
				os.Remove(srcPath)
				stats.Moved++
				stats.Compressed++
				continue
			}
			if wantTier == TierArchive && tier == TierOld && ext == "md" {
				if err := compressMarkdown(srcPath, dstPath, convID); err != nil {
					stats.Errors++
					if logger != nil {
						logger.Error("aging: compress markdown failed", "path", srcPath, "err", err)
					}
					continue
				}
				os.Remove(srcPath)
				stats.Moved++
				continue
			}

			if err := moveAtomic(srcPath, dstPath); err != nil {
				stats.Errors++
				if logger != nil {
					logger.Error("aging: move failed", "path", srcPath, "err", err)
				}
				continue
			}
			stats.Moved++
		}
	}

	return stats, nil
}

func moveAtomic(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

// droppedArchiveCategories lists the AICF category keys dropped when
// compressing into archive (SPEC_FULL.md §5 decision 3: intents, AI
// actions, and flow events; decisions and working-state survive).
var droppedArchiveCategories = map[string]bool{
	"userIntents": true,
	"aiActions":   true,
	"flow":        true,
}

// compressAICF regenerates an AICF artifact at dst with the dropped
// archive categories removed from src.
func compressAICF(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	doc, err := writer.ParseAICF(src, data)
	if err != nil {
		return err
	}
	for key := range droppedArchiveCategories {
		delete(doc.Records, key)
	}
	return writer.AtomicWriteFile(dst, writer.RenderDocument(doc), 0o644)
}

// compressMarkdown regenerates a markdown artifact at dst from its
// sibling AICF file, reconstructing only the surviving fields (technical
// work, decisions, working state) since markdown has no structured
// parser of its own (decision 3: the compression applies to both
// projections). Within a tier directory ".aicf" sorts before ".md", so
// Run has already compressed and moved the AICF sibling out of the old
// tier by the time its markdown counterpart is processed; read from the
// archive destination in that case instead of the (now gone) source.
func compressMarkdown(src, dst, conversationID string) error {
	aicfSibling := strings.TrimSuffix(src, ".md") + ".aicf"
	data, err := os.ReadFile(aicfSibling)
	if err != nil {
		data, err = os.ReadFile(strings.TrimSuffix(dst, ".md") + ".aicf")
		if err != nil {
			return err
		}
	}
	doc, err := writer.ParseAICF(aicfSibling, data)
	if err != nil {
		return err
	}

	a := documentToSlimAnalysis(doc, conversationID)
	return writer.AtomicWriteFile(dst, writer.RenderMarkdown(a), 0o644)
}

// documentToSlimAnalysis rebuilds the fields archive compression keeps
// (technical work, decisions, working state) from a parsed AICF
// Document; dropped categories are simply absent from doc.Records by
// the time this runs.
func documentToSlimAnalysis(doc *writer.Document, conversationID string) model.Analysis {
	a := model.Analysis{
		ConversationID: conversationID,
		GeneratedAt:    doc.GeneratedAt,
	}

	for _, fields := range doc.Records["technicalWork"] {
		if len(fields) < 3 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339Nano, fields[0])
		a.TechnicalWork = append(a.TechnicalWork, model.TechnicalWork{
			Timestamp: ts,
			Status:    model.WorkStatus(fields[1]),
			Text:      fields[2],
		})
	}
	for _, fields := range doc.Records["decisions"] {
		if len(fields) < 4 {
			continue
		}
		ts, _ := time.Parse(time.RFC3339Nano, fields[0])
		a.Decisions = append(a.Decisions, model.Decision{
			Timestamp: ts,
			Impact:    model.Priority(fields[1]),
			Summary:   fields[2],
			Reasoning: fields[3],
		})
	}
	if rows := doc.Records["workingState"]; len(rows) == 1 && len(rows[0]) >= 4 {
		fields := rows[0]
		var progress float64
		fmt.Sscanf(fields[3], "%g", &progress)
		var blockers []string
		if fields[1] != "" {
			blockers = strings.Split(fields[1], "\x1f")
		}
		a.WorkingState = model.WorkingState{
			WorkingOn:  fields[0],
			Blockers:   blockers,
			NextAction: fields[2],
			Progress:   progress,
		}
	}

	return a
}
