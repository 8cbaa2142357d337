package parserutil

import "strings"

// ContentBlock is one unit of a structured message before flattening:
// a paragraph, a preformatted/code block, a list, or a table. Kind
// drives how Flatten renders it; unknown kinds are the caller's
// responsibility to skip before calling Flatten (so the skip can be
// counted by the caller).
type ContentBlock struct {
	Kind     BlockKind
	Text     string
	Language string // for BlockCode; empty language is allowed
}

// BlockKind enumerates the block shapes the JSON-export and SQLite
// parsers flatten (spec §4.2).
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockCode      BlockKind = "code"
	BlockList      BlockKind = "list"
	BlockTable     BlockKind = "table"
)

// RenderBlock renders one block to its plain/markdown-ish text form.
func RenderBlock(b ContentBlock) string {
	switch b.Kind {
	case BlockCode:
		return "```" + b.Language + "\n" + b.Text + "\n```"
	default:
		return b.Text
	}
}

// AssembleContent joins non-empty rendered block strings with a double
// newline and trims only the outer whitespace, preserving internal
// whitespace byte-for-byte (spec §4.2 "Content assembly").
func AssembleContent(blocks []ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		rendered := RenderBlock(b)
		if rendered == "" {
			continue
		}
		parts = append(parts, rendered)
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
