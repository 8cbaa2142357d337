package parserutil

import "testing"

func TestAssembleContent_JoinsWithDoubleNewline(t *testing.T) {
	blocks := []ContentBlock{
		{Kind: BlockParagraph, Text: "first"},
		{Kind: BlockParagraph, Text: "second"},
	}
	got := AssembleContent(blocks)
	want := "first\n\nsecond"
	if got != want {
		t.Errorf("AssembleContent() = %q, want %q", got, want)
	}
}

func TestAssembleContent_SkipsEmptyBlocks(t *testing.T) {
	blocks := []ContentBlock{
		{Kind: BlockParagraph, Text: "only"},
		{Kind: BlockParagraph, Text: ""},
	}
	if got := AssembleContent(blocks); got != "only" {
		t.Errorf("AssembleContent() = %q", got)
	}
}

func TestAssembleContent_CodeBlockWithEmptyLanguage(t *testing.T) {
	blocks := []ContentBlock{
		{Kind: BlockCode, Language: "", Text: "echo hi"},
	}
	got := AssembleContent(blocks)
	want := "```\necho hi\n```"
	if got != want {
		t.Errorf("AssembleContent() = %q, want %q", got, want)
	}
}

func TestAssembleContent_TrimsOuterPreservesInner(t *testing.T) {
	blocks := []ContentBlock{
		{Kind: BlockParagraph, Text: "  leading and trailing  "},
	}
	got := AssembleContent(blocks)
	if got != "leading and trailing" {
		t.Errorf("AssembleContent() = %q", got)
	}
}
