package model

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
)

// ContentHash is the 256-bit cross-source deduplication key: a digest
// over the pair (role, normalized content). Normalization strips
// leading/trailing whitespace and collapses internal whitespace runs,
// so "Hello world" and "Hello  world \n" hash identically.
type ContentHash [32]byte

// HashMessage computes the ContentHash of a Message.
func HashMessage(m Message) ContentHash {
	return HashContent(m.Role, m.Content)
}

// HashContent computes the ContentHash for a (role, content) pair
// directly, without requiring a constructed Message.
func HashContent(role Role, content string) ContentHash {
	normalized := normalizeWhitespace(content)
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a non-nil key of bad length;
		// we never pass a key, so this is unreachable.
		panic(err)
	}
	h.Write([]byte(role))
	h.Write([]byte{0}) // separator so role+content can't collide across the boundary
	h.Write([]byte(normalized))
	var out ContentHash
	copy(out[:], h.Sum(nil))
	return out
}

func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
