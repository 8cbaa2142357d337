package writer

import (
	"sync"

	"golang.org/x/crypto/blake2b"
)

// ArtifactCache tracks the last-written fingerprint of each artifact
// this process has produced, so a cycle with no new messages for a
// conversation can skip the write-temp-fsync-rename cycle entirely
// instead of re-writing byte-identical content. Grounded on
// internal/model/hash.go's blake2b content-addressing, narrowed to the
// one operation this writer needs: "have I already written exactly
// this?"
type ArtifactCache struct {
	mu           sync.RWMutex
	fingerprints map[string][32]byte
}

// NewArtifactCache returns an empty cache.
func NewArtifactCache() *ArtifactCache {
	return &ArtifactCache{fingerprints: make(map[string][32]byte)}
}

// Fingerprint hashes the artifact body that should determine
// idempotence, excluding anything permitted to vary between identical
// cycles (the writer passes the content with the timestamp header line
// stripped, per spec §6 "Idempotence of writes").
func Fingerprint(body []byte) [32]byte {
	return blake2b.Sum256(body)
}

// Unchanged reports whether path's last recorded fingerprint matches
// fp.
func (c *ArtifactCache) Unchanged(path string, fp [32]byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	existing, ok := c.fingerprints[path]
	return ok && existing == fp
}

// Record stores path's fingerprint after a successful write.
func (c *ArtifactCache) Record(path string, fp [32]byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fingerprints[path] = fp
}

// Forget removes path's recorded fingerprint, e.g. after the aging
// service moves or recompresses the underlying artifact.
func (c *ArtifactCache) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fingerprints, path)
}
