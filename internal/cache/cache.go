// Package cache stores LLM completions so repeated runs over identical inputs
// replay identical collaborator outputs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion is bumped whenever the cached payload format changes
const keyVersion = "kepler:v2:"

// Key derives a cache key from the parts that determine a completion.
// Parts are length-prefixed so ("ab","c") and ("a","bc") never collide.
func Key(parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	return keyVersion + hex.EncodeToString(h.Sum(nil))
}
