package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"ai-places-be/pkg/textutil"
)

// ContextFlags are the feature toggles that change what a given question
// produces. They are folded into the cache key so the same text under
// different toggles never collides.
type ContextFlags struct {
	Realtime        bool
	Location        bool
	Personalization bool
}

func (f ContextFlags) fingerprint() string {
	bits := func(b bool) byte {
		if b {
			return '1'
		}
		return '0'
	}
	return string([]byte{bits(f.Realtime), bits(f.Location), bits(f.Personalization)})
}

// Key derives the full-answer cache key: first 16 hex chars of the SHA-256
// of the normalized query, suffixed with the toggle fingerprint.
func Key(prefix, query string, flags ContextFlags) string {
	sum := sha256.Sum256([]byte(textutil.Normalize(query)))
	return fmt.Sprintf("%s%s|ctx:%s", prefix, hex.EncodeToString(sum[:])[:16], flags.fingerprint())
}

// RetrievalKey derives the raw-retrieval cache key. Retrieval results do not
// depend on the response toggles, only on the normalized query.
func RetrievalKey(query string) string {
	sum := sha256.Sum256([]byte(textutil.Normalize(query)))
	return "search:" + hex.EncodeToString(sum[:])[:16]
}
