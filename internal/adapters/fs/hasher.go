package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/snaplink/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash digests of module content.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Hash returns the XXHash of data as 16 hex characters.
func (h *Hasher) Hash(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// HashStrings hashes parts in order, each followed by a zero byte so that
// ("ab", "c") and ("a", "bc") differ.
func (h *Hasher) HashStrings(parts ...string) string {
	hasher := xxhash.New()
	for _, part := range parts {
		_, _ = hasher.WriteString(part)
		_, _ = hasher.Write([]byte{0}) // Separator
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
