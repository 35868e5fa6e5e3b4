/*
	the hasher package wraps the hash function used for all SMASH sketches

	the choice of MurmurHash3 (x64, 128-bit, low 64 bits kept) is part of the
	sketch contract: two sketches built from the same words and seed must be
	identical, whatever produced them
*/
package hasher

import (
	"github.com/spaolacci/murmur3"
)

// DefaultSeed is used when a sketch doesn't specify its own
const DefaultSeed uint32 = 42

// Hash returns the low 64 bits of MurmurHash3 x64 128 for a word
func Hash(word []byte, seed uint32) uint64 {
	h1, _ := murmur3.Sum128WithSeed(word, seed)
	return h1
}
