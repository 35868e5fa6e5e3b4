package hasher

import (
	"testing"
)

func TestHashDeterminism(t *testing.T) {
	word := []byte("ACGTACGTACGTACGTACGTA")
	if Hash(word, DefaultSeed) != Hash(word, DefaultSeed) {
		t.Fatal("hashing is not deterministic")
	}
}

func TestHashSeedDependence(t *testing.T) {
	word := []byte("ACGTACGTACGTACGTACGTA")
	if Hash(word, 42) == Hash(word, 43) {
		t.Fatal("different seeds should yield different hashes")
	}
}

func TestHashWordDependence(t *testing.T) {
	if Hash([]byte("ACGTACG"), DefaultSeed) == Hash([]byte("ACGTACC"), DefaultSeed) {
		t.Fatal("different words should yield different hashes")
	}
	// hashing must look at every byte, not just the word prefix
	if Hash([]byte("AAAAAAAA"), DefaultSeed) == Hash([]byte("AAAAAAAT"), DefaultSeed) {
		t.Fatal("a single byte change should change the hash")
	}
}
