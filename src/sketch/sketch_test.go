package sketch

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/will-rowe/smash/src/alphabet"
	"github.com/will-rowe/smash/src/misc"
	"github.com/will-rowe/smash/src/smerror"
)

// setup variables
var (
	seqA       = []byte("ACTGCGTGCGTGAAACGTGCACGTGACGTG")
	seqB       = []byte("ACAGCAGGAAGGCTTACTGGAGAAACGTATCGACTATAAGAATCGGGTGATGGAACCTCA")
	kmerSize   = uint32(7)
	sketchSize = uint32(10)
)

// kmerShredder is a helper function for yielding the canonical k-mers of a sequence
func kmerShredder(seq []byte, k uint32) map[string]int {
	kmers := make(map[string]int)
	rc := alphabet.RevComp(seq)
	for i := 0; i+int(k) <= len(seq); i++ {
		kmer := seq[i : i+int(k)]
		krc := rc[len(seq)-int(k)-i : len(seq)-i]
		if bytes.Compare(kmer, krc) <= 0 {
			kmers[string(kmer)]++
		} else {
			kmers[string(krc)]++
		}
	}
	return kmers
}

// randomDNA is a helper function to generate deterministic pseudo-random sequence
func randomDNA(length int, state uint64) []byte {
	bases := []byte{'A', 'C', 'G', 'T'}
	seq := make([]byte, length)
	for i := range seq {
		state = state*6364136223846793005 + 1442695040888963407
		seq[i] = bases[(state>>33)%4]
	}
	return seq
}

// Constructor test
func TestSketchConstructor(t *testing.T) {
	mh := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	if mh.Num() != sketchSize || mh.Ksize() != kmerSize || mh.Seed() != 42 || mh.MaxHash() != 0 {
		t.Fatalf("NewKmerMinHash constructor did not initiate the sketch correctly")
	}
	if !mh.IsEmpty() || mh.TrackAbundance() {
		t.Fatalf("new sketch should be empty and unweighted")
	}
	scaledMH := NewScaledKmerMinHash(0, 21, DNA, 42, 1000, false)
	if scaledMH.MaxHash() != MaxHashForScaled(1000) {
		t.Fatalf("NewScaledKmerMinHash did not derive the hash threshold")
	}
}

// bottom-k retention: the sketch must hold the smallest distinct hashes, ascending
func TestBottomK(t *testing.T) {
	mh := NewKmerMinHash(5, 3, DNA, 42, 0, false)
	if err := mh.AddSequence([]byte("ATGCATGCAT"), false); err != nil {
		t.Fatal(err)
	}

	// the expected retention is the 5 smallest distinct canonical k-mer hashes
	distinct := len(kmerShredder([]byte("ATGCATGCAT"), 3))
	want := distinct
	if want > 5 {
		want = 5
	}
	if mh.Size() != want {
		t.Fatalf("expected %d minimums, got %d", want, mh.Size())
	}
	mins := mh.Mins()
	for i := 1; i < len(mins); i++ {
		if mins[i] <= mins[i-1] {
			t.Fatalf("mins are not strictly ascending: %v", mins)
		}
	}
}

// the sketch must equal the ascending sort of the smallest distinct accepted hashes
func TestBottomKEviction(t *testing.T) {
	mh := NewKmerMinHash(3, kmerSize, DNA, 42, 0, false)
	for _, hash := range []uint64{900, 100, 500, 700, 300, 100, 200} {
		mh.AddHash(hash)
	}
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{100, 200, 300}) {
		t.Fatalf("bottom-k retention failed: %v", mh.Mins())
	}

	// a hash beyond the current maximum of a full sketch is a no-op
	mh.AddHash(800)
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{100, 200, 300}) {
		t.Fatalf("full sketch should reject a larger hash: %v", mh.Mins())
	}
}

// add order must not matter
func TestAddHashOrderIndependent(t *testing.T) {
	a := NewKmerMinHash(4, kmerSize, DNA, 42, 0, true)
	b := NewKmerMinHash(4, kmerSize, DNA, 42, 0, true)
	hashes := []uint64{42, 7, 99, 7, 13, 42, 1000, 3}
	for _, hash := range hashes {
		a.AddHash(hash)
	}
	for i := len(hashes) - 1; i >= 0; i-- {
		b.AddHash(hashes[i])
	}
	if !a.Equal(b) {
		t.Fatalf("sketch contents depend on insertion order: %v vs %v", a.Mins(), b.Mins())
	}
}

// unweighted adds are idempotent; weighted adds accumulate
func TestAbundanceTracking(t *testing.T) {
	mh := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	mh.AddHash(55)
	mh.AddHash(55)
	mh.AddHash(55)
	if mh.Size() != 1 {
		t.Fatalf("unweighted AddHash should be idempotent")
	}

	weighted := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, true)
	for i := 0; i < 3; i++ {
		weighted.AddHash(55)
	}
	weighted.AddHash(21)
	if !misc.Uint64SliceEqual(weighted.Mins(), []uint64{21, 55}) {
		t.Fatalf("unexpected mins: %v", weighted.Mins())
	}
	if !misc.Uint64SliceEqual(weighted.Abunds(), []uint64{1, 3}) {
		t.Fatalf("expected abundances [1 3], got %v", weighted.Abunds())
	}
}

// scaled sampling: every accepted hash must sit at or below the threshold
func TestScaledSampling(t *testing.T) {
	scaled := uint64(4)
	maxHash := MaxHashForScaled(scaled)
	mh := NewScaledKmerMinHash(0, 21, DNA, 42, scaled, false)
	if err := mh.AddSequence(randomDNA(10000, 1), false); err != nil {
		t.Fatal(err)
	}
	if mh.Size() == 0 {
		t.Fatalf("a 1-in-%d sample of 10kb should not be empty", scaled)
	}
	for _, min := range mh.Mins() {
		if min > maxHash {
			t.Fatalf("retained hash %d is above the threshold %d", min, maxHash)
		}
	}

	// an unbounded sketch restricted to the threshold must agree exactly
	reference := NewKmerMinHash(0, 21, DNA, 42, 0, false)
	if err := reference.AddSequence(randomDNA(10000, 1), false); err != nil {
		t.Fatal(err)
	}
	expected := []uint64{}
	for _, min := range reference.Mins() {
		if min <= maxHash {
			expected = append(expected, min)
		}
	}
	if !misc.Uint64SliceEqual(mh.Mins(), expected) {
		t.Fatalf("scaled sketch disagrees with the filtered unbounded sketch")
	}
}

// when both regimes are configured, the threshold is strict and the bottom-k cap is ignored
func TestDualRegime(t *testing.T) {
	mh := NewKmerMinHash(2, kmerSize, DNA, 42, 1000, false)
	mh.AddMany([]uint64{10, 20, 30, 40, 2000})
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{10, 20, 30, 40}) {
		t.Fatalf("threshold-bounded sketch should not enforce num: %v", mh.Mins())
	}
}

// invalid DNA characters fail fast, or are skipped with force
func TestInvalidDNA(t *testing.T) {
	mh := NewKmerMinHash(sketchSize, 3, DNA, 42, 0, false)
	err := mh.AddSequence([]byte("ACGTNACGT"), false)
	if err == nil {
		t.Fatal("expected INVALID_DNA for an N")
	}
	if smerror.CodeOf(err) != smerror.CodeInvalidDNA {
		t.Fatalf("expected code %d, got %d", smerror.CodeInvalidDNA, smerror.CodeOf(err))
	}
	// the two good windows before the N share a canonical form
	if mh.Size() != 1 {
		t.Fatalf("intake should stop at the first bad window, got %d mins", mh.Size())
	}

	mh.Clear()
	if err := mh.AddSequence([]byte("ACGTNACGT"), true); err != nil {
		t.Fatal(err)
	}

	// force skips exactly the windows touching the N
	clean := NewKmerMinHash(sketchSize, 3, DNA, 42, 0, false)
	if err := clean.AddSequence([]byte("ACG"), false); err != nil {
		t.Fatal(err)
	}
	if err := clean.AddSequence([]byte("ACGT"), false); err != nil {
		t.Fatal(err)
	}
	if !misc.Uint64SliceEqual(mh.Mins(), clean.Mins()) {
		t.Fatalf("force should skip only the invalid windows: %v vs %v", mh.Mins(), clean.Mins())
	}
}

// lower case input must behave like upper case
func TestLowerCaseInput(t *testing.T) {
	a := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	b := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	if err := a.AddSequence(seqA, false); err != nil {
		t.Fatal(err)
	}
	if err := b.AddSequence(bytes.ToLower(seqA), false); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("case should not change the sketch")
	}
}

// canonical k-mers: a sequence and its reverse complement sketch identically
func TestCanonicalKmers(t *testing.T) {
	a := NewKmerMinHash(0, kmerSize, DNA, 42, 0, false)
	b := NewKmerMinHash(0, kmerSize, DNA, 42, 0, false)
	if err := a.AddSequence(seqB, false); err != nil {
		t.Fatal(err)
	}
	if err := b.AddSequence(alphabet.RevComp(bytes.ToUpper(seqB)), false); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("reverse complement input should yield an identical sketch")
	}
}

// protein translation: all six frames, and strand symmetry
func TestProteinTranslation(t *testing.T) {
	input := randomDNA(30, 7)
	for _, hashFunction := range []HashFunction{Protein, Dayhoff, HP} {
		a := NewKmerMinHash(0, 9, hashFunction, 42, 0, false)
		if err := a.AddSequence(input, false); err != nil {
			t.Fatal(err)
		}
		if a.IsEmpty() {
			t.Fatalf("%v sketch should hold hashes from a 30nt input", hashFunction)
		}
		b := NewKmerMinHash(0, 9, hashFunction, 42, 0, false)
		if err := b.AddSequence(alphabet.RevComp(input), false); err != nil {
			t.Fatal(err)
		}
		if !a.Equal(b) {
			t.Fatalf("%v translation should be strand symmetric", hashFunction)
		}
	}
}

// a direct protein intake must agree with hand-rolled residue windows
func TestAddProtein(t *testing.T) {
	mh := NewKmerMinHash(0, 9, Protein, 42, 0, false)
	if err := mh.AddProtein([]byte("MKLVSWHEL")); err != nil {
		t.Fatal(err)
	}
	// 9 residues, window of 3 -> 7 windows, all distinct here
	if mh.Size() != 7 {
		t.Fatalf("expected 7 minimums, got %d", mh.Size())
	}

	// DNA sketches can't take protein input
	dnaMH := NewKmerMinHash(0, 9, DNA, 42, 0, false)
	if err := dnaMH.AddProtein([]byte("MKLVSWHEL")); smerror.CodeOf(err) != smerror.CodeInvalidHashFunc {
		t.Fatalf("expected INVALID_HASH_FUNCTION, got %v", err)
	}
}

// removal keeps the mins/abunds pairing intact
func TestRemoveHash(t *testing.T) {
	mh := NewKmerMinHash(0, kmerSize, DNA, 42, 0, true)
	mh.AddManyWithAbund([][2]uint64{{10, 2}, {20, 4}, {30, 6}})
	mh.RemoveHash(20)
	mh.RemoveHash(999)
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{10, 30}) || !misc.Uint64SliceEqual(mh.Abunds(), []uint64{2, 6}) {
		t.Fatalf("remove broke the sketch: %v / %v", mh.Mins(), mh.Abunds())
	}
	mh.RemoveMany([]uint64{10, 30})
	if !mh.IsEmpty() {
		t.Fatalf("RemoveMany should have emptied the sketch")
	}
}

// SetAbundances writes exact counts
func TestSetAbundances(t *testing.T) {
	mh := NewKmerMinHash(0, kmerSize, DNA, 42, 0, true)
	mh.AddHash(5)
	if err := mh.SetAbundances(map[uint64]uint64{5: 10, 6: 2}, false); err != nil {
		t.Fatal(err)
	}
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{5, 6}) || !misc.Uint64SliceEqual(mh.Abunds(), []uint64{10, 2}) {
		t.Fatalf("SetAbundances failed: %v / %v", mh.Mins(), mh.Abunds())
	}
	if err := mh.SetAbundances(map[uint64]uint64{7: 1}, true); err != nil {
		t.Fatal(err)
	}
	if !misc.Uint64SliceEqual(mh.Mins(), []uint64{7}) {
		t.Fatalf("SetAbundances with clear failed: %v", mh.Mins())
	}

	unweighted := NewKmerMinHash(0, kmerSize, DNA, 42, 0, false)
	if err := unweighted.SetAbundances(map[uint64]uint64{1: 1}, false); err == nil {
		t.Fatal("SetAbundances should fail on an unweighted sketch")
	}
}

// reconfiguration is only legal on an empty sketch
func TestNonEmptyReconfiguration(t *testing.T) {
	mh := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	mh.AddHash(1)
	if err := mh.SetHashFunction(Protein); smerror.CodeOf(err) != smerror.CodeNonEmptyMinHash {
		t.Fatalf("expected NON_EMPTY_MIN_HASH, got %v", err)
	}
	if err := mh.EnableAbundance(); smerror.CodeOf(err) != smerror.CodeNonEmptyMinHash {
		t.Fatalf("expected NON_EMPTY_MIN_HASH, got %v", err)
	}
	mh.Clear()
	if err := mh.SetHashFunction(Protein); err != nil {
		t.Fatal(err)
	}
	if err := mh.EnableAbundance(); err != nil {
		t.Fatal(err)
	}
}

// md5sum tracks the mins and nothing else
func TestMD5Sum(t *testing.T) {
	a := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	b := NewKmerMinHash(sketchSize, kmerSize, DNA, 42, 0, false)
	a.AddMany([]uint64{3, 1, 2})
	b.AddMany([]uint64{1, 2, 3})
	if a.MD5Sum() != b.MD5Sum() {
		t.Fatalf("identical sketches should share an md5")
	}
	before := a.MD5Sum()
	a.AddHash(4)
	if a.MD5Sum() == before {
		t.Fatalf("md5 should change when the sketch changes")
	}
	if len(before) != 32 {
		t.Fatalf("md5 should be 32 hex characters, got %d", len(before))
	}
}

// serialization round trip
func TestJSONRoundTrip(t *testing.T) {
	mh := NewScaledKmerMinHash(0, 21, Dayhoff, 42, 100, true)
	if err := mh.AddSequence(randomDNA(500, 3), false); err != nil {
		t.Fatal(err)
	}
	mh.AddHashWithAbundance(42, 3)
	mh.AddHashWithAbundance(7777, 1)
	data, err := json.Marshal(mh)
	if err != nil {
		t.Fatal(err)
	}
	decoded := &KmerMinHash{}
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatal(err)
	}
	if !mh.Equal(decoded) {
		t.Fatalf("sketch changed across a JSON round trip")
	}
	if decoded.HashFunction() != Dayhoff || !decoded.TrackAbundance() {
		t.Fatalf("config lost across a JSON round trip")
	}
}

// unordered legacy mins are fixed up on load
func TestJSONUnorderedMins(t *testing.T) {
	blob := []byte(`{"num":0,"ksize":21,"seed":42,"max_hash":0,"mins":[30,10,20],"md5sum":"","abundances":[3,1,2],"molecule":"dna"}`)
	decoded := &KmerMinHash{}
	if err := json.Unmarshal(blob, decoded); err != nil {
		t.Fatal(err)
	}
	if !misc.Uint64SliceEqual(decoded.Mins(), []uint64{10, 20, 30}) {
		t.Fatalf("mins were not re-sorted: %v", decoded.Mins())
	}
	if !misc.Uint64SliceEqual(decoded.Abunds(), []uint64{1, 2, 3}) {
		t.Fatalf("abundances did not follow their mins: %v", decoded.Abunds())
	}
}
