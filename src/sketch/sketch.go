/*
	the sketch package contains the bounded MinHash implementation at the centre of SMASH

	a KmerMinHash holds the smallest hash values seen for a set of k-mers,
	under one of two sampling regimes: bottom-k ("num") sampling, which caps
	the sketch at a fixed number of minimums, and modulus ("scaled") sampling,
	which keeps every hash at or below a threshold. An optional parallel
	abundance array turns the sketch into a weighted MinHash
*/
package sketch

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/will-rowe/smash/src/alphabet"
	"github.com/will-rowe/smash/src/hasher"
	"github.com/will-rowe/smash/src/smerror"
)

// HashFunction identifies the molecule type (and therefore codec) of a sketch
type HashFunction uint32

// the molecule types supported by SMASH
const (
	DNA HashFunction = iota + 1
	Protein
	Dayhoff
	HP
)

// String returns the molecule name used in serialized sketches
func (hf HashFunction) String() string {
	switch hf {
	case DNA:
		return "dna"
	case Protein:
		return "protein"
	case Dayhoff:
		return "dayhoff"
	case HP:
		return "hp"
	}
	return "unknown"
}

// HashFunctionFromString parses a molecule name
func HashFunctionFromString(moltype string) (HashFunction, error) {
	switch strings.ToLower(moltype) {
	case "dna":
		return DNA, nil
	case "protein":
		return Protein, nil
	case "dayhoff":
		return Dayhoff, nil
	case "hp":
		return HP, nil
	}
	return 0, smerror.InvalidHashFunction(moltype)
}

// MaxHashForScaled converts a scaled sampling rate to the equivalent hash threshold
func MaxHashForScaled(scaled uint64) uint64 {
	switch scaled {
	case 0:
		return 0
	case 1:
		return math.MaxUint64
	default:
		return uint64(float64(math.MaxUint64) / float64(scaled))
	}
}

// ScaledForMaxHash converts a hash threshold back to its scaled sampling rate
func ScaledForMaxHash(maxHash uint64) uint64 {
	if maxHash == 0 {
		return 0
	}
	scaled := math.Round(float64(math.MaxUint64) / float64(maxHash))
	if scaled >= float64(math.MaxUint64) {
		return math.MaxUint64
	}
	return uint64(scaled)
}

// KmerMinHash is a bounded (optionally weighted) MinHash sketch of a k-mer set
type KmerMinHash struct {
	num          uint32
	ksize        uint32
	hashFunction HashFunction
	seed         uint32
	maxHash      uint64

	// mins is kept strictly ascending at all times
	mins []uint64

	// abunds runs parallel to mins when abundance tracking is enabled, and is nil otherwise
	abunds []uint64
}

// NewKmerMinHash is the constructor for a KmerMinHash
func NewKmerMinHash(num, ksize uint32, hashFunction HashFunction, seed uint32, maxHash uint64, trackAbundance bool) *KmerMinHash {
	capacity := 1000
	if num > 0 {
		capacity = int(num)
	}
	mh := &KmerMinHash{
		num:          num,
		ksize:        ksize,
		hashFunction: hashFunction,
		seed:         seed,
		maxHash:      maxHash,
		mins:         make([]uint64, 0, capacity),
	}
	if trackAbundance {
		mh.abunds = make([]uint64, 0, capacity)
	}
	return mh
}

// NewScaledKmerMinHash is a convenience constructor taking a scaled rate instead of a hash threshold
func NewScaledKmerMinHash(num, ksize uint32, hashFunction HashFunction, seed uint32, scaled uint64, trackAbundance bool) *KmerMinHash {
	return NewKmerMinHash(num, ksize, hashFunction, seed, MaxHashForScaled(scaled), trackAbundance)
}

// Num returns the bottom-k cap of the sketch (0 means uncapped)
func (mh *KmerMinHash) Num() uint32 { return mh.num }

// Ksize returns the k-mer length of the sketch, in input-alphabet residues
func (mh *KmerMinHash) Ksize() uint32 { return mh.ksize }

// AAKsize returns the k-mer length in amino acid residues for protein-family sketches
func (mh *KmerMinHash) AAKsize() uint32 { return mh.ksize / 3 }

// Seed returns the hash seed
func (mh *KmerMinHash) Seed() uint32 { return mh.seed }

// MaxHash returns the scaled sampling threshold (0 means no threshold)
func (mh *KmerMinHash) MaxHash() uint64 { return mh.maxHash }

// Scaled returns the scaled sampling rate derived from the hash threshold
func (mh *KmerMinHash) Scaled() uint64 { return ScaledForMaxHash(mh.maxHash) }

// HashFunction returns the molecule type of the sketch
func (mh *KmerMinHash) HashFunction() HashFunction { return mh.hashFunction }

// IsDNA reports whether the sketch hashes canonical DNA k-mers
func (mh *KmerMinHash) IsDNA() bool { return mh.hashFunction == DNA }

// IsProtein reports whether the sketch hashes plain amino acid k-mers
func (mh *KmerMinHash) IsProtein() bool { return mh.hashFunction == Protein }

// TrackAbundance reports whether the sketch keeps per-hash multiplicities
func (mh *KmerMinHash) TrackAbundance() bool { return mh.abunds != nil }

// Size returns the number of minimums currently held
func (mh *KmerMinHash) Size() int { return len(mh.mins) }

// IsEmpty reports whether the sketch holds no minimums
func (mh *KmerMinHash) IsEmpty() bool { return len(mh.mins) == 0 }

// Mins returns a copy of the retained hash values, ascending
func (mh *KmerMinHash) Mins() []uint64 {
	mins := make([]uint64, len(mh.mins))
	copy(mins, mh.mins)
	return mins
}

// Abunds returns a copy of the abundances (parallel to Mins), or nil for an unweighted sketch
func (mh *KmerMinHash) Abunds() []uint64 {
	if mh.abunds == nil {
		return nil
	}
	abunds := make([]uint64, len(mh.abunds))
	copy(abunds, mh.abunds)
	return abunds
}

// EachMin calls fn for every retained hash in ascending order
func (mh *KmerMinHash) EachMin(fn func(uint64)) {
	for _, min := range mh.mins {
		fn(min)
	}
}

// abundAt returns the multiplicity at a position, defaulting to 1 for unweighted sketches
func (mh *KmerMinHash) abundAt(pos int) uint64 {
	if mh.abunds == nil {
		return 1
	}
	return mh.abunds[pos]
}

// Clear empties the sketch but keeps its configuration
func (mh *KmerMinHash) Clear() {
	mh.mins = mh.mins[:0]
	if mh.abunds != nil {
		mh.abunds = mh.abunds[:0]
	}
}

// Copy returns an independently-owned copy of the sketch
func (mh *KmerMinHash) Copy() *KmerMinHash {
	newMH := &KmerMinHash{
		num:          mh.num,
		ksize:        mh.ksize,
		hashFunction: mh.hashFunction,
		seed:         mh.seed,
		maxHash:      mh.maxHash,
		mins:         append([]uint64(nil), mh.mins...),
	}
	if mh.abunds != nil {
		newMH.abunds = append([]uint64(nil), mh.abunds...)
	}
	return newMH
}

// SetHashFunction changes the molecule type of an empty sketch
func (mh *KmerMinHash) SetHashFunction(hashFunction HashFunction) error {
	if mh.hashFunction == hashFunction {
		return nil
	}
	if !mh.IsEmpty() {
		return smerror.NonEmptyMinHash("hash_function")
	}
	mh.hashFunction = hashFunction
	return nil
}

// EnableAbundance switches an empty sketch to abundance tracking
func (mh *KmerMinHash) EnableAbundance() error {
	if mh.abunds != nil {
		return nil
	}
	if !mh.IsEmpty() {
		return smerror.NonEmptyMinHash("track_abundance=True")
	}
	mh.abunds = make([]uint64, 0, cap(mh.mins))
	return nil
}

// DisableAbundance drops abundance tracking (and any collected counts)
func (mh *KmerMinHash) DisableAbundance() {
	mh.abunds = nil
}

// bottomKActive reports whether the bottom-k cap applies; the cap is only
// enforced in the absence of a scaled threshold
func (mh *KmerMinHash) bottomKActive() bool {
	return mh.num > 0 && mh.maxHash == 0
}

// AddHash adds a single hash value to the sketch
func (mh *KmerMinHash) AddHash(hash uint64) {
	mh.AddHashWithAbundance(hash, 1)
}

// AddHashWithAbundance adds a hash value with an explicit multiplicity.
// A hash above a nonzero threshold is rejected; a duplicate hash bumps the
// abundance of a weighted sketch and is a no-op otherwise; a full bottom-k
// sketch drops its largest minimum to admit a smaller newcomer
func (mh *KmerMinHash) AddHashWithAbundance(hash, abundance uint64) {
	if mh.maxHash != 0 && hash > mh.maxHash {
		return
	}
	if abundance == 0 {
		return
	}

	size := len(mh.mins)
	if size == 0 {
		mh.mins = append(mh.mins, hash)
		if mh.abunds != nil {
			mh.abunds = append(mh.abunds, abundance)
		}
		return
	}

	// a full bottom-k sketch can't be improved by a hash beyond its current maximum
	if mh.bottomKActive() && size >= int(mh.num) && hash > mh.mins[size-1] {
		return
	}

	pos := sort.Search(size, func(i int) bool { return mh.mins[i] >= hash })
	if pos < size && mh.mins[pos] == hash {
		if mh.abunds != nil {
			mh.abunds[pos] += abundance
		}
		return
	}

	mh.mins = append(mh.mins, 0)
	copy(mh.mins[pos+1:], mh.mins[pos:])
	mh.mins[pos] = hash
	if mh.abunds != nil {
		mh.abunds = append(mh.abunds, 0)
		copy(mh.abunds[pos+1:], mh.abunds[pos:])
		mh.abunds[pos] = abundance
	}

	if mh.bottomKActive() && len(mh.mins) > int(mh.num) {
		mh.mins = mh.mins[:mh.num]
		if mh.abunds != nil {
			mh.abunds = mh.abunds[:mh.num]
		}
	}
}

// SetHashWithAbundance sets the exact multiplicity for a hash, inserting it if absent
func (mh *KmerMinHash) SetHashWithAbundance(hash, abundance uint64) {
	size := len(mh.mins)
	pos := sort.Search(size, func(i int) bool { return mh.mins[i] >= hash })
	if pos < size && mh.mins[pos] == hash {
		if mh.abunds != nil {
			mh.abunds[pos] = abundance
		}
		return
	}
	mh.AddHashWithAbundance(hash, abundance)
}

// SetAbundances sets exact multiplicities from a map, optionally clearing the sketch first
func (mh *KmerMinHash) SetAbundances(values map[uint64]uint64, clear bool) error {
	if mh.abunds == nil {
		return smerror.New(smerror.CodeMsg, "track_abundance=True is required to set abundances")
	}
	if clear {
		mh.Clear()
	}
	hashes := make([]uint64, 0, len(values))
	for hash := range values {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	for _, hash := range hashes {
		mh.SetHashWithAbundance(hash, values[hash])
	}
	return nil
}

// RemoveHash removes a hash (and its abundance) from the sketch if present
func (mh *KmerMinHash) RemoveHash(hash uint64) {
	size := len(mh.mins)
	pos := sort.Search(size, func(i int) bool { return mh.mins[i] >= hash })
	if pos == size || mh.mins[pos] != hash {
		return
	}
	mh.mins = append(mh.mins[:pos], mh.mins[pos+1:]...)
	if mh.abunds != nil {
		mh.abunds = append(mh.abunds[:pos], mh.abunds[pos+1:]...)
	}
}

// RemoveMany folds RemoveHash over a set of hashes
func (mh *KmerMinHash) RemoveMany(hashes []uint64) {
	for _, hash := range hashes {
		mh.RemoveHash(hash)
	}
}

// AddMany folds AddHash over a set of hashes
func (mh *KmerMinHash) AddMany(hashes []uint64) {
	for _, hash := range hashes {
		mh.AddHash(hash)
	}
}

// AddManyWithAbund folds AddHashWithAbundance over (hash, abundance) pairs
func (mh *KmerMinHash) AddManyWithAbund(pairs [][2]uint64) {
	for _, pair := range pairs {
		mh.AddHashWithAbundance(pair[0], pair[1])
	}
}

// AddFrom re-adds every minimum held by another sketch
func (mh *KmerMinHash) AddFrom(other *KmerMinHash) {
	for pos, hash := range other.mins {
		mh.AddHashWithAbundance(hash, other.abundAt(pos))
	}
}

// ToPairs returns the sketch contents as (hash, abundance) pairs, using 1 for unweighted sketches
func (mh *KmerMinHash) ToPairs() [][2]uint64 {
	pairs := make([][2]uint64, len(mh.mins))
	for pos, hash := range mh.mins {
		pairs[pos] = [2]uint64{hash, mh.abundAt(pos)}
	}
	return pairs
}

// AddWord hashes a word with the sketch seed and adds it
func (mh *KmerMinHash) AddWord(word []byte) {
	mh.AddHash(hasher.Hash(word, mh.seed))
}

// AddSequence decomposes a nucleotide sequence into k-mers and adds them to the sketch.
// DNA sketches hash the canonical form of each window and reject windows holding
// non-ACGT characters (unless force is set, which skips them). Protein-family
// sketches translate all six frames before hashing
func (mh *KmerMinHash) AddSequence(seq []byte, force bool) error {
	ksize := int(mh.ksize)
	if len(seq) < ksize {
		return nil
	}
	sequence := bytes.ToUpper(seq)
	rc := alphabet.RevComp(sequence)

	if mh.IsDNA() {
		return mh.addDNA(sequence, rc, force)
	}
	return mh.addTranslated(sequence, rc)
}

// addDNA slides a window over the sequence, hashing the canonical form of each valid k-mer
func (mh *KmerMinHash) addDNA(sequence, rc []byte, force bool) error {
	ksize := int(mh.ksize)
	length := len(sequence)

	// scan for invalid characters once, tracking the most recent offender
	scanned := 0
	lastInvalid := -1

	for i := 0; i+ksize <= length; i++ {
		for scanned < i+ksize {
			if !alphabet.ValidNucleotide(sequence[scanned]) {
				lastInvalid = scanned
			}
			scanned++
		}
		kmer := sequence[i : i+ksize]
		if lastInvalid >= i {
			if !force {
				return smerror.InvalidDNA(string(kmer))
			}
			continue
		}

		// the reverse complement window moves backwards as the forward window advances
		krc := rc[length-ksize-i : length-i]
		if bytes.Compare(kmer, krc) <= 0 {
			mh.AddWord(kmer)
		} else {
			mh.AddWord(krc)
		}
	}
	return nil
}

// addTranslated hashes amino acid k-mers from all three forward and all three
// reverse complement reading frames
func (mh *KmerMinHash) addTranslated(sequence, rc []byte) error {
	aaKsize := int(mh.ksize / 3)
	if aaKsize == 0 {
		return nil
	}
	dayhoff := mh.hashFunction == Dayhoff
	hp := mh.hashFunction == HP

	for frame := 0; frame < 3; frame++ {
		if frame >= len(sequence) {
			break
		}
		aa, err := alphabet.ToAA(sequence[frame:], dayhoff, hp)
		if err != nil {
			return err
		}
		for i := 0; i+aaKsize <= len(aa); i++ {
			mh.AddWord(aa[i : i+aaKsize])
		}
		aaRC, err := alphabet.ToAA(rc[frame:], dayhoff, hp)
		if err != nil {
			return err
		}
		for i := 0; i+aaKsize <= len(aaRC); i++ {
			mh.AddWord(aaRC[i : i+aaKsize])
		}
	}
	return nil
}

// AddProtein adds k-mers from a pre-translated amino acid sequence.
// The window length is ksize/3 and Dayhoff/HP sketches re-encode each residue
// before hashing; DNA sketches can't accept protein input
func (mh *KmerMinHash) AddProtein(seq []byte) error {
	aaKsize := int(mh.ksize / 3)
	if len(seq) < aaKsize || aaKsize == 0 {
		return nil
	}
	sequence := bytes.ToUpper(seq)

	switch mh.hashFunction {
	case Protein:
		for i := 0; i+aaKsize <= len(sequence); i++ {
			mh.AddWord(sequence[i : i+aaKsize])
		}
		return nil
	case Dayhoff, HP:
		encoded := make([]byte, len(sequence))
		for i, aa := range sequence {
			if mh.hashFunction == Dayhoff {
				encoded[i] = alphabet.AAToDayhoff(aa)
			} else {
				encoded[i] = alphabet.AAToHP(aa)
			}
		}
		for i := 0; i+aaKsize <= len(encoded); i++ {
			mh.AddWord(encoded[i : i+aaKsize])
		}
		return nil
	}
	return smerror.InvalidHashFunction(mh.hashFunction.String())
}

// MD5Sum returns the lowercase hex MD5 digest of the decimal renderings of
// the minimums, in ascending order
func (mh *KmerMinHash) MD5Sum() string {
	digest := md5.New()
	for _, min := range mh.mins {
		fmt.Fprintf(digest, "%d", min)
	}
	return hex.EncodeToString(digest.Sum(nil))
}

// Equal reports whether two sketches have the same configuration and contents
func (mh *KmerMinHash) Equal(other *KmerMinHash) bool {
	if mh.CheckCompatible(other) != nil {
		return false
	}
	if mh.TrackAbundance() != other.TrackAbundance() {
		return false
	}
	if len(mh.mins) != len(other.mins) {
		return false
	}
	for i, min := range mh.mins {
		if other.mins[i] != min {
			return false
		}
		if mh.abunds != nil && mh.abunds[i] != other.abunds[i] {
			return false
		}
	}
	return true
}

// CheckCompatible reports the first configuration mismatch preventing two
// sketches from being compared or combined
func (mh *KmerMinHash) CheckCompatible(other *KmerMinHash) error {
	if mh.ksize != other.ksize {
		return smerror.ErrMismatchKSizes
	}
	if mh.hashFunction != other.hashFunction {
		return smerror.ErrMismatchDNAProt
	}
	if mh.maxHash != other.maxHash {
		return smerror.ErrMismatchScaled
	}
	if mh.seed != other.seed {
		return smerror.ErrMismatchSeed
	}
	if mh.num != other.num {
		return smerror.ErrMismatchNum
	}
	return nil
}
