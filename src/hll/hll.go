/*
	the hll package contains a HyperLogLog cardinality estimator for k-mer hashes

	registers are updated khmer-style: the low p bits of a hash pick the
	register and the leading-zero run of the remaining bits sets its rank.
	Estimates use linear counting for sparse registers, the standard
	bias-corrected harmonic mean in the middle, and a collision correction
	once the raw estimate approaches the 64-bit hash space
*/
package hll

import (
	"math"
	"math/bits"

	"github.com/will-rowe/smash/src/hasher"
	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/smerror"
)

// the bounds on register precision
const (
	minPrecision = 4
	maxPrecision = 18
)

// HyperLogLog is the cardinality estimator type
type HyperLogLog struct {
	registers []uint8
	p         uint
	ksize     int
}

// New is the constructor for a HyperLogLog with an explicit precision
func New(p uint, ksize int) (*HyperLogLog, error) {
	if p < minPrecision || p > maxPrecision {
		return nil, smerror.ErrHLLPrecisionBounds
	}
	return &HyperLogLog{
		registers: make([]uint8, 1<<p),
		p:         p,
		ksize:     ksize,
	}, nil
}

// NewWithErrorRate is a constructor which derives the precision from a target error rate
func NewWithErrorRate(errorRate float64, ksize int) (*HyperLogLog, error) {
	p := math.Ceil(math.Log2(math.Pow(1.04/errorRate, 2)))
	if p < minPrecision || p > maxPrecision || math.IsNaN(p) {
		return nil, smerror.ErrHLLPrecisionBounds
	}
	return New(uint(p), ksize)
}

// Ksize returns the k-mer length associated with the estimator
func (hll *HyperLogLog) Ksize() int {
	return hll.ksize
}

// Precision returns the register precision
func (hll *HyperLogLog) Precision() uint {
	return hll.p
}

// Size returns the number of registers
func (hll *HyperLogLog) Size() int {
	return len(hll.registers)
}

// AddHash folds a hash value into the registers
func (hll *HyperLogLog) AddHash(hash uint64) {
	value := hash >> hll.p
	index := hash & ((1 << hll.p) - 1)
	leftmost := uint8(bits.LeadingZeros64(value) + 1 - int(hll.p))
	if leftmost > hll.registers[index] {
		hll.registers[index] = leftmost
	}
}

// AddWord hashes a word with the default seed and adds it
func (hll *HyperLogLog) AddWord(word []byte) {
	hll.AddHash(hasher.Hash(word, hasher.DefaultSeed))
}

// AddMany folds AddHash over a set of hashes
func (hll *HyperLogLog) AddMany(hashes []uint64) {
	for _, hash := range hashes {
		hll.AddHash(hash)
	}
}

// AddSketch folds in every minimum retained by a sketch, in ascending order
func (hll *HyperLogLog) AddSketch(mh *sketch.KmerMinHash) {
	mh.EachMin(hll.AddHash)
}

// CheckCompatible reports the first mismatch preventing two estimators from being merged
func (hll *HyperLogLog) CheckCompatible(other *HyperLogLog) error {
	if hll.ksize != other.ksize {
		return smerror.ErrMismatchKSizes
	}
	if len(hll.registers) != len(other.registers) {
		return smerror.ErrMismatchNum
	}
	return nil
}

// Merge takes the register-wise maximum of two compatible estimators
func (hll *HyperLogLog) Merge(other *HyperLogLog) error {
	if err := hll.CheckCompatible(other); err != nil {
		return err
	}
	for i, register := range other.registers {
		if register > hll.registers[i] {
			hll.registers[i] = register
		}
	}
	return nil
}

// Copy returns an independently-owned copy of the estimator
func (hll *HyperLogLog) Copy() *HyperLogLog {
	return &HyperLogLog{
		registers: append([]uint8(nil), hll.registers...),
		p:         hll.p,
		ksize:     hll.ksize,
	}
}

// twoTo64 is the size of the hash space, used by the large-range correction
const twoTo64 = float64(1 << 63) * 2

// Cardinality estimates the number of distinct hashes seen
func (hll *HyperLogLog) Cardinality() uint64 {
	m := float64(len(hll.registers))

	zeros := 0
	sum := 0.0
	for _, register := range hll.registers {
		if register == 0 {
			zeros++
		}
		sum += math.Pow(2, -float64(register))
	}

	// sparse registers estimate better with linear counting
	if zeros != 0 {
		linear := m * math.Log(m/float64(zeros))
		if linear <= 2.5*m {
			return uint64(linear)
		}
	}

	estimate := alpha(len(hll.registers)) * m * m / sum
	if estimate < twoTo64/30 {
		return uint64(estimate)
	}

	// large range: correct for hash collisions in the 64-bit space
	corrected := -twoTo64 * math.Log(1-estimate/twoTo64)
	if corrected >= twoTo64 || math.IsNaN(corrected) || math.IsInf(corrected, 0) {
		return math.MaxUint64
	}
	return uint64(corrected)
}

// alpha is the standard bias correction constant for a register count
func alpha(m int) float64 {
	switch {
	case m <= 16:
		return 0.673
	case m <= 32:
		return 0.697
	case m <= 64:
		return 0.709
	}
	return 0.7213 / (1.0 + 1.079/float64(m))
}

// Union estimates the cardinality of the union of two estimators
func (hll *HyperLogLog) Union(other *HyperLogLog) (uint64, error) {
	combined := hll.Copy()
	if err := combined.Merge(other); err != nil {
		return 0, err
	}
	return combined.Cardinality(), nil
}

// Intersection estimates the cardinality of the intersection of two
// estimators by inclusion-exclusion
func (hll *HyperLogLog) Intersection(other *HyperLogLog) (uint64, error) {
	union, err := hll.Union(other)
	if err != nil {
		return 0, err
	}
	a := hll.Cardinality()
	b := other.Cardinality()
	if a+b < union {
		return 0, nil
	}
	return a + b - union, nil
}

// Containment estimates the fraction of the receiver's hashes present in the other estimator
func (hll *HyperLogLog) Containment(other *HyperLogLog) (float64, error) {
	cardinality := hll.Cardinality()
	if cardinality == 0 {
		return 0, nil
	}
	intersect, err := hll.Intersection(other)
	if err != nil {
		return 0, err
	}
	return float64(intersect) / float64(cardinality), nil
}

// Similarity estimates the Jaccard similarity of two estimators
func (hll *HyperLogLog) Similarity(other *HyperLogLog) (float64, error) {
	union, err := hll.Union(other)
	if err != nil {
		return 0, err
	}
	if union == 0 {
		return 0, nil
	}
	intersect, err := hll.Intersection(other)
	if err != nil {
		return 0, err
	}
	return float64(intersect) / float64(union), nil
}

// Matches counts the sketch minimums whose register already covers their
// rank, i.e. those the estimator could have seen
func (hll *HyperLogLog) Matches(mh *sketch.KmerMinHash) int {
	matches := 0
	mh.EachMin(func(hash uint64) {
		value := hash >> hll.p
		index := hash & ((1 << hll.p) - 1)
		rank := uint8(bits.LeadingZeros64(value) + 1 - int(hll.p))
		if hll.registers[index] >= rank {
			matches++
		}
	})
	return matches
}
