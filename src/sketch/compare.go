package sketch

import (
	"math"

	"github.com/will-rowe/smash/src/smerror"
)

// Merge unions another sketch into the receiver.
// Matching hashes add their abundances; if the bottom-k cap is active and the
// union overflows it, only the smallest num minimums survive. The receiver is
// untouched when the sketches are incompatible
func (mh *KmerMinHash) Merge(other *KmerMinHash) error {
	if err := mh.CheckCompatible(other); err != nil {
		return err
	}

	merged := make([]uint64, 0, len(mh.mins)+len(other.mins))
	var mergedAbunds []uint64
	if mh.abunds != nil {
		mergedAbunds = make([]uint64, 0, cap(merged))
	}

	i, j := 0, 0
	for i < len(mh.mins) && j < len(other.mins) {
		switch {
		case mh.mins[i] < other.mins[j]:
			merged = append(merged, mh.mins[i])
			if mergedAbunds != nil {
				mergedAbunds = append(mergedAbunds, mh.abundAt(i))
			}
			i++
		case mh.mins[i] > other.mins[j]:
			merged = append(merged, other.mins[j])
			if mergedAbunds != nil {
				mergedAbunds = append(mergedAbunds, other.abundAt(j))
			}
			j++
		default:
			merged = append(merged, mh.mins[i])
			if mergedAbunds != nil {
				mergedAbunds = append(mergedAbunds, mh.abundAt(i)+other.abundAt(j))
			}
			i++
			j++
		}
	}
	for ; i < len(mh.mins); i++ {
		merged = append(merged, mh.mins[i])
		if mergedAbunds != nil {
			mergedAbunds = append(mergedAbunds, mh.abundAt(i))
		}
	}
	for ; j < len(other.mins); j++ {
		merged = append(merged, other.mins[j])
		if mergedAbunds != nil {
			mergedAbunds = append(mergedAbunds, other.abundAt(j))
		}
	}

	if mh.bottomKActive() && len(merged) > int(mh.num) {
		merged = merged[:mh.num]
		if mergedAbunds != nil {
			mergedAbunds = mergedAbunds[:mh.num]
		}
	}

	mh.mins = merged
	if mh.abunds != nil {
		mh.abunds = mergedAbunds
	}
	return nil
}

// Intersection returns a new sketch holding the hashes common to both
// operands, configured like the receiver. In a weighted result each hash
// carries the sum of the two contributing abundances
func (mh *KmerMinHash) Intersection(other *KmerMinHash) (*KmerMinHash, error) {
	if err := mh.CheckCompatible(other); err != nil {
		return nil, err
	}
	common := NewKmerMinHash(mh.num, mh.ksize, mh.hashFunction, mh.seed, mh.maxHash, mh.abunds != nil)

	i, j := 0, 0
	for i < len(mh.mins) && j < len(other.mins) {
		switch {
		case mh.mins[i] < other.mins[j]:
			i++
		case mh.mins[i] > other.mins[j]:
			j++
		default:
			common.AddHashWithAbundance(mh.mins[i], mh.abundAt(i)+other.abundAt(j))
			i++
			j++
		}
	}
	return common, nil
}

// countCommon is the sorted-sequence intersection cardinality
func countCommon(a, b []uint64) uint64 {
	var count uint64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			count++
			i++
			j++
		}
	}
	return count
}

// CountCommon returns the number of hashes shared by two sketches.
// With downsample set, a differing scaled threshold is reconciled by
// downsampling the finer sketch to the coarser threshold first
func (mh *KmerMinHash) CountCommon(other *KmerMinHash, downsample bool) (uint64, error) {
	if downsample && mh.maxHash != other.maxHash {
		first, second := orderByThreshold(mh, other)
		downsampled, err := second.DownsampleMaxHash(first.maxHash)
		if err != nil {
			return 0, err
		}
		return first.CountCommon(downsampled, false)
	}
	if err := mh.CheckCompatible(other); err != nil {
		return 0, err
	}
	return countCommon(mh.mins, other.mins), nil
}

// Jaccard estimates the Jaccard similarity of the two underlying k-mer sets:
// the shared hash count over the size of the union, where the union is itself
// subject to the receiver's retention rules
func (mh *KmerMinHash) Jaccard(other *KmerMinHash) (float64, error) {
	if err := mh.CheckCompatible(other); err != nil {
		return 0, err
	}

	combined := mh.Copy()
	if err := combined.Merge(other); err != nil {
		return 0, err
	}

	// count the shared hashes which survived the union's retention rules
	common := sortedIntersect(mh.mins, other.mins)
	shared := countCommon(common, combined.mins)

	unionSize := uint64(len(combined.mins))
	if unionSize == 0 {
		unionSize = 1
	}
	return float64(shared) / float64(unionSize), nil
}

// sortedIntersect returns the common elements of two ascending slices
func sortedIntersect(a, b []uint64) []uint64 {
	out := make([]uint64, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// AngularSimilarity compares two weighted sketches by the angle between their
// abundance vectors, aligned on hash identity: 1 - 2*acos(cosine)/pi.
// An empty operand (or one with no abundances) scores 0
func (mh *KmerMinHash) AngularSimilarity(other *KmerMinHash) (float64, error) {
	if err := mh.CheckCompatible(other); err != nil {
		return 0, err
	}
	if mh.abunds == nil || other.abunds == nil {
		return 0, nil
	}

	var prod, aSq, bSq uint64
	for _, a := range mh.abunds {
		aSq += a * a
	}
	for _, b := range other.abunds {
		bSq += b * b
	}

	i, j := 0, 0
	for i < len(mh.mins) && j < len(other.mins) {
		switch {
		case mh.mins[i] < other.mins[j]:
			i++
		case mh.mins[i] > other.mins[j]:
			j++
		default:
			prod += mh.abunds[i] * other.abunds[j]
			i++
			j++
		}
	}

	normA := math.Sqrt(float64(aSq))
	normB := math.Sqrt(float64(bSq))
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	cosine := math.Min(float64(prod)/(normA*normB), 1.0)
	distance := 2 * math.Acos(cosine) / math.Pi
	return 1 - distance, nil
}

// Similarity estimates the similarity of two sketches: Jaccard for unweighted
// comparisons (or when abundance is ignored), angular similarity otherwise.
// With downsample set, mismatched sampling parameters are reconciled first by
// taking the coarser threshold or the smaller bottom-k cap
func (mh *KmerMinHash) Similarity(other *KmerMinHash, ignoreAbundance, downsample bool) (float64, error) {
	if downsample && mh.maxHash != other.maxHash {
		first, second := orderByThreshold(mh, other)
		downsampled, err := second.DownsampleMaxHash(first.maxHash)
		if err != nil {
			return 0, err
		}
		return first.Similarity(downsampled, ignoreAbundance, false)
	}
	if downsample && mh.num != other.num {
		first, second := mh, other
		if other.num != 0 && (first.num == 0 || other.num < first.num) {
			first, second = other, mh
		}
		downsampled, err := second.DownsampleNum(first.num)
		if err != nil {
			return 0, err
		}
		return first.Similarity(downsampled, ignoreAbundance, false)
	}
	if ignoreAbundance || mh.abunds == nil || other.abunds == nil {
		return mh.Jaccard(other)
	}
	return mh.AngularSimilarity(other)
}

// orderByThreshold returns the operands as (coarser, finer), treating a zero
// threshold as unbounded
func orderByThreshold(a, b *KmerMinHash) (*KmerMinHash, *KmerMinHash) {
	if effectiveMaxHash(a.maxHash) < effectiveMaxHash(b.maxHash) {
		return a, b
	}
	return b, a
}

func effectiveMaxHash(maxHash uint64) uint64 {
	if maxHash == 0 {
		return math.MaxUint64
	}
	return maxHash
}

// DownsampleMaxHash returns a copy of the sketch restricted to hashes at or
// below a coarser threshold; the result is identical to a sketch built from
// scratch at that threshold
func (mh *KmerMinHash) DownsampleMaxHash(maxHash uint64) (*KmerMinHash, error) {
	if mh.maxHash != 0 && effectiveMaxHash(maxHash) > mh.maxHash {
		return nil, smerror.New(smerror.CodeMsg, "new max_hash %d is above the current max_hash %d", maxHash, mh.maxHash)
	}
	newMH := NewKmerMinHash(mh.num, mh.ksize, mh.hashFunction, mh.seed, maxHash, mh.abunds != nil)
	newMH.AddManyWithAbund(mh.ToPairs())
	return newMH, nil
}

// DownsampleNum returns a copy of the sketch retaining only the newNum smallest minimums
func (mh *KmerMinHash) DownsampleNum(newNum uint32) (*KmerMinHash, error) {
	if mh.num != 0 && newNum > mh.num {
		return nil, smerror.New(smerror.CodeMsg, "new num %d is above the current num %d", newNum, mh.num)
	}
	newMH := NewKmerMinHash(newNum, mh.ksize, mh.hashFunction, mh.seed, mh.maxHash, mh.abunds != nil)
	newMH.AddManyWithAbund(mh.ToPairs())
	return newMH, nil
}
