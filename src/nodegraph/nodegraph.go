/*
	the nodegraph package contains a Bloom-like counting graph for k-mer hashes

	a Nodegraph spreads each hash over several prime-sized bit tables; it
	answers presence queries for the hashes retained by a sketch and keeps
	enough bookkeeping to estimate its own false positive rate
*/
package nodegraph

import (
	"math"
	"math/big"

	"github.com/bits-and-blooms/bitset"

	"github.com/will-rowe/smash/src/sketch"
)

// Nodegraph is the Bloom-like counting graph type
type Nodegraph struct {
	tables       []*bitset.BitSet
	ksize        int
	occupiedBins uint64
	uniqueKmers  uint64
}

// New is the constructor for a Nodegraph with explicit table sizes
func New(tableSizes []uint64, ksize int) *Nodegraph {
	tables := make([]*bitset.BitSet, len(tableSizes))
	for i, size := range tableSizes {
		tables[i] = bitset.New(uint(size))
	}
	return &Nodegraph{
		tables: tables,
		ksize:  ksize,
	}
}

// NewWithTables is a constructor which picks descending odd primes strictly
// below a starting table size
func NewWithTables(tableSize uint64, nTables, ksize int) *Nodegraph {
	tableSizes := make([]uint64, 0, nTables)
	candidate := tableSize - 1
	if candidate < 2 {
		candidate = 2
	}
	if candidate%2 == 0 {
		candidate--
	}
	for len(tableSizes) != nTables {
		if big.NewInt(int64(candidate)).ProbablyPrime(20) {
			tableSizes = append(tableSizes, candidate)
		}
		if candidate == 1 {
			break
		}
		candidate -= 2
	}
	return New(tableSizes, ksize)
}

// Ksize returns the k-mer length associated with the graph
func (ng *Nodegraph) Ksize() int {
	return ng.ksize
}

// Ntables returns the number of bit tables
func (ng *Nodegraph) Ntables() int {
	return len(ng.tables)
}

// Tablesizes returns the size of each bit table
func (ng *Nodegraph) Tablesizes() []uint64 {
	sizes := make([]uint64, len(ng.tables))
	for i, table := range ng.tables {
		sizes[i] = uint64(table.Len())
	}
	return sizes
}

// Noccupied returns the number of set bins in the first table
func (ng *Nodegraph) Noccupied() uint64 {
	return ng.occupiedBins
}

// UniqueKmers returns the number of hashes which were new when counted
func (ng *Nodegraph) UniqueKmers() uint64 {
	return ng.uniqueKmers
}

// Count marks a hash in every table and reports whether it was new to any of them
func (ng *Nodegraph) Count(hash uint64) bool {
	isNewKmer := false
	for i, table := range ng.tables {
		bin := uint(hash % uint64(table.Len()))
		if !table.Test(bin) {
			table.Set(bin)
			if i == 0 {
				ng.occupiedBins++
			}
			isNewKmer = true
		}
	}
	if isNewKmer {
		ng.uniqueKmers++
	}
	return isNewKmer
}

// Get returns 1 if a hash is (probably) present in the graph, 0 otherwise
func (ng *Nodegraph) Get(hash uint64) int {
	for _, table := range ng.tables {
		bin := uint(hash % uint64(table.Len()))
		if !table.Test(bin) {
			return 0
		}
	}
	return 1
}

// UpdateSketch counts every hash retained by a sketch, in ascending order
func (ng *Nodegraph) UpdateSketch(mh *sketch.KmerMinHash) {
	mh.EachMin(func(hash uint64) {
		ng.Count(hash)
	})
}

// Matches returns the number of sketch minimums present in the graph
func (ng *Nodegraph) Matches(mh *sketch.KmerMinHash) int {
	matches := 0
	mh.EachMin(func(hash uint64) {
		if ng.Get(hash) == 1 {
			matches++
		}
	})
	return matches
}

// Merge unions another graph's tables into the receiver
func (ng *Nodegraph) Merge(other *Nodegraph) {
	for i, table := range ng.tables {
		table.InPlaceUnion(other.tables[i])
	}
	ng.occupiedBins = uint64(ng.tables[0].Count())
}

// Similarity returns the bitwise Jaccard similarity of two graphs
func (ng *Nodegraph) Similarity(other *Nodegraph) float64 {
	var intersect, union uint64
	for i, table := range ng.tables {
		intersect += uint64(table.IntersectionCardinality(other.tables[i]))
		union += uint64(table.UnionCardinality(other.tables[i]))
	}
	if union == 0 {
		return 0
	}
	return float64(intersect) / float64(union)
}

// Containment returns the fraction of the receiver's bits found in the other graph
func (ng *Nodegraph) Containment(other *Nodegraph) float64 {
	var intersect, size uint64
	for i, table := range ng.tables {
		intersect += uint64(table.IntersectionCardinality(other.tables[i]))
		size += uint64(table.Count())
	}
	if size == 0 {
		return 0
	}
	return float64(intersect) / float64(size)
}

// ExpectedCollisions estimates the graph's false positive rate from its occupancy
func (ng *Nodegraph) ExpectedCollisions() float64 {
	minSize := uint(math.MaxUint32)
	for _, table := range ng.tables {
		if table.Len() < minSize {
			minSize = table.Len()
		}
	}
	fpOne := float64(ng.occupiedBins) / float64(minSize)
	return math.Pow(fpOne, float64(len(ng.tables)))
}

// Equal reports whether two graphs hold identical tables and occupancy
func (ng *Nodegraph) Equal(other *Nodegraph) bool {
	if ng.ksize != other.ksize || ng.occupiedBins != other.occupiedBins || len(ng.tables) != len(other.tables) {
		return false
	}
	for i, table := range ng.tables {
		if !table.Equal(other.tables[i]) {
			return false
		}
	}
	return true
}
