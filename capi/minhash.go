package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/smerror"
)

// mh resolves a sketch handle
func mh(ptr C.SmashKmerMinHash) *sketch.KmerMinHash {
	return handleValue(C.uintptr_t(ptr)).(*sketch.KmerMinHash)
}

//export kmerminhash_new
func kmerminhash_new(scaled C.uint64_t, k C.uint32_t, hashFunction C.uint32_t, seed C.uint32_t, trackAbundance C.bool, n C.uint32_t) C.SmashKmerMinHash {
	defer rescue()
	hf := sketch.HashFunction(hashFunction)
	if hf < sketch.DNA || hf > sketch.HP {
		setLastError(smerror.InvalidHashFunction(hf.String()))
		return 0
	}
	newMH := sketch.NewScaledKmerMinHash(uint32(n), uint32(k), hf, uint32(seed), uint64(scaled), bool(trackAbundance))
	return C.SmashKmerMinHash(newHandle(newMH))
}

//export kmerminhash_free
func kmerminhash_free(ptr C.SmashKmerMinHash) {
	defer rescue()
	freeHandle(C.uintptr_t(ptr))
}

//export kmerminhash_add_sequence
func kmerminhash_add_sequence(ptr C.SmashKmerMinHash, sequence *C.char, insize C.uintptr_t, force C.bool) C.bool {
	defer rescue()
	if err := mh(ptr).AddSequence(goBytes(sequence, insize), bool(force)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export kmerminhash_add_protein
func kmerminhash_add_protein(ptr C.SmashKmerMinHash, sequence *C.char, insize C.uintptr_t) C.bool {
	defer rescue()
	if err := mh(ptr).AddProtein(goBytes(sequence, insize)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export kmerminhash_add_word
func kmerminhash_add_word(ptr C.SmashKmerMinHash, word *C.char, insize C.uintptr_t) {
	defer rescue()
	mh(ptr).AddWord(goBytes(word, insize))
}

//export kmerminhash_add_hash
func kmerminhash_add_hash(ptr C.SmashKmerMinHash, hash C.uint64_t) {
	defer rescue()
	mh(ptr).AddHash(uint64(hash))
}

//export kmerminhash_add_hash_with_abundance
func kmerminhash_add_hash_with_abundance(ptr C.SmashKmerMinHash, hash, abundance C.uint64_t) {
	defer rescue()
	mh(ptr).AddHashWithAbundance(uint64(hash), uint64(abundance))
}

//export kmerminhash_add_many
func kmerminhash_add_many(ptr C.SmashKmerMinHash, hashes *C.uint64_t, insize C.uintptr_t) {
	defer rescue()
	mh(ptr).AddMany(goHashes(hashes, insize))
}

//export kmerminhash_remove_hash
func kmerminhash_remove_hash(ptr C.SmashKmerMinHash, hash C.uint64_t) {
	defer rescue()
	mh(ptr).RemoveHash(uint64(hash))
}

//export kmerminhash_remove_many
func kmerminhash_remove_many(ptr C.SmashKmerMinHash, hashes *C.uint64_t, insize C.uintptr_t) {
	defer rescue()
	mh(ptr).RemoveMany(goHashes(hashes, insize))
}

//export kmerminhash_clear
func kmerminhash_clear(ptr C.SmashKmerMinHash) {
	defer rescue()
	mh(ptr).Clear()
}

//export kmerminhash_is_empty
func kmerminhash_is_empty(ptr C.SmashKmerMinHash) C.bool {
	defer rescue()
	return C.bool(mh(ptr).IsEmpty())
}

//export kmerminhash_get_mins_size
func kmerminhash_get_mins_size(ptr C.SmashKmerMinHash) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(mh(ptr).Size())
}

//export kmerminhash_get_mins
func kmerminhash_get_mins(ptr C.SmashKmerMinHash, size *C.uintptr_t) *C.uint64_t {
	defer rescue()
	return hashSlice(mh(ptr).Mins(), size)
}

//export kmerminhash_get_abunds
func kmerminhash_get_abunds(ptr C.SmashKmerMinHash, size *C.uintptr_t) *C.uint64_t {
	defer rescue()
	return hashSlice(mh(ptr).Abunds(), size)
}

//export kmerminhash_md5sum
func kmerminhash_md5sum(ptr C.SmashKmerMinHash) C.SmashStr {
	defer rescue()
	return ownedStr(mh(ptr).MD5Sum())
}

//export kmerminhash_ksize
func kmerminhash_ksize(ptr C.SmashKmerMinHash) C.uint32_t {
	defer rescue()
	return C.uint32_t(mh(ptr).Ksize())
}

//export kmerminhash_seed
func kmerminhash_seed(ptr C.SmashKmerMinHash) C.uint32_t {
	defer rescue()
	return C.uint32_t(mh(ptr).Seed())
}

//export kmerminhash_num
func kmerminhash_num(ptr C.SmashKmerMinHash) C.uint32_t {
	defer rescue()
	return C.uint32_t(mh(ptr).Num())
}

//export kmerminhash_max_hash
func kmerminhash_max_hash(ptr C.SmashKmerMinHash) C.uint64_t {
	defer rescue()
	return C.uint64_t(mh(ptr).MaxHash())
}

//export kmerminhash_hash_function
func kmerminhash_hash_function(ptr C.SmashKmerMinHash) C.uint32_t {
	defer rescue()
	return C.uint32_t(mh(ptr).HashFunction())
}

//export kmerminhash_track_abundance
func kmerminhash_track_abundance(ptr C.SmashKmerMinHash) C.bool {
	defer rescue()
	return C.bool(mh(ptr).TrackAbundance())
}

//export kmerminhash_enable_abundance
func kmerminhash_enable_abundance(ptr C.SmashKmerMinHash) C.bool {
	defer rescue()
	if err := mh(ptr).EnableAbundance(); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export kmerminhash_disable_abundance
func kmerminhash_disable_abundance(ptr C.SmashKmerMinHash) {
	defer rescue()
	mh(ptr).DisableAbundance()
}

//export kmerminhash_merge
func kmerminhash_merge(ptr, other C.SmashKmerMinHash) C.bool {
	defer rescue()
	if err := mh(ptr).Merge(mh(other)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export kmerminhash_intersection
func kmerminhash_intersection(ptr, other C.SmashKmerMinHash) C.SmashKmerMinHash {
	defer rescue()
	common, err := mh(ptr).Intersection(mh(other))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashKmerMinHash(newHandle(common))
}

//export kmerminhash_count_common
func kmerminhash_count_common(ptr, other C.SmashKmerMinHash, downsample C.bool) C.uint64_t {
	defer rescue()
	common, err := mh(ptr).CountCommon(mh(other), bool(downsample))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.uint64_t(common)
}

//export kmerminhash_similarity
func kmerminhash_similarity(ptr, other C.SmashKmerMinHash, ignoreAbundance, downsample C.bool) C.double {
	defer rescue()
	similarity, err := mh(ptr).Similarity(mh(other), bool(ignoreAbundance), bool(downsample))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.double(similarity)
}

//export kmerminhash_downsample_max_hash
func kmerminhash_downsample_max_hash(ptr C.SmashKmerMinHash, maxHash C.uint64_t) C.SmashKmerMinHash {
	defer rescue()
	downsampled, err := mh(ptr).DownsampleMaxHash(uint64(maxHash))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashKmerMinHash(newHandle(downsampled))
}

//export kmerminhash_downsample_num
func kmerminhash_downsample_num(ptr C.SmashKmerMinHash, num C.uint32_t) C.SmashKmerMinHash {
	defer rescue()
	downsampled, err := mh(ptr).DownsampleNum(uint32(num))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashKmerMinHash(newHandle(downsampled))
}
