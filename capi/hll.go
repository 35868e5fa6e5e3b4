package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"github.com/will-rowe/smash/src/hll"
)

// estimator resolves a HyperLogLog handle
func estimator(ptr C.SmashHyperLogLog) *hll.HyperLogLog {
	return handleValue(C.uintptr_t(ptr)).(*hll.HyperLogLog)
}

//export hll_new
func hll_new(p C.uintptr_t, ksize C.uintptr_t) C.SmashHyperLogLog {
	defer rescue()
	est, err := hll.New(uint(p), int(ksize))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashHyperLogLog(newHandle(est))
}

//export hll_with_error_rate
func hll_with_error_rate(errorRate C.double, ksize C.uintptr_t) C.SmashHyperLogLog {
	defer rescue()
	est, err := hll.NewWithErrorRate(float64(errorRate), int(ksize))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashHyperLogLog(newHandle(est))
}

//export hll_free
func hll_free(ptr C.SmashHyperLogLog) {
	defer rescue()
	freeHandle(C.uintptr_t(ptr))
}

//export hll_add_hash
func hll_add_hash(ptr C.SmashHyperLogLog, hash C.uint64_t) {
	defer rescue()
	estimator(ptr).AddHash(uint64(hash))
}

//export hll_update_mh
func hll_update_mh(ptr C.SmashHyperLogLog, mhPtr C.SmashKmerMinHash) {
	defer rescue()
	estimator(ptr).AddSketch(mh(mhPtr))
}

//export hll_cardinality
func hll_cardinality(ptr C.SmashHyperLogLog) C.uint64_t {
	defer rescue()
	return C.uint64_t(estimator(ptr).Cardinality())
}

//export hll_ksize
func hll_ksize(ptr C.SmashHyperLogLog) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(estimator(ptr).Ksize())
}

//export hll_merge
func hll_merge(ptr, other C.SmashHyperLogLog) C.bool {
	defer rescue()
	if err := estimator(ptr).Merge(estimator(other)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export hll_similarity
func hll_similarity(ptr, other C.SmashHyperLogLog) C.double {
	defer rescue()
	similarity, err := estimator(ptr).Similarity(estimator(other))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.double(similarity)
}

//export hll_containment
func hll_containment(ptr, other C.SmashHyperLogLog) C.double {
	defer rescue()
	containment, err := estimator(ptr).Containment(estimator(other))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.double(containment)
}

//export hll_intersection_size
func hll_intersection_size(ptr, other C.SmashHyperLogLog) C.uint64_t {
	defer rescue()
	intersect, err := estimator(ptr).Intersection(estimator(other))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.uint64_t(intersect)
}

//export hll_matches_mh
func hll_matches_mh(ptr C.SmashHyperLogLog, mhPtr C.SmashKmerMinHash) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(estimator(ptr).Matches(mh(mhPtr)))
}

//export hll_save
func hll_save(ptr C.SmashHyperLogLog, path *C.char) C.bool {
	defer rescue()
	if err := estimator(ptr).Dump(C.GoString(path)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export hll_load
func hll_load(path *C.char) C.SmashHyperLogLog {
	defer rescue()
	loaded := &hll.HyperLogLog{}
	if err := loaded.Load(C.GoString(path)); err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashHyperLogLog(newHandle(loaded))
}
