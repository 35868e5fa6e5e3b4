package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"github.com/will-rowe/smash/src/nodegraph"
)

// ng resolves a nodegraph handle
func ng(ptr C.SmashNodegraph) *nodegraph.Nodegraph {
	return handleValue(C.uintptr_t(ptr)).(*nodegraph.Nodegraph)
}

//export nodegraph_with_tables
func nodegraph_with_tables(tableSize C.uint64_t, nTables C.uintptr_t, ksize C.uintptr_t) C.SmashNodegraph {
	defer rescue()
	return C.SmashNodegraph(newHandle(nodegraph.NewWithTables(uint64(tableSize), int(nTables), int(ksize))))
}

//export nodegraph_free
func nodegraph_free(ptr C.SmashNodegraph) {
	defer rescue()
	freeHandle(C.uintptr_t(ptr))
}

//export nodegraph_count
func nodegraph_count(ptr C.SmashNodegraph, hash C.uint64_t) C.bool {
	defer rescue()
	return C.bool(ng(ptr).Count(uint64(hash)))
}

//export nodegraph_get
func nodegraph_get(ptr C.SmashNodegraph, hash C.uint64_t) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(ng(ptr).Get(uint64(hash)))
}

//export nodegraph_update_mh
func nodegraph_update_mh(ptr C.SmashNodegraph, mhPtr C.SmashKmerMinHash) {
	defer rescue()
	ng(ptr).UpdateSketch(mh(mhPtr))
}

//export nodegraph_matches
func nodegraph_matches(ptr C.SmashNodegraph, mhPtr C.SmashKmerMinHash) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(ng(ptr).Matches(mh(mhPtr)))
}

//export nodegraph_ksize
func nodegraph_ksize(ptr C.SmashNodegraph) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(ng(ptr).Ksize())
}

//export nodegraph_ntables
func nodegraph_ntables(ptr C.SmashNodegraph) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(ng(ptr).Ntables())
}

//export nodegraph_noccupied
func nodegraph_noccupied(ptr C.SmashNodegraph) C.uint64_t {
	defer rescue()
	return C.uint64_t(ng(ptr).Noccupied())
}

//export nodegraph_expected_collisions
func nodegraph_expected_collisions(ptr C.SmashNodegraph) C.double {
	defer rescue()
	return C.double(ng(ptr).ExpectedCollisions())
}

//export nodegraph_similarity
func nodegraph_similarity(ptr, other C.SmashNodegraph) C.double {
	defer rescue()
	return C.double(ng(ptr).Similarity(ng(other)))
}

//export nodegraph_save
func nodegraph_save(ptr C.SmashNodegraph, path *C.char) C.bool {
	defer rescue()
	if err := ng(ptr).Save(C.GoString(path)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export nodegraph_load
func nodegraph_load(path *C.char) C.SmashNodegraph {
	defer rescue()
	loaded, err := nodegraph.Load(C.GoString(path))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashNodegraph(newHandle(loaded))
}
