package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"unsafe"

	"github.com/will-rowe/smash/src/signature"
	"github.com/will-rowe/smash/src/sketch"
)

// params resolves a compute-parameters handle
func params(ptr C.SmashComputeParameters) *signature.ComputeParameters {
	return handleValue(C.uintptr_t(ptr)).(*signature.ComputeParameters)
}

//export computeparams_new
func computeparams_new() C.SmashComputeParameters {
	defer rescue()
	return C.SmashComputeParameters(newHandle(signature.DefaultComputeParameters()))
}

//export computeparams_free
func computeparams_free(ptr C.SmashComputeParameters) {
	defer rescue()
	freeHandle(C.uintptr_t(ptr))
}

//export computeparams_set_ksizes
func computeparams_set_ksizes(ptr C.SmashComputeParameters, ksizes *C.uint32_t, insize C.uintptr_t) {
	defer rescue()
	values := make([]uint32, int(insize))
	if insize != 0 {
		src := unsafe.Slice((*uint32)(unsafe.Pointer(ksizes)), int(insize))
		copy(values, src)
	}
	params(ptr).Ksizes = values
}

//export computeparams_set_moltype
func computeparams_set_moltype(ptr C.SmashComputeParameters, hashFunction C.uint32_t) {
	defer rescue()
	params(ptr).MolType = sketch.HashFunction(hashFunction)
}

//export computeparams_set_num
func computeparams_set_num(ptr C.SmashComputeParameters, num C.uint32_t) {
	defer rescue()
	params(ptr).Num = uint32(num)
}

//export computeparams_set_scaled
func computeparams_set_scaled(ptr C.SmashComputeParameters, scaled C.uint64_t) {
	defer rescue()
	params(ptr).Scaled = uint64(scaled)
}

//export computeparams_set_seed
func computeparams_set_seed(ptr C.SmashComputeParameters, seed C.uint32_t) {
	defer rescue()
	params(ptr).Seed = uint32(seed)
}

//export computeparams_set_track_abundance
func computeparams_set_track_abundance(ptr C.SmashComputeParameters, track C.bool) {
	defer rescue()
	params(ptr).TrackAbundance = bool(track)
}

//export computeparams_seed
func computeparams_seed(ptr C.SmashComputeParameters) C.uint32_t {
	defer rescue()
	return C.uint32_t(params(ptr).Seed)
}

//export computeparams_num
func computeparams_num(ptr C.SmashComputeParameters) C.uint32_t {
	defer rescue()
	return C.uint32_t(params(ptr).Num)
}

//export computeparams_scaled
func computeparams_scaled(ptr C.SmashComputeParameters) C.uint64_t {
	defer rescue()
	return C.uint64_t(params(ptr).Scaled)
}

//export signature_from_params
func signature_from_params(ptr C.SmashComputeParameters, name *C.char, filename *C.char) C.SmashSignature {
	defer rescue()
	sig, err := params(ptr).BuildSignature(C.GoString(name), C.GoString(filename))
	if err != nil {
		setLastError(err)
		return 0
	}
	return C.SmashSignature(newHandle(sig))
}
