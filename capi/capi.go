/*
	Package main in capi exposes the SMASH core over a C ABI.

	Build it as a shared library with:
		go build -buildmode=c-shared -o libsmash.so ./capi

	Handles passed across the boundary are cgo.Handle values; the caller owns
	every handle it receives and must release it with the matching *_free.
	Errors never unwind across the boundary: fallible calls recover any panic,
	store a code and message in the last-error slot and return a sentinel.
	The slot is process-wide and guarded by a mutex (Go offers no per-thread
	storage to a c-shared library); callers sharing the library across threads
	should fetch errors before releasing their own locks.
*/
package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/will-rowe/smash/src/smerror"
)

// lastError is the process-wide error slot read back over the ABI
var lastError struct {
	sync.Mutex
	code    smerror.Code
	message string
}

// setLastError records an error for the caller to collect
func setLastError(err error) {
	lastError.Lock()
	defer lastError.Unlock()
	lastError.code = smerror.CodeOf(err)
	lastError.message = err.Error()
}

// rescue converts a panic into a stored error; the exported calls defer it,
// except the last-error accessors, smash_str_free and smash_slice_free
func rescue() {
	if r := recover(); r != nil {
		lastError.Lock()
		defer lastError.Unlock()
		lastError.code = smerror.CodePanic
		lastError.message = fmt.Sprint(r)
	}
}

//export smash_err_get_last_code
func smash_err_get_last_code() C.uint32_t {
	lastError.Lock()
	defer lastError.Unlock()
	return C.uint32_t(lastError.code)
}

//export smash_err_get_last_message
func smash_err_get_last_message() C.SmashStr {
	lastError.Lock()
	defer lastError.Unlock()
	return ownedStr(lastError.message)
}

//export smash_err_clear
func smash_err_clear() {
	lastError.Lock()
	defer lastError.Unlock()
	lastError.code = smerror.CodeNoError
	lastError.message = ""
}

// ownedStr copies a Go string into C memory; the receiver must free it
func ownedStr(s string) C.SmashStr {
	return C.SmashStr{
		data:  C.CString(s),
		len:   C.uintptr_t(len(s)),
		owned: C.bool(true),
	}
}

//export smash_str_free
func smash_str_free(s *C.SmashStr) {
	if s == nil || !bool(s.owned) || s.data == nil {
		return
	}
	C.free(unsafe.Pointer(s.data))
	s.data = nil
	s.len = 0
	s.owned = C.bool(false)
}

// goBytes copies a (pointer, length) pair into a Go byte slice
func goBytes(data *C.char, length C.uintptr_t) []byte {
	if data == nil || length == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(data), C.int(length))
}

// goHashes copies a C uint64 array into a Go slice
func goHashes(data *C.uint64_t, length C.uintptr_t) []uint64 {
	if data == nil || length == 0 {
		return nil
	}
	hashes := make([]uint64, int(length))
	src := unsafe.Slice((*uint64)(unsafe.Pointer(data)), int(length))
	copy(hashes, src)
	return hashes
}

// hashSlice copies a Go uint64 slice into C memory, setting the length out-parameter
func hashSlice(values []uint64, size *C.uintptr_t) *C.uint64_t {
	*size = C.uintptr_t(len(values))
	if len(values) == 0 {
		return nil
	}
	out := (*C.uint64_t)(C.malloc(C.size_t(len(values) * 8)))
	dst := unsafe.Slice((*uint64)(unsafe.Pointer(out)), len(values))
	copy(dst, values)
	return out
}

//export smash_slice_free
func smash_slice_free(ptr *C.uint64_t) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

// newHandle registers an object and returns its opaque handle
func newHandle(value interface{}) C.uintptr_t {
	return C.uintptr_t(cgo.NewHandle(value))
}

// handleValue resolves a handle back to its object (panicking on a stale handle,
// which rescue turns into a stored error)
func handleValue(handle C.uintptr_t) interface{} {
	return cgo.Handle(handle).Value()
}

// freeHandle releases a handle from the registry
func freeHandle(handle C.uintptr_t) {
	if handle != 0 {
		cgo.Handle(handle).Delete()
	}
}

// main is required for the c-shared build mode; it never runs
func main() {}
