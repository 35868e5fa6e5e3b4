package main

/*
#include <stdlib.h>
#include "smash.h"
*/
import "C"

import (
	"bytes"
	"unsafe"

	"github.com/will-rowe/smash/src/signature"
	"github.com/will-rowe/smash/src/smerror"
)

// sig resolves a signature handle
func sig(ptr C.SmashSignature) *signature.Signature {
	return handleValue(C.uintptr_t(ptr)).(*signature.Signature)
}

//export signature_new
func signature_new() C.SmashSignature {
	defer rescue()
	return C.SmashSignature(newHandle(signature.New("", "")))
}

//export signature_free
func signature_free(ptr C.SmashSignature) {
	defer rescue()
	freeHandle(C.uintptr_t(ptr))
}

//export signature_set_name
func signature_set_name(ptr C.SmashSignature, name *C.char) C.bool {
	defer rescue()
	goName := C.GoString(name)
	if err := smerror.ValidUTF8([]byte(goName)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	sig(ptr).SetName(goName)
	return C.bool(true)
}

//export signature_get_name
func signature_get_name(ptr C.SmashSignature) C.SmashStr {
	defer rescue()
	return ownedStr(sig(ptr).Name())
}

//export signature_set_filename
func signature_set_filename(ptr C.SmashSignature, filename *C.char) {
	defer rescue()
	sig(ptr).SetFilename(C.GoString(filename))
}

//export signature_get_filename
func signature_get_filename(ptr C.SmashSignature) C.SmashStr {
	defer rescue()
	return ownedStr(sig(ptr).Filename())
}

//export signature_get_license
func signature_get_license(ptr C.SmashSignature) C.SmashStr {
	defer rescue()
	return ownedStr(sig(ptr).License())
}

//export signature_len
func signature_len(ptr C.SmashSignature) C.uintptr_t {
	defer rescue()
	return C.uintptr_t(sig(ptr).Size())
}

//export signature_push_mh
func signature_push_mh(ptr C.SmashSignature, mhPtr C.SmashKmerMinHash) C.bool {
	defer rescue()
	if err := sig(ptr).AddSketch(mh(mhPtr)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export signature_first_mh
func signature_first_mh(ptr C.SmashSignature) C.SmashKmerMinHash {
	defer rescue()
	sketches := sig(ptr).Sketches()
	if len(sketches) == 0 {
		return 0
	}
	return C.SmashKmerMinHash(newHandle(sketches[0]))
}

//export signature_add_sequence
func signature_add_sequence(ptr C.SmashSignature, sequence *C.char, insize C.uintptr_t, force C.bool) C.bool {
	defer rescue()
	if err := sig(ptr).AddSequence(goBytes(sequence, insize), bool(force)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export signature_add_protein
func signature_add_protein(ptr C.SmashSignature, sequence *C.char, insize C.uintptr_t) C.bool {
	defer rescue()
	if err := sig(ptr).AddProtein(goBytes(sequence, insize)); err != nil {
		setLastError(err)
		return C.bool(false)
	}
	return C.bool(true)
}

//export signature_eq
func signature_eq(ptr, other C.SmashSignature) C.bool {
	defer rescue()
	return C.bool(sig(ptr).Equal(sig(other)))
}

//export signature_save_json
func signature_save_json(ptr C.SmashSignature) C.SmashStr {
	defer rescue()
	var buf bytes.Buffer
	if err := signature.Save(&buf, sig(ptr)); err != nil {
		setLastError(err)
		return C.SmashStr{}
	}
	return ownedStr(buf.String())
}

//export signatures_save_buffer
func signatures_save_buffer(ptr *C.SmashSignature, insize C.uintptr_t, osize *C.uintptr_t) *C.char {
	defer rescue()
	handles := unsafe.Slice((*C.uintptr_t)(unsafe.Pointer(ptr)), int(insize))
	sigs := make([]*signature.Signature, len(handles))
	for i, handle := range handles {
		sigs[i] = handleValue(handle).(*signature.Signature)
	}
	data, err := signature.SaveBuffer(sigs...)
	if err != nil {
		setLastError(err)
		*osize = 0
		return nil
	}
	*osize = C.uintptr_t(len(data))
	return (*C.char)(C.CBytes(data))
}

//export signatures_load_buffer
func signatures_load_buffer(data *C.char, insize C.uintptr_t, osize *C.uintptr_t) *C.SmashSignature {
	defer rescue()
	sigs, err := signature.LoadBuffer(goBytes(data, insize))
	if err != nil {
		setLastError(err)
		*osize = 0
		return nil
	}
	*osize = C.uintptr_t(len(sigs))
	if len(sigs) == 0 {
		return nil
	}
	out := (*C.SmashSignature)(C.malloc(C.size_t(len(sigs)) * C.size_t(unsafe.Sizeof(C.uintptr_t(0)))))
	dst := unsafe.Slice((*C.uintptr_t)(unsafe.Pointer(out)), len(sigs))
	for i, s := range sigs {
		dst[i] = newHandle(s)
	}
	return out
}

//export signatures_slice_free
func signatures_slice_free(ptr *C.SmashSignature) {
	defer rescue()
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

//export smash_buffer_free
func smash_buffer_free(data *C.char) {
	defer rescue()
	if data != nil {
		C.free(unsafe.Pointer(data))
	}
}
