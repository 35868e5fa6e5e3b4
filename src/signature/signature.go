/*
	the signature package groups sketches of the same data under a single named record

	a signature usually holds the same sequence sketched at several k sizes;
	every contained sketch shares a molecule type
*/
package signature

import (
	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/smerror"
)

// the constant envelope fields
const (
	Class        = "sourmash_signature"
	License      = "CC0"
	HashFunction = "0.murmur64"
	Version      = 0.4
)

// Signature is a named collection of sketches representing one source dataset
type Signature struct {
	name         string
	filename     string
	email        string
	license      string
	hashFunction string
	version      float64
	sketches     []*sketch.KmerMinHash
}

// New is the constructor for an empty Signature
func New(name, filename string) *Signature {
	return &Signature{
		name:         name,
		filename:     filename,
		license:      License,
		hashFunction: HashFunction,
		version:      Version,
	}
}

// Name returns the signature name, falling back to the filename and then the
// md5 of the first sketch
func (sig *Signature) Name() string {
	if sig.name != "" {
		return sig.name
	}
	if sig.filename != "" {
		return sig.filename
	}
	return sig.MD5Sum()
}

// SetName sets the signature name
func (sig *Signature) SetName(name string) {
	sig.name = name
}

// Filename returns the filename the signature was computed from
func (sig *Signature) Filename() string {
	return sig.filename
}

// SetFilename sets the source filename
func (sig *Signature) SetFilename(filename string) {
	sig.filename = filename
}

// License returns the signature license
func (sig *Signature) License() string {
	return sig.license
}

// MD5Sum returns the md5 of the first contained sketch, or an empty string
func (sig *Signature) MD5Sum() string {
	if len(sig.sketches) == 0 {
		return ""
	}
	return sig.sketches[0].MD5Sum()
}

// Size returns the number of contained sketches
func (sig *Signature) Size() int {
	return len(sig.sketches)
}

// Sketches returns the contained sketches in order
func (sig *Signature) Sketches() []*sketch.KmerMinHash {
	return sig.sketches
}

// AddSketch appends a sketch to the signature.
// Every sketch in a signature must share a molecule type; differing k sizes
// are expected
func (sig *Signature) AddSketch(mh *sketch.KmerMinHash) error {
	if len(sig.sketches) != 0 && sig.sketches[0].HashFunction() != mh.HashFunction() {
		return smerror.ErrMismatchDNAProt
	}
	sig.sketches = append(sig.sketches, mh)
	return nil
}

// AddSequence feeds a nucleotide sequence to every contained sketch
func (sig *Signature) AddSequence(seq []byte, force bool) error {
	for _, mh := range sig.sketches {
		if err := mh.AddSequence(seq, force); err != nil {
			return err
		}
	}
	return nil
}

// AddProtein feeds a pre-translated amino acid sequence to every contained sketch
func (sig *Signature) AddProtein(seq []byte) error {
	for _, mh := range sig.sketches {
		if err := mh.AddProtein(seq); err != nil {
			return err
		}
	}
	return nil
}

// SelectSketch returns the first contained sketch matching a k size, or nil
func (sig *Signature) SelectSketch(ksize uint32) *sketch.KmerMinHash {
	for _, mh := range sig.sketches {
		if mh.Ksize() == ksize {
			return mh
		}
	}
	return nil
}

// Equal reports whether two signatures have the same name, filename and
// (ordered) sketches
func (sig *Signature) Equal(other *Signature) bool {
	if sig.name != other.name || sig.filename != other.filename {
		return false
	}
	if len(sig.sketches) != len(other.sketches) {
		return false
	}
	for i, mh := range sig.sketches {
		if !mh.Equal(other.sketches[i]) {
			return false
		}
	}
	return true
}
