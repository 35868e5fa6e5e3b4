package signature

import (
	"github.com/will-rowe/smash/src/sketch"
)

// ComputeParameters collects the knobs controlling how signatures are built
type ComputeParameters struct {
	Ksizes         []uint32
	MolType        sketch.HashFunction
	Num            uint32
	Scaled         uint64
	Seed           uint32
	TrackAbundance bool
}

// DefaultComputeParameters returns the stock parameter set: a scaled DNA
// sketch at k=31
func DefaultComputeParameters() *ComputeParameters {
	return &ComputeParameters{
		Ksizes:  []uint32{31},
		MolType: sketch.DNA,
		Scaled:  1000,
		Seed:    42,
	}
}

// BuildSignature creates an empty signature holding one sketch per requested k size
func (params *ComputeParameters) BuildSignature(name, filename string) (*Signature, error) {
	sig := New(name, filename)
	for _, ksize := range params.Ksizes {
		mh := sketch.NewScaledKmerMinHash(params.Num, ksize, params.MolType, params.Seed, params.Scaled, params.TrackAbundance)
		if err := sig.AddSketch(mh); err != nil {
			return nil, err
		}
	}
	return sig, nil
}
