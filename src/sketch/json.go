package sketch

import (
	"encoding/json"
	"sort"

	"github.com/will-rowe/smash/src/smerror"
)

// sketchRecord is the serialized form of a KmerMinHash.
// Abundances is a pointer so that an empty weighted sketch still serializes
// its (empty) abundance array rather than dropping the field
type sketchRecord struct {
	Num        uint32    `json:"num"`
	Ksize      uint32    `json:"ksize"`
	Seed       uint32    `json:"seed"`
	MaxHash    uint64    `json:"max_hash"`
	Mins       []uint64  `json:"mins"`
	MD5Sum     string    `json:"md5sum"`
	Abundances *[]uint64 `json:"abundances,omitempty"`
	Molecule   string    `json:"molecule"`
}

// MarshalJSON satisfies the json.Marshaler interface
func (mh *KmerMinHash) MarshalJSON() ([]byte, error) {
	record := sketchRecord{
		Num:      mh.num,
		Ksize:    mh.ksize,
		Seed:     mh.seed,
		MaxHash:  mh.maxHash,
		Mins:     mh.mins,
		MD5Sum:   mh.MD5Sum(),
		Molecule: mh.hashFunction.String(),
	}
	if record.Mins == nil {
		record.Mins = []uint64{}
	}
	if mh.abunds != nil {
		abunds := mh.abunds
		record.Abundances = &abunds
	}
	return json.Marshal(record)
}

// UnmarshalJSON satisfies the json.Unmarshaler interface.
// Minimums are re-sorted on the way in (some historic files hold unordered
// mins) and a nonzero threshold zeroes the bottom-k cap
func (mh *KmerMinHash) UnmarshalJSON(data []byte) error {
	var record sketchRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	hashFunction, err := HashFunctionFromString(record.Molecule)
	if err != nil {
		return err
	}

	num := record.Num
	if record.MaxHash != 0 {
		num = 0
	}

	mins := record.Mins
	var abunds []uint64
	if record.Abundances != nil {
		abunds = *record.Abundances
		if abunds == nil {
			abunds = []uint64{}
		}
		if len(abunds) != len(mins) {
			return smerror.New(smerror.CodeSerde, "mins and abundances are unequal lengths (%d vs %d)", len(mins), len(abunds))
		}
		pairs := make([][2]uint64, len(mins))
		for i, min := range mins {
			pairs[i] = [2]uint64{min, abunds[i]}
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i][0] < pairs[j][0] })
		mins = make([]uint64, len(pairs))
		abunds = make([]uint64, len(pairs))
		for i, pair := range pairs {
			mins[i] = pair[0]
			abunds[i] = pair[1]
		}
	} else {
		sort.Slice(mins, func(i, j int) bool { return mins[i] < mins[j] })
	}

	mh.num = num
	mh.ksize = record.Ksize
	mh.seed = record.Seed
	mh.maxHash = record.MaxHash
	mh.hashFunction = hashFunction
	mh.mins = mins
	if mh.mins == nil {
		mh.mins = []uint64{}
	}
	mh.abunds = abunds
	return nil
}
