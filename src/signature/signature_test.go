package signature

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/will-rowe/smash/src/sketch"
	"github.com/will-rowe/smash/src/smerror"
)

// setup variables
var (
	testSeq = []byte("ACAGCAGGAAGGCTTACTGGAGAAACGTATCGACTATAAGAATCGGGTGATGGAACCTCACTCTCCCATCAGCGCACAACATAGTTCGACGGGTATGACC")
)

// newTestSignature builds a signature sketched at two k sizes
func newTestSignature(t *testing.T) *Signature {
	sig := New("test-sig", "reads.fastq")
	require.NoError(t, sig.AddSketch(sketch.NewKmerMinHash(0, 21, sketch.DNA, 42, 0, false)))
	require.NoError(t, sig.AddSketch(sketch.NewKmerMinHash(0, 31, sketch.DNA, 42, 0, false)))
	require.NoError(t, sig.AddSequence(testSeq, false))
	return sig
}

func TestSignatureBasics(t *testing.T) {
	sig := newTestSignature(t)
	assert.Equal(t, "test-sig", sig.Name())
	assert.Equal(t, "reads.fastq", sig.Filename())
	assert.Equal(t, "CC0", sig.License())
	assert.Equal(t, 2, sig.Size())

	// AddSequence must have fanned out to both sketches
	for _, mh := range sig.Sketches() {
		assert.False(t, mh.IsEmpty())
	}
	assert.NotNil(t, sig.SelectSketch(21))
	assert.NotNil(t, sig.SelectSketch(31))
	assert.Nil(t, sig.SelectSketch(51))
	assert.Equal(t, sig.Sketches()[0].MD5Sum(), sig.MD5Sum())
}

func TestSignatureNameFallbacks(t *testing.T) {
	sig := New("", "somewhere.fa")
	assert.Equal(t, "somewhere.fa", sig.Name())
	sig.SetFilename("")
	assert.Equal(t, "", sig.Name())
	require.NoError(t, sig.AddSketch(sketch.NewKmerMinHash(0, 21, sketch.DNA, 42, 0, false)))
	assert.Equal(t, sig.MD5Sum(), sig.Name())
}

func TestSignatureMoltypeAgreement(t *testing.T) {
	sig := New("mixed", "")
	require.NoError(t, sig.AddSketch(sketch.NewKmerMinHash(0, 21, sketch.DNA, 42, 0, false)))
	err := sig.AddSketch(sketch.NewKmerMinHash(0, 21, sketch.Protein, 42, 0, false))
	assert.Equal(t, smerror.CodeMismatchDNAProt, smerror.CodeOf(err))
}

func TestSignatureEquality(t *testing.T) {
	a := newTestSignature(t)
	b := newTestSignature(t)
	assert.True(t, a.Equal(b))

	b.SetName("renamed")
	assert.False(t, a.Equal(b))

	c := newTestSignature(t)
	c.Sketches()[0].AddHash(1)
	assert.False(t, a.Equal(c))
}

func TestJSONEnvelope(t *testing.T) {
	sig := newTestSignature(t)
	data, err := json.Marshal(sig)
	require.NoError(t, err)

	// the envelope carries the constant fields
	envelope := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, "sourmash_signature", envelope["class"])
	assert.Equal(t, "CC0", envelope["license"])
	assert.Equal(t, "0.murmur64", envelope["hash_function"])
	assert.Equal(t, 0.4, envelope["version"])
	sketches, ok := envelope["signatures"].([]interface{})
	require.True(t, ok)
	assert.Len(t, sketches, 2)
}

func TestRoundTrip(t *testing.T) {
	sig := newTestSignature(t)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, sig))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, sig.Equal(loaded[0]))
}

func TestLoadSingleObject(t *testing.T) {
	sig := newTestSignature(t)
	data, err := json.Marshal(sig)
	require.NoError(t, err)

	loaded, err := Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, sig.Equal(loaded[0]))
}

func TestSaveBuffer(t *testing.T) {
	a := newTestSignature(t)
	b := newTestSignature(t)
	b.SetName("second")

	data, err := SaveBuffer(a, b)
	require.NoError(t, err)

	// the buffer must be a gzip stream
	require.True(t, len(data) > 2)
	assert.Equal(t, byte(0x1f), data[0])
	assert.Equal(t, byte(0x8b), data[1])

	loaded, err := LoadBuffer(data)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, a.Equal(loaded[0]))
	assert.True(t, b.Equal(loaded[1]))

	// a plain JSON buffer still loads
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, a))
	loaded, err = LoadBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestFileRoundTrip(t *testing.T) {
	sig := newTestSignature(t)
	path := filepath.Join(t.TempDir(), "test.sig")
	require.NoError(t, WriteFile(path, sig))

	loaded, err := FromPath(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, sig.Equal(loaded[0]))
}

func TestWeightedRoundTrip(t *testing.T) {
	sig := New("weighted", "")
	mh := sketch.NewScaledKmerMinHash(0, 21, sketch.DNA, 42, 10, true)
	require.NoError(t, sig.AddSketch(mh))
	require.NoError(t, sig.AddSequence(testSeq, false))
	require.NoError(t, sig.AddSequence(testSeq, false))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, sig))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.True(t, sig.Equal(loaded[0]))

	// abundances survive the trip
	decoded := loaded[0].Sketches()[0]
	require.True(t, decoded.TrackAbundance())
	for _, abundance := range decoded.Abunds() {
		assert.True(t, abundance >= 2 && abundance%2 == 0)
	}
}
