package signature

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/will-rowe/smash/src/sketch"
)

// sigRecord is the serialized envelope for a signature
type sigRecord struct {
	Class        string                `json:"class"`
	Email        string                `json:"email"`
	HashFunction string                `json:"hash_function"`
	Filename     string                `json:"filename"`
	Name         string                `json:"name,omitempty"`
	License      string                `json:"license"`
	Signatures   []*sketch.KmerMinHash `json:"signatures"`
	Version      float64               `json:"version"`
}

// MarshalJSON satisfies the json.Marshaler interface
func (sig *Signature) MarshalJSON() ([]byte, error) {
	record := sigRecord{
		Class:        Class,
		Email:        sig.email,
		HashFunction: sig.hashFunction,
		Filename:     sig.filename,
		Name:         sig.name,
		License:      sig.license,
		Signatures:   sig.sketches,
		Version:      sig.version,
	}
	if record.Signatures == nil {
		record.Signatures = []*sketch.KmerMinHash{}
	}
	return json.Marshal(record)
}

// UnmarshalJSON satisfies the json.Unmarshaler interface
func (sig *Signature) UnmarshalJSON(data []byte) error {
	record := sigRecord{
		License:      License,
		HashFunction: HashFunction,
		Version:      Version,
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	sig.name = record.Name
	sig.filename = record.Filename
	sig.email = record.Email
	sig.license = record.License
	sig.hashFunction = record.HashFunction
	sig.version = record.Version
	sig.sketches = record.Signatures
	return nil
}

// Save writes signatures to a writer as a JSON array
func Save(w io.Writer, sigs ...*Signature) error {
	return json.NewEncoder(w).Encode(sigs)
}

// Load reads signatures from a reader, accepting either a JSON array or a
// single signature object
func Load(r io.Reader) ([]*Signature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) != 0 && trimmed[0] == '{' {
		sig := &Signature{}
		if err := json.Unmarshal(trimmed, sig); err != nil {
			return nil, err
		}
		return []*Signature{sig}, nil
	}
	var sigs []*Signature
	if err := json.Unmarshal(data, &sigs); err != nil {
		return nil, err
	}
	return sigs, nil
}

// SaveBuffer serializes signatures to a gzip-compressed JSON array
func SaveBuffer(sigs ...*Signature) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := Save(gz, sigs...); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadBuffer deserializes signatures from a save buffer, sniffing for the
// gzip magic so that plain JSON buffers still load
func LoadBuffer(data []byte) ([]*Signature, error) {
	if len(data) > 1 && data[0] == 0x1f && data[1] == 0x8b {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return Load(gz)
	}
	return Load(bytes.NewReader(data))
}

// FromPath loads signatures from a JSON file (gzipped or not)
func FromPath(path string) ([]*Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBuffer(data)
}

// WriteFile saves signatures to a JSON file
func WriteFile(path string, sigs ...*Signature) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	return Save(fh, sigs...)
}
