package nodegraph

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/compress/gzip"

	"github.com/will-rowe/smash/src/smerror"
)

// the khmer/OXLI on-disk format constants
const (
	oxliMagic   = "OXLI"
	oxliVersion = 4
	oxliHtType  = 2
)

// Save writes the graph to disk in OXLI format, gzipping when the path has a .gz extension
func (ng *Nodegraph) Save(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(fh)
		if err := ng.SaveToWriter(gz); err != nil {
			return err
		}
		return gz.Close()
	}
	return ng.SaveToWriter(fh)
}

// SaveToWriter writes the graph in OXLI format
func (ng *Nodegraph) SaveToWriter(w io.Writer) error {
	if _, err := w.Write([]byte(oxliMagic)); err != nil {
		return err
	}
	header := []interface{}{
		uint8(oxliVersion),
		uint8(oxliHtType),
		uint32(ng.ksize),
		uint8(len(ng.tables)),
		ng.occupiedBins,
	}
	for _, field := range header {
		if err := binary.Write(w, binary.LittleEndian, field); err != nil {
			return err
		}
	}
	for _, table := range ng.tables {
		tableSize := uint64(table.Len())
		if err := binary.Write(w, binary.LittleEndian, tableSize); err != nil {
			return err
		}
		if _, err := w.Write(tableBytes(table)); err != nil {
			return err
		}
	}
	return nil
}

// tableBytes renders a bit table as the byte payload used on disk (tablesize/8 + 1 bytes)
func tableBytes(table *bitset.BitSet) []byte {
	byteSize := int(table.Len()/8) + 1
	words := table.Bytes()
	buf := make([]byte, (len(words)+1)*8)
	for i, word := range words {
		binary.LittleEndian.PutUint64(buf[i*8:], word)
	}
	return buf[:byteSize]
}

// Load reads a graph from disk, decompressing when the file is gzipped
func Load(path string) (*Nodegraph, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return FromReader(fh)
}

// FromReader reads an OXLI format graph, sniffing for gzip compression
func FromReader(r io.Reader) (*Nodegraph, error) {
	buffered := bufio.NewReader(r)
	magic, err := buffered.Peek(2)
	if err != nil {
		return nil, err
	}
	var rdr io.Reader = buffered
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		rdr = gz
	}
	return readOxli(rdr)
}

func readOxli(r io.Reader) (*Nodegraph, error) {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, err
	}
	if string(magic) != oxliMagic {
		return nil, smerror.New(smerror.CodeReadData, "does not start with signature %v", oxliMagic)
	}

	var version, htType, nTables uint8
	var ksize uint32
	var occupiedBins uint64
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != oxliVersion {
		return nil, smerror.New(smerror.CodeReadData, "unsupported OXLI version: %d", version)
	}
	if err := binary.Read(r, binary.LittleEndian, &htType); err != nil {
		return nil, err
	}
	if htType != oxliHtType {
		return nil, smerror.New(smerror.CodeReadData, "unsupported table type: %d", htType)
	}
	if err := binary.Read(r, binary.LittleEndian, &ksize); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &nTables); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &occupiedBins); err != nil {
		return nil, err
	}

	tables := make([]*bitset.BitSet, 0, nTables)
	for i := 0; i < int(nTables); i++ {
		var tableSize uint64
		if err := binary.Read(r, binary.LittleEndian, &tableSize); err != nil {
			return nil, err
		}
		byteSize := int(tableSize/8) + 1
		payload := make([]byte, byteSize)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}

		wordsNeeded := int((tableSize + 63) / 64)
		padded := make([]byte, wordsNeeded*8)
		copy(padded, payload)
		words := make([]uint64, wordsNeeded)
		for w := range words {
			words[w] = binary.LittleEndian.Uint64(padded[w*8:])
		}
		tables = append(tables, bitset.FromWithLength(uint(tableSize), words))
	}

	return &Nodegraph{
		tables:       tables,
		ksize:        int(ksize),
		occupiedBins: occupiedBins,
	}, nil
}
