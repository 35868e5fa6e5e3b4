package seqio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	bioseqio "github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"

	"github.com/will-rowe/smash/src/misc"
)

// the file extensions accepted by the readers
var fastaExts = []string{"fasta", "fna", "fa", "faa"}
var fastqExts = []string{"fastq", "fq"}

// ReadFASTA collects the records of a FASTA file using the biogo parser.
// Nucleotide records are normalised with BaseCheck; protein records are kept
// as read
func ReadFASTA(r io.Reader, protein bool) ([]*Sequence, error) {
	template := linear.NewSeq("", nil, alphabet.DNAgapped)
	if protein {
		template = linear.NewSeq("", nil, alphabet.Protein)
	}
	scanner := bioseqio.NewScanner(fasta.NewReader(r, template))

	sequences := []*Sequence{}
	for scanner.Next() {
		record := scanner.Seq().(*linear.Seq)
		sequence := &Sequence{
			ID:  []byte(record.Name()),
			Seq: []byte(record.Seq.String()),
		}
		if !protein {
			if err := sequence.BaseCheck(); err != nil {
				return nil, err
			}
		}
		sequences = append(sequences, sequence)
	}
	if err := scanner.Error(); err != nil {
		return nil, err
	}
	return sequences, nil
}

// ReadFASTQ collects the reads of a FASTQ file, 4 lines at a time.
// Each read is base checked; a minQual above 0 also quality trims it
func ReadFASTQ(r io.Reader, minQual int) ([]*Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	sequences := []*Sequence{}
	lines := make([][]byte, 0, 4)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
		if len(lines) == 4 {
			read, err := NewFASTQread(lines[0], lines[1], lines[2], lines[3])
			if err != nil {
				return nil, err
			}
			if err := read.BaseCheck(); err != nil {
				return nil, err
			}
			if minQual > 0 {
				read.QualTrim(minQual)
			}
			sequences = append(sequences, &read.Sequence)
			lines = lines[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) != 0 {
		return nil, fmt.Errorf("fastq file has truncated final read")
	}
	return sequences, nil
}

// ReadSequenceFile collects the records of a FASTA/FASTQ file (optionally
// gzipped), dispatching on the file extension
func ReadSequenceFile(path string, protein bool, minQual int) ([]*Sequence, error) {
	if err := misc.CheckFile(path); err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var r io.Reader = fh
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	if misc.CheckExt(path, fastqExts) == nil {
		return ReadFASTQ(r, minQual)
	}
	if misc.CheckExt(path, fastaExts) == nil {
		return ReadFASTA(r, protein)
	}
	return nil, fmt.Errorf("file does not have a recognised FASTA/FASTQ extension: %v", path)
}
