package seqio

import (
	"strings"
	"testing"
)

// setup variables
var (
	l1 = []byte("@0_chr1_0_186027_186126_263_(Bla)BIC-1:GQ260093:1-885:885")
	l2 = []byte("acagcaggaaggcttactggagaaacgtatcgactataagaatcgggtgatggaacctcactctcccatcagcgcacaacatagttcgacgggtatgacc")
	l3 = []byte("+")
	l4 = []byte("====@==@AAD?>D@@==DACBC?@BB@C==AB==A@D>AD==?CB==@=B?=A>D?=DB=?>>D@EB===??=@C=?C>@>@B>=?C@@>=====?@>=")
)

// test results
var (
	expectedUpperCase  = []byte("ACAGCAGGAAGGCTTACTGGAGAAACGTATCGACTATAAGAATCGGGTGATGGAACCTCACTCTCCCATCAGCGCACAACATAGTTCGACGGGTATGACC")
	expectedTrimmedSeq = []byte("GAAGGCTTACTGGAGAAACGTATCGACTATAAGAATCGGGTGATGGAACCTCACTCTCCCATCAGCGCACAACATAGTTCGAC")
)

// test functions to check equality of slices
func ByteSliceCheck(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// begin the tests
func TestReadConstructor(t *testing.T) {
	_, err := NewFASTQread(l1, l2, l3, l4)
	if err != nil {
		t.Fatalf("could not generate FASTQ read using NewFASTQread")
	}
}

func TestSeqMethods(t *testing.T) {
	read, err := NewFASTQread(l1, l2, l3, l4)
	if err != nil {
		t.Fatalf("could not generate FASTQ read using NewFASTQread")
	}
	read.BaseCheck()
	if ByteSliceCheck(read.Seq, expectedUpperCase) == false {
		t.Errorf("Bases2Upper method failed")
	}
	read.QualTrim(30)
	if ByteSliceCheck(read.Seq, expectedTrimmedSeq) == false {
		t.Errorf("QualTrim method failed")
	}
}

func TestBaseCheckNonACTGN(t *testing.T) {
	sequence := &Sequence{Seq: []byte("acgu-Rtag")}
	if err := sequence.BaseCheck(); err != nil {
		t.Fatal(err)
	}
	if string(sequence.Seq) != "ACGNNNTAG" {
		t.Errorf("BaseCheck should upper case and replace odd bases with N: %v", string(sequence.Seq))
	}
}

func TestReadFASTQ(t *testing.T) {
	record := strings.Join([]string{string(l1), string(l2), string(l3), string(l4)}, "\n") + "\n"
	sequences, err := ReadFASTQ(strings.NewReader(record+record), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sequences) != 2 {
		t.Fatalf("expected 2 reads, got %d", len(sequences))
	}

	// the reader base checks each read on the way in
	if !ByteSliceCheck(sequences[0].Seq, expectedUpperCase) {
		t.Errorf("ReadFASTQ did not base check the sequence line")
	}

	// a minQual setting quality trims each read
	trimmed, err := ReadFASTQ(strings.NewReader(record), 30)
	if err != nil {
		t.Fatal(err)
	}
	if !ByteSliceCheck(trimmed[0].Seq, expectedTrimmedSeq) {
		t.Errorf("ReadFASTQ did not quality trim the read")
	}

	// a truncated record should fail
	if _, err := ReadFASTQ(strings.NewReader(record+string(l1)+"\n"), 0); err == nil {
		t.Errorf("truncated fastq should fail")
	}
}

func TestReadFASTA(t *testing.T) {
	fastaData := ">seq1 test record\nacgtacgtacgt\nACGT\n>seq2\nTTTTGGGG\n"
	sequences, err := ReadFASTA(strings.NewReader(fastaData), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(sequences) != 2 {
		t.Fatalf("expected 2 records, got %d", len(sequences))
	}

	// wrapped lines are joined and the bases checked
	if string(sequences[0].Seq) != "ACGTACGTACGTACGT" {
		t.Errorf("ReadFASTA did not join and base check wrapped sequence lines: %v", string(sequences[0].Seq))
	}
	if string(sequences[1].Seq) != "TTTTGGGG" {
		t.Errorf("unexpected second record: %v", string(sequences[1].Seq))
	}
}
