package alphabet

import (
	"testing"
)

// setup variables
var (
	testSeq     = []byte("ACGTTGCA")
	testRevComp = []byte("TGCAACGT")
)

func TestRevComp(t *testing.T) {
	rc := RevComp(testSeq)
	if string(rc) != string(testRevComp) {
		t.Fatalf("expected %v, got %v", string(testRevComp), string(rc))
	}
	// double reverse complement is the identity
	if string(RevComp(rc)) != string(testSeq) {
		t.Fatalf("revcomp is not an involution")
	}
}

func TestValidNucleotide(t *testing.T) {
	for _, base := range []byte("ACGT") {
		if !ValidNucleotide(base) {
			t.Fatalf("%c should be valid", base)
		}
	}
	for _, base := range []byte("NRYacgt-") {
		if ValidNucleotide(base) {
			t.Fatalf("%c should not be valid", base)
		}
	}
}

func TestTranslateCodon(t *testing.T) {
	tests := []struct {
		codon string
		aa    byte
	}{
		{"ATG", 'M'},
		{"TTT", 'F'},
		{"TAA", '*'},
		{"TGA", '*'},
		{"GGN", 'G'},
		{"NNN", 'X'},
		{"GG", 'G'}, // padded to GGN
		{"TA", 'X'}, // padded to TAN, which is ambiguous
		{"A", 'X'},
	}
	for _, test := range tests {
		aa, err := TranslateCodon([]byte(test.codon))
		if err != nil {
			t.Fatal(err)
		}
		if aa != test.aa {
			t.Fatalf("%v should translate to %c, got %c", test.codon, test.aa, aa)
		}
	}

	// anything longer than a codon is an error
	if _, err := TranslateCodon([]byte("ACGT")); err == nil {
		t.Fatal("4 bases should not translate")
	}
}

func TestReducedAlphabets(t *testing.T) {
	// one residue from each Dayhoff class
	dayhoffTests := map[byte]byte{'C': 'a', 'G': 'b', 'E': 'c', 'K': 'd', 'V': 'e', 'W': 'f', '*': 'X'}
	for aa, class := range dayhoffTests {
		if got := AAToDayhoff(aa); got != class {
			t.Fatalf("dayhoff(%c) should be %c, got %c", aa, class, got)
		}
	}
	hpTests := map[byte]byte{'A': 'h', 'W': 'h', 'C': 'p', 'Q': 'p', 'X': 'X'}
	for aa, class := range hpTests {
		if got := AAToHP(aa); got != class {
			t.Fatalf("hp(%c) should be %c, got %c", aa, class, got)
		}
	}
}

func TestToAA(t *testing.T) {
	// ATG GCC TGA -> M A *
	aa, err := ToAA([]byte("ATGGCCTGA"), false, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(aa) != "MA*" {
		t.Fatalf("expected MA*, got %v", string(aa))
	}

	// a trailing partial codon is dropped
	aa, err = ToAA([]byte("ATGGC"), false, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(aa) != "M" {
		t.Fatalf("expected M, got %v", string(aa))
	}

	// re-encodings apply per residue: M->e, A->b (dayhoff); M->h, A->h (hp)
	aa, err = ToAA([]byte("ATGGCC"), true, false)
	if err != nil {
		t.Fatal(err)
	}
	if string(aa) != "eb" {
		t.Fatalf("expected eb, got %v", string(aa))
	}
	aa, err = ToAA([]byte("ATGGCC"), false, true)
	if err != nil {
		t.Fatal(err)
	}
	if string(aa) != "hh" {
		t.Fatalf("expected hh, got %v", string(aa))
	}
}
