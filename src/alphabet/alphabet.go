/*
	the alphabet package contains the codecs used to turn raw sequence data into hashable words

	it covers DNA reverse complementation, translation to protein via the
	standard codon table, and the Dayhoff and HP reduced protein alphabets
*/
package alphabet

import (
	"github.com/will-rowe/smash/src/smerror"
)

// complementBases is the lookup table used during reverse complementation
var complementBases = [256]byte{
	'A': 'T',
	'T': 'A',
	'C': 'G',
	'G': 'C',
	'N': 'N',
}

// validBases marks the nucleotides allowed in a DNA k-mer
var validBases = [256]bool{
	'A': true,
	'C': true,
	'G': true,
	'T': true,
}

// ValidNucleotide reports whether a base can appear in a DNA k-mer
func ValidNucleotide(base byte) bool {
	return validBases[base]
}

// Complement returns the complement of a single base, or 0 for a base with no complement
func Complement(base byte) byte {
	return complementBases[base]
}

// RevComp returns the reverse complement of a sequence as a new slice
func RevComp(seq []byte) []byte {
	rc := make([]byte, len(seq))
	for i, j := 0, len(seq)-1; j >= 0; i, j = i+1, j-1 {
		rc[i] = complementBases[seq[j]]
	}
	return rc
}

// codonTable is the standard codon table, including N-wobble entries for
// codons whose third position doesn't change the residue
var codonTable = map[string]byte{
	// F
	"TTT": 'F', "TTC": 'F',
	// L
	"TTA": 'L', "TTG": 'L',
	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L', "CTN": 'L',
	// S
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S', "TCN": 'S',
	"AGT": 'S', "AGC": 'S',
	// Y
	"TAT": 'Y', "TAC": 'Y',
	// stop
	"TAA": '*', "TAG": '*', "TGA": '*',
	// C
	"TGT": 'C', "TGC": 'C',
	// W
	"TGG": 'W',
	// P
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P', "CCN": 'P',
	// H
	"CAT": 'H', "CAC": 'H',
	// Q
	"CAA": 'Q', "CAG": 'Q',
	// R
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R', "CGN": 'R',
	"AGA": 'R', "AGG": 'R',
	// I
	"ATT": 'I', "ATC": 'I', "ATA": 'I',
	// M
	"ATG": 'M',
	// T
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T', "ACN": 'T',
	// N
	"AAT": 'N', "AAC": 'N',
	// K
	"AAA": 'K', "AAG": 'K',
	// V
	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V', "GTN": 'V',
	// A
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A', "GCN": 'A',
	// D
	"GAT": 'D', "GAC": 'D',
	// E
	"GAA": 'E', "GAG": 'E',
	// G
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G', "GGN": 'G',
}

/*
	dayhoffTable is the 6-class reduction of the amino acid alphabet

	Dayhoff M. O., Schwartz R. M., Orcutt B. C. (1978). A model of
	evolutionary change in proteins, in Atlas of Protein Sequence and
	Structure.

	| amino acid    | property              | class |
	|---------------|-----------------------|-------|
	| C             | sulfur polymerization | a     |
	| A, G, P, S, T | small                 | b     |
	| D, E, N, Q    | acid and amide        | c     |
	| H, K, R       | basic                 | d     |
	| I, L, M, V    | hydrophobic           | e     |
	| F, W, Y       | aromatic              | f     |
*/
var dayhoffTable = [256]byte{
	'C': 'a',
	'A': 'b', 'G': 'b', 'P': 'b', 'S': 'b', 'T': 'b',
	'D': 'c', 'E': 'c', 'N': 'c', 'Q': 'c',
	'H': 'd', 'K': 'd', 'R': 'd',
	'I': 'e', 'L': 'e', 'M': 'e', 'V': 'e',
	'F': 'f', 'W': 'f', 'Y': 'f',
}

/*
	hpTable is the 2-class hydrophobic/polar reduction of the amino acid alphabet

	Phillips, R., Kondev, J., Theriot, J. (2008). Physical Biology of the Cell.

	| amino acid                   | class |
	|------------------------------|-------|
	| A, F, G, I, L, M, P, V, W, Y | h     |
	| N, C, S, T, D, E, R, H, K, Q | p     |
*/
var hpTable = [256]byte{
	'A': 'h', 'F': 'h', 'G': 'h', 'I': 'h', 'L': 'h',
	'M': 'h', 'P': 'h', 'V': 'h', 'W': 'h', 'Y': 'h',
	'N': 'p', 'C': 'p', 'S': 'p', 'T': 'p', 'D': 'p',
	'E': 'p', 'R': 'p', 'H': 'p', 'K': 'p', 'Q': 'p',
}

// TranslateCodon translates a codon to an amino acid residue.
// Single-base codons translate to 'X', two-base codons are padded with 'N'
// before lookup, ambiguous codons yield 'X' and stops yield '*'.
func TranslateCodon(codon []byte) (byte, error) {
	switch len(codon) {
	case 1:
		return 'X', nil
	case 2:
		padded := [3]byte{codon[0], codon[1], 'N'}
		if aa, ok := codonTable[string(padded[:])]; ok {
			return aa, nil
		}
		return 'X', nil
	case 3:
		if aa, ok := codonTable[string(codon)]; ok {
			return aa, nil
		}
		return 'X', nil
	}
	return 0, smerror.InvalidCodonLength(len(codon))
}

// AAToDayhoff re-encodes an amino acid residue into its Dayhoff class ('X' when unknown)
func AAToDayhoff(aa byte) byte {
	if letter := dayhoffTable[aa]; letter != 0 {
		return letter
	}
	return 'X'
}

// AAToHP re-encodes an amino acid residue into its hydrophobic/polar class ('X' when unknown)
func AAToHP(aa byte) byte {
	if letter := hpTable[aa]; letter != 0 {
		return letter
	}
	return 'X'
}

// ToAA translates a nucleotide sequence in frame 0, dropping any trailing
// partial codon, and optionally re-encodes the residues
func ToAA(seq []byte, dayhoff, hp bool) ([]byte, error) {
	converted := make([]byte, 0, len(seq)/3)
	for i := 0; i+3 <= len(seq); i += 3 {
		residue, err := TranslateCodon(seq[i : i+3])
		if err != nil {
			return nil, err
		}
		if dayhoff {
			converted = append(converted, AAToDayhoff(residue))
		} else if hp {
			converted = append(converted, AAToHP(residue))
		} else {
			converted = append(converted, residue)
		}
	}
	return converted, nil
}
