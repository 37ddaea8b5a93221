// Package alphabet holds the small closed letter alphabets (nucleotide and
// amino acid) shared by the minimizer and tree-preprocessing subsystems.
package alphabet

import "fmt"

// Nuc is one IUPAC nucleotide letter.
type Nuc byte

// The letters that can appear in a parsed nucleotide mutation. Anything
// outside this set fails to parse.
const (
	NucA Nuc = 'A'
	NucC Nuc = 'C'
	NucG Nuc = 'G'
	NucT Nuc = 'T'
	NucGap Nuc = '-'
	NucN   Nuc = 'N'
)

var validNucLetters = map[Nuc]bool{
	NucA: true, NucC: true, NucG: true, NucT: true, NucGap: true, NucN: true,
}

// ParseNuc parses a single-byte nucleotide letter.
func ParseNuc(b byte) (Nuc, error) {
	n := Nuc(b)
	if !validNucLetters[n] {
		return 0, fmt.Errorf("invalid nucleotide letter: %q", b)
	}
	return n, nil
}

// IsGap reports whether this letter denotes a deletion.
func (n Nuc) IsGap() bool { return n == NucGap }

// IsUnknown reports whether this letter denotes an unresolved base.
func (n Nuc) IsUnknown() bool { return n == NucN }

func (n Nuc) String() string { return string(byte(n)) }
