package alphabet

import "fmt"

// Aa is one amino acid letter, in a CDS's own peptide coordinate space.
type Aa byte

const (
	AaGap Aa = '-'
	AaX   Aa = 'X'
)

// ParseAa parses a single-byte amino acid letter. The twenty standard
// residues, the ambiguity codes B, Z and J, the stop symbol '*', and the gap
// and unknown symbols are accepted; anything else is a parse error.
func ParseAa(b byte) (Aa, error) {
	switch b {
	case 'A', 'R', 'N', 'D', 'C', 'Q', 'E', 'G', 'H', 'I',
		'L', 'K', 'M', 'F', 'P', 'S', 'T', 'W', 'Y', 'V',
		'B', 'Z', 'J', '*':
		return Aa(b), nil
	case byte(AaGap), byte(AaX):
		return Aa(b), nil
	default:
		return 0, fmt.Errorf("invalid amino acid letter: %q", b)
	}
}

// IsGap reports whether this letter denotes a deletion.
func (a Aa) IsGap() bool { return a == AaGap }

// IsUnknown reports whether this letter denotes an unresolved residue.
func (a Aa) IsUnknown() bool { return a == AaX }

func (a Aa) String() string { return string(byte(a)) }
