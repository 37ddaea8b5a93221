package genome

// NucRefPosition is a 0-based index into a reference nucleotide sequence.
// It carries its own type identity so that a nucleotide position can never
// be passed where an amino acid position is expected, or vice versa.
type NucRefPosition int

// AaRefPosition is a 0-based index into a named peptide's coordinate space.
type AaRefPosition int
