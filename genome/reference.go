package genome

import "github.com/nextstrain/nextclade-sort/alphabet"

// Reference is a named reference sequence plus the named peptides
// translated from it, used by both the minimizer sorter (as a named
// dataset) and the tree preprocessor (as the genotype origin).
type Reference struct {
	Name string
	Seq  []alphabet.Nuc

	// Translation maps CDS name to its reference peptide sequence.
	Translation map[string][]alphabet.Aa
}

// NucAt returns the reference nucleotide at a 0-based position.
func (r *Reference) NucAt(pos NucRefPosition) alphabet.Nuc {
	return r.Seq[pos]
}

// AaAt returns the reference amino acid at a 0-based position within the
// named CDS's peptide.
func (r *Reference) AaAt(cdsName string, pos AaRefPosition) alphabet.Aa {
	return r.Translation[cdsName][pos]
}

// CdsNames returns the CDS names in the translation, in map iteration
// order; the order is not stable between calls.
func (r *Reference) CdsNames() []string {
	names := make([]string, 0, len(r.Translation))
	for name := range r.Translation {
		names = append(names, name)
	}
	return names
}
