package genome

import (
	"fmt"
	"strconv"

	"github.com/nextstrain/nextclade-sort/alphabet"
	"github.com/pkg/errors"
)

// NucSub is a single nucleotide mutation relative to a reference sequence.
// A deletion is the special case QryNuc.IsGap().
type NucSub struct {
	RefNuc alphabet.Nuc
	Pos    NucRefPosition
	QryNuc alphabet.Nuc
}

// ParseNucSub parses the wire form "{ref}{pos}{qry}", e.g. "A123T", where
// pos is the 1-based position used in Auspice tree JSON and is converted to
// the 0-based NucRefPosition used everywhere internally.
func ParseNucSub(s string) (NucSub, error) {
	if len(s) < 3 {
		return NucSub{}, errors.Errorf("invalid nucleotide mutation %q: too short", s)
	}

	ref, err := alphabet.ParseNuc(s[0])
	if err != nil {
		return NucSub{}, errors.Wrapf(err, "invalid nucleotide mutation %q", s)
	}
	qry, err := alphabet.ParseNuc(s[len(s)-1])
	if err != nil {
		return NucSub{}, errors.Wrapf(err, "invalid nucleotide mutation %q", s)
	}
	posOneBased, err := strconv.Atoi(s[1 : len(s)-1])
	if err != nil {
		return NucSub{}, errors.Wrapf(err, "invalid nucleotide mutation %q: bad position", s)
	}
	if posOneBased < 1 {
		return NucSub{}, errors.Errorf("invalid nucleotide mutation %q: position must be positive", s)
	}

	return NucSub{RefNuc: ref, Pos: NucRefPosition(posOneBased - 1), QryNuc: qry}, nil
}

// IsDeletion reports whether this mutation removes the nucleotide.
func (m NucSub) IsDeletion() bool { return m.QryNuc.IsGap() }

func (m NucSub) String() string {
	return fmt.Sprintf("%s%d%s", m.RefNuc, int(m.Pos)+1, m.QryNuc)
}

// AaSub is a single amino acid mutation relative to a reference peptide,
// named by its CDS.
type AaSub struct {
	CdsName string
	RefAa   alphabet.Aa
	Pos     AaRefPosition
	QryAa   alphabet.Aa
}

// ParseAaSub parses the wire form "{cds}:{ref}{pos}{qry}", e.g. "S:N501Y".
func ParseAaSub(s string) (AaSub, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return ParseAaSubForCds(s[i+1:], s[:i])
		}
	}
	return AaSub{}, errors.Errorf("invalid amino acid mutation %q: missing ':' separator", s)
}

// ParseAaSubForCds parses the inner form "{ref}{pos}{qry}" (no "cds:"
// prefix) for a CDS whose name is already known, e.g. from a branch
// mutation map keyed by CDS name.
func ParseAaSubForCds(inner string, cdsName string) (AaSub, error) {
	if len(inner) < 3 {
		return AaSub{}, errors.Errorf("invalid amino acid mutation %q for CDS %q: too short", inner, cdsName)
	}

	ref, err := alphabet.ParseAa(inner[0])
	if err != nil {
		return AaSub{}, errors.Wrapf(err, "invalid amino acid mutation %q for CDS %q", inner, cdsName)
	}
	qry, err := alphabet.ParseAa(inner[len(inner)-1])
	if err != nil {
		return AaSub{}, errors.Wrapf(err, "invalid amino acid mutation %q for CDS %q", inner, cdsName)
	}
	posOneBased, err := strconv.Atoi(inner[1 : len(inner)-1])
	if err != nil {
		return AaSub{}, errors.Wrapf(err, "invalid amino acid mutation %q for CDS %q: bad position", inner, cdsName)
	}
	if posOneBased < 1 {
		return AaSub{}, errors.Errorf("invalid amino acid mutation %q for CDS %q: position must be positive", inner, cdsName)
	}

	return AaSub{CdsName: cdsName, RefAa: ref, Pos: AaRefPosition(posOneBased - 1), QryAa: qry}, nil
}

// IsDeletion reports whether this mutation removes the residue.
func (m AaSub) IsDeletion() bool { return m.QryAa.IsGap() }

func (m AaSub) String() string {
	return fmt.Sprintf("%s:%s%d%s", m.CdsName, m.RefAa, int(m.Pos)+1, m.QryAa)
}
