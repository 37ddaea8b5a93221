package genome

import (
	"github.com/nextstrain/nextclade-sort/alphabet"
	"github.com/pkg/errors"
)

// NucMutationMap is a mapping from reference position to the current query
// letter at that position, maintained so that a position is present if and
// only if the current letter differs from the reference. It is a plain Go
// map: iteration order is not sorted by position and not defined.
type NucMutationMap map[NucRefPosition]alphabet.Nuc

// Clone returns an independent copy, so that a child node in a tree walk
// can mutate its own accumulator without perturbing its parent's or its
// siblings'.
func (m NucMutationMap) Clone() NucMutationMap {
	clone := make(NucMutationMap, len(m))
	for pos, nuc := range m {
		clone[pos] = nuc
	}
	return clone
}

// Substitutions returns a copy of m with gap (deletion) entries removed.
func (m NucMutationMap) Substitutions() NucMutationMap {
	subs := make(NucMutationMap, len(m))
	for pos, nuc := range m {
		if !nuc.IsGap() {
			subs[pos] = nuc
		}
	}
	return subs
}

// ApplyNucSub applies a single branch mutation to m in place, following the
// rules in spec.md §4.6:
//
//  1. if m already has an entry at mutation.Pos, it must equal
//     mutation.RefNuc, or the branch is inconsistent with the path from the
//     root to this branch;
//  2. otherwise mutation.RefNuc must equal the reference letter at that
//     position, or the branch is inconsistent with the reference sequence;
//  3. if the mutation's query letter equals the reference letter, the
//     entry is removed (a reversion), otherwise it is set.
//
// Composing ApplyNucSub calls along a root-to-node path yields exactly the
// node's absolute genotype relative to the reference.
func ApplyNucSub(m NucMutationMap, mutation NucSub, refNuc alphabet.Nuc) error {
	if prior, ok := m[mutation.Pos]; ok {
		if prior != mutation.RefNuc {
			return errors.Errorf(
				"mutation %s is inconsistent with the state inferred from earlier mutations at this position on the path from the root: expected origin state %q, observed %q",
				mutation, prior, mutation.RefNuc,
			)
		}
	} else if mutation.RefNuc != refNuc {
		return errors.Errorf(
			"mutation %s is inconsistent with the reference sequence: expected origin state %q, observed %q",
			mutation, refNuc, mutation.RefNuc,
		)
	}

	if mutation.QryNuc == refNuc {
		delete(m, mutation.Pos)
	} else {
		m[mutation.Pos] = mutation.QryNuc
	}
	return nil
}

// AaMutationMap is the amino acid analogue of NucMutationMap, scoped to one
// CDS's peptide coordinate space.
type AaMutationMap map[AaRefPosition]alphabet.Aa

// Clone returns an independent copy.
func (m AaMutationMap) Clone() AaMutationMap {
	clone := make(AaMutationMap, len(m))
	for pos, aa := range m {
		clone[pos] = aa
	}
	return clone
}

// Substitutions returns a copy of m with gap (deletion) entries removed.
func (m AaMutationMap) Substitutions() AaMutationMap {
	subs := make(AaMutationMap, len(m))
	for pos, aa := range m {
		if !aa.IsGap() {
			subs[pos] = aa
		}
	}
	return subs
}

// ApplyAaSub is the amino acid analogue of ApplyNucSub.
func ApplyAaSub(m AaMutationMap, mutation AaSub, refAa alphabet.Aa) error {
	if prior, ok := m[mutation.Pos]; ok {
		if prior != mutation.RefAa {
			return errors.Errorf(
				"mutation %s is inconsistent with the state inferred from earlier mutations at this position on the path from the root: expected origin state %q, observed %q",
				mutation, prior, mutation.RefAa,
			)
		}
	} else if mutation.RefAa != refAa {
		return errors.Errorf(
			"mutation %s is inconsistent with the reference peptide: expected origin state %q, observed %q",
			mutation, refAa, mutation.RefAa,
		)
	}

	if mutation.QryAa == refAa {
		delete(m, mutation.Pos)
	} else {
		m[mutation.Pos] = mutation.QryAa
	}
	return nil
}
