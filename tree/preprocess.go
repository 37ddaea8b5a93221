package tree

import (
	"github.com/nextstrain/nextclade-sort/genome"
	"github.com/pkg/errors"
)

// Preprocess walks graph depth-first from its unique root and attaches to
// every node the absolute nucleotide and per-CDS amino-acid genotype
// implied by the chain of branch mutations from the root, validating
// consistency against ref at every step. It mutates graph in place.
func Preprocess(graph *Graph, ref *genome.Reference) error {
	root, err := graph.Root()
	if err != nil {
		return err
	}

	initialAa := make(map[string]genome.AaMutationMap, len(ref.Translation))
	for _, cds := range ref.CdsNames() {
		initialAa[cds] = genome.AaMutationMap{}
	}

	return preprocessNode(root, ref, genome.NucMutationMap{}, initialAa)
}

func preprocessNode(n *Node, ref *genome.Reference, parentNuc genome.NucMutationMap, parentAa map[string]genome.AaMutationMap) error {
	nucMuts, err := parseNucMutations(n.BranchAttrs.Mutations["nuc"])
	if err != nil {
		return errors.Wrapf(err, "node %q", n.Name)
	}

	nucMap := parentNuc.Clone()
	for _, mut := range nucMuts {
		if int(mut.Pos) >= len(ref.Seq) || mut.Pos < 0 {
			return errors.Errorf(
				"node %q: mutation %s is out of bounds for a reference sequence of length %d "+
					"(inconsistency between reference tree and reference sequence)",
				n.Name, mut.String(), len(ref.Seq))
		}
		refNuc := ref.NucAt(mut.Pos)
		if err := genome.ApplyNucSub(nucMap, mut, refNuc); err != nil {
			return errors.Wrapf(err, "node %q", n.Name)
		}
	}

	aaMuts := make(map[string][]genome.AaSub, len(parentAa))
	aaMapOut := make(map[string]genome.AaMutationMap, len(parentAa))
	aaSubOut := make(map[string]genome.AaMutationMap, len(parentAa))
	for cds, parentMap := range parentAa {
		muts, err := parseAaMutationsForCds(n.BranchAttrs.Mutations[cds], cds)
		if err != nil {
			return errors.Wrapf(err, "node %q", n.Name)
		}
		aaMuts[cds] = muts

		aaMap := parentMap.Clone()
		peptide := ref.Translation[cds]
		for _, mut := range muts {
			if int(mut.Pos) >= len(peptide) || mut.Pos < 0 {
				return errors.Errorf(
					"node %q: amino acid mutation %s is out of bounds for CDS %q of length %d "+
						"(inconsistency between reference tree and reference annotation)",
					n.Name, mut.String(), cds, len(peptide))
			}
			refAa := ref.AaAt(cds, mut.Pos)
			if err := genome.ApplyAaSub(aaMap, mut, refAa); err != nil {
				return errors.Wrapf(err, "node %q cds %q", n.Name, cds)
			}
		}
		aaMapOut[cds] = aaMap
		aaSubOut[cds] = aaMap.Substitutions()
	}

	n.Tmp = NodeTmp{
		Mutations:       nucMap,
		Substitutions:   nucMap.Substitutions(),
		AaMutations:     aaMapOut,
		AaSubstitutions: aaSubOut,
		PrivateMutations: PrivateMutations{
			NucMuts: nucMuts,
			AaMuts:  aaMuts,
		},
	}

	for _, child := range n.Children {
		if err := preprocessNode(child, ref, nucMap, aaMapOut); err != nil {
			return err
		}
	}

	return nil
}

func parseNucMutations(raw []string) ([]genome.NucSub, error) {
	out := make([]genome.NucSub, 0, len(raw))
	for _, s := range raw {
		mut, err := genome.ParseNucSub(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing nucleotide mutation %q", s)
		}
		out = append(out, mut)
	}
	return out, nil
}

func parseAaMutationsForCds(raw []string, cdsName string) ([]genome.AaSub, error) {
	out := make([]genome.AaSub, 0, len(raw))
	for _, s := range raw {
		mut, err := genome.ParseAaSubForCds(s, cdsName)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing amino acid mutation %q for CDS %q", s, cdsName)
		}
		out = append(out, mut)
	}
	return out, nil
}
