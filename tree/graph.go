// Package tree implements the reference-tree mutation preprocessing: it
// parses an Auspice v2 JSON tree and walks it to attach to each node the
// absolute genotype implied by the chain of branch mutations from the root.
package tree

import (
	"encoding/json"

	"github.com/nextstrain/nextclade-sort/genome"
	"github.com/pkg/errors"
)

// BranchAttrs holds the only branch attribute the core consumes: the
// per-branch mutation lists, keyed by CDS name or the literal "nuc".
type BranchAttrs struct {
	Mutations map[string][]string `json:"mutations"`
}

// PrivateMutations are a branch's own parsed mutation lists, unaccumulated.
type PrivateMutations struct {
	NucMuts []genome.NucSub
	AaMuts  map[string][]genome.AaSub
}

// NodeTmp is the scratch area populated by Preprocess. It is not part of
// the JSON wire format; it is filled in after parsing.
type NodeTmp struct {
	Mutations        genome.NucMutationMap
	Substitutions    genome.NucMutationMap
	AaMutations      map[string]genome.AaMutationMap
	AaSubstitutions  map[string]genome.AaMutationMap
	PrivateMutations PrivateMutations
}

// Node is one node of the Auspice tree. Only the fields the core consumes
// are modeled; everything else in the source JSON is discarded on parse.
type Node struct {
	Name        string      `json:"name"`
	BranchAttrs BranchAttrs `json:"branch_attrs"`
	Children    []*Node     `json:"children,omitempty"`

	Tmp NodeTmp `json:"-"`
}

// Graph is a parsed Auspice v2 reference tree. Meta is kept opaque since
// the core never inspects it beyond passing it through.
type Graph struct {
	Meta json.RawMessage `json:"meta"`
	Tree *Node           `json:"tree"`
}

// ParseGraph decodes an Auspice v2 tree JSON document.
func ParseGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "failed to parse reference tree JSON")
	}
	return &g, nil
}

// Root returns the tree's unique root node, failing if the document has no
// tree at all.
func (g *Graph) Root() (*Node, error) {
	if g.Tree == nil {
		return nil, errors.New("reference tree has no root node")
	}
	return g.Tree, nil
}
