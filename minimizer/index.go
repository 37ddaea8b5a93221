// Package minimizer implements the minimizer-based dataset search: packing
// k-mers into 2-bit codes, canonicalizing and hashing them, enumerating a
// query's minimizers with a monotone deque, and scoring them against a
// precomputed MinimizerIndex.
package minimizer

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// MinimizerIndexAlgoVersion is the only minimizer-index schema version this
// program understands. A mismatch here means the dataset's index was built
// by a different, incompatible algorithm and must be rejected rather than
// silently misinterpreted.
const MinimizerIndexAlgoVersion = "v1"

// SearchParams are the parameters under which a MinimizerIndex was built,
// and under which queries against it must be run.
type SearchParams struct {
	K          int
	WindowSize int
	Cutoff     float64
}

// ReferenceInfo describes one dataset reference tracked by a MinimizerIndex.
type ReferenceInfo struct {
	Name        string
	Length      uint64
	NKmersTotal uint64
}

// Index is a loaded minimizer index: for each observed minimizer hash, a
// bitmask over References (bit i set means reference i contains that
// minimizer). At most 64 references are supported per index, since the
// bitmask is a single uint64.
type Index struct {
	Version    string
	Params     SearchParams
	References []ReferenceInfo
	Table      map[uint64]uint64
}

type wireParams struct {
	K          int     `json:"k"`
	WindowSize int     `json:"window_size"`
	Cutoff     float64 `json:"cutoff"`
}

type wireReference struct {
	Name        string `json:"name"`
	Length      uint64 `json:"length"`
	NKmersTotal uint64 `json:"n_kmers_total"`
}

type wireIndex struct {
	Version    string            `json:"version"`
	Params     wireParams        `json:"params"`
	References []wireReference   `json:"references"`
	Index      map[string]uint64 `json:"index"`
}

// ParseIndex decodes a MinimizerIndex from its JSON wire representation and
// rejects it outright if its version does not match MinimizerIndexAlgoVersion,
// mirroring the header/version gate file.go applies to the teacher's binary
// k-mer format.
func ParseIndex(data []byte) (*Index, error) {
	var wire wireIndex
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, errors.Wrap(err, "failed to parse minimizer index")
	}

	if wire.Version != MinimizerIndexAlgoVersion {
		return nil, errors.Errorf(
			"minimizer index version %q is not compatible with the version supported by this program (%q); "+
				"upgrade nextclade-sort or ask the dataset maintainers to rebuild the index",
			wire.Version, MinimizerIndexAlgoVersion)
	}

	if len(wire.References) > 64 {
		return nil, errors.Errorf("minimizer index has %d references, more than the 64 a single bitmask can address", len(wire.References))
	}

	references := make([]ReferenceInfo, len(wire.References))
	for i, r := range wire.References {
		references[i] = ReferenceInfo{Name: r.Name, Length: r.Length, NKmersTotal: r.NKmersTotal}
	}

	table := make(map[uint64]uint64, len(wire.Index))
	for hexHash, mask := range wire.Index {
		h, err := strconv.ParseUint(hexHash, 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing minimizer hash key %q", hexHash)
		}
		table[h] = mask
	}

	return &Index{
		Version: wire.Version,
		Params: SearchParams{
			K:          wire.Params.K,
			WindowSize: wire.Params.WindowSize,
			Cutoff:     wire.Params.Cutoff,
		},
		References: references,
		Table:      table,
	}, nil
}

// LoadIndexFromPath reads and parses a MinimizerIndex from a local file,
// transparently handling gzip compression the way fasta.Open does.
func LoadIndexFromPath(path string) (*Index, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening minimizer index %q", path)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading minimizer index %q", path)
	}

	return ParseIndex(data)
}
