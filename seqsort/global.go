package seqsort

import "github.com/shenwei356/natsort"

// CandidateSet is one record's set of candidate dataset names (those that
// passed the score/hit-count cutoffs), keyed by its FASTA input index.
type CandidateSet struct {
	RecordIndex uint64
	Datasets    []string
}

// Assignment is the single dataset GlobalAssignment chose for one record,
// or the empty string if the record had no candidates at all.
type Assignment struct {
	RecordIndex uint64
	Dataset     string
}

// GlobalAssignment runs the greedy set-cover of spec.md §4.4: repeatedly
// pick the dataset covering the most still-uncovered records, breaking
// ties by name (see DESIGN.md "Open Question decisions"), until every
// record with at least one candidate has been assigned. It makes no
// optimality claim; it is documented greedy behavior, not exact cover.
func GlobalAssignment(candidates []CandidateSet) []Assignment {
	uncovered := make(map[uint64]bool, len(candidates))
	datasetToRecords := make(map[string]map[uint64]bool)

	for _, c := range candidates {
		if len(c.Datasets) == 0 {
			continue
		}
		uncovered[c.RecordIndex] = true
		for _, d := range c.Datasets {
			if datasetToRecords[d] == nil {
				datasetToRecords[d] = make(map[uint64]bool)
			}
			datasetToRecords[d][c.RecordIndex] = true
		}
	}

	assigned := make(map[uint64]string, len(uncovered))
	for len(uncovered) > 0 {
		best := ""
		bestCount := 0
		for d, recs := range datasetToRecords {
			count := 0
			for r := range recs {
				if uncovered[r] {
					count++
				}
			}
			if count == 0 {
				continue
			}
			if count > bestCount || (count == bestCount && natsort.Compare(d, best, false)) {
				best = d
				bestCount = count
			}
		}
		if best == "" {
			// No remaining dataset covers any uncovered record; nothing
			// further can be assigned.
			break
		}
		for r := range datasetToRecords[best] {
			if uncovered[r] {
				assigned[r] = best
				delete(uncovered, r)
			}
		}
	}

	out := make([]Assignment, len(candidates))
	for i, c := range candidates {
		out[i] = Assignment{RecordIndex: c.RecordIndex, Dataset: assigned[c.RecordIndex]}
	}
	return out
}
