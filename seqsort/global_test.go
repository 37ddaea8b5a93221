package seqsort

import "testing"

// Scenario F: record 1 matches {a, b}, record 2 matches {b, c}. The greedy
// cover must pick b since it covers both records in one pick.
func TestGlobalAssignmentScenarioF(t *testing.T) {
	candidates := []CandidateSet{
		{RecordIndex: 1, Datasets: []string{"a", "b"}},
		{RecordIndex: 2, Datasets: []string{"b", "c"}},
	}

	got := GlobalAssignment(candidates)
	if len(got) != 2 {
		t.Fatalf("got %d assignments, want 2", len(got))
	}
	byIndex := map[uint64]string{}
	for _, a := range got {
		byIndex[a.RecordIndex] = a.Dataset
	}
	if byIndex[1] != "b" || byIndex[2] != "b" {
		t.Fatalf("assignments = %+v, want both records assigned to \"b\"", byIndex)
	}
}

func TestGlobalAssignmentNoCandidatesStaysUnassigned(t *testing.T) {
	candidates := []CandidateSet{
		{RecordIndex: 1, Datasets: nil},
	}
	got := GlobalAssignment(candidates)
	if got[0].Dataset != "" {
		t.Fatalf("Dataset = %q, want empty for a record with no candidates", got[0].Dataset)
	}
}

func TestGlobalAssignmentTieBrokenByName(t *testing.T) {
	candidates := []CandidateSet{
		{RecordIndex: 1, Datasets: []string{"zeta", "alpha"}},
	}
	got := GlobalAssignment(candidates)
	if got[0].Dataset != "alpha" {
		t.Fatalf("Dataset = %q, want \"alpha\" (natural-sort tie-break)", got[0].Dataset)
	}
}

func TestGlobalAssignmentUsesEveryCoveredDatasetOnlyWhereCandidate(t *testing.T) {
	candidates := []CandidateSet{
		{RecordIndex: 1, Datasets: []string{"a"}},
		{RecordIndex: 2, Datasets: []string{"b"}},
		{RecordIndex: 3, Datasets: []string{"a", "b"}},
	}
	got := GlobalAssignment(candidates)
	for _, a := range got {
		for _, c := range candidates {
			if c.RecordIndex != a.RecordIndex {
				continue
			}
			if a.Dataset == "" {
				continue
			}
			found := false
			for _, d := range c.Datasets {
				if d == a.Dataset {
					found = true
				}
			}
			if !found {
				t.Fatalf("record %d assigned dataset %q which was never a candidate (%v)", a.RecordIndex, a.Dataset, c.Datasets)
			}
		}
	}
}
