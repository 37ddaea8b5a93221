package genome

import "testing"

func TestApplyNucSubBasic(t *testing.T) {
	m := NucMutationMap{}
	sub, err := ParseNucSub("A5T")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ApplyNucSub(m, sub, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m[4] != 'T' {
		t.Fatalf("m[4] = %v, want T", m[4])
	}
}

func TestApplyNucSubReversionRemovesEntry(t *testing.T) {
	m := NucMutationMap{}
	sub1, _ := ParseNucSub("A5G")
	sub2, _ := ParseNucSub("G5A")
	if err := ApplyNucSub(m, sub1, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ApplyNucSub(m, sub2, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("reversion should remove the entry, got %+v", m)
	}
}

func TestApplyNucSubChainOfTwo(t *testing.T) {
	m := NucMutationMap{}
	sub1, _ := ParseNucSub("A5G")
	sub2, _ := ParseNucSub("G5T")
	if err := ApplyNucSub(m, sub1, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ApplyNucSub(m, sub2, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m[4] != 'T' {
		t.Fatalf("m[4] = %v, want T", m[4])
	}
}

func TestApplyNucSubInconsistentWithReference(t *testing.T) {
	m := NucMutationMap{}
	sub, _ := ParseNucSub("A5T")
	if err := ApplyNucSub(m, sub, 'C'); err == nil {
		t.Fatalf("expected inconsistency error when ref letter does not match")
	}
}

func TestApplyNucSubInconsistentWithAncestorMap(t *testing.T) {
	m := NucMutationMap{}
	sub1, _ := ParseNucSub("A5G")
	if err := ApplyNucSub(m, sub1, 'A'); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second mutation at the same position claims a different origin state.
	sub2, _ := ParseNucSub("T5A")
	if err := ApplyNucSub(m, sub2, 'A'); err == nil {
		t.Fatalf("expected inconsistency error when ancestor map disagrees")
	}
}

func TestNucMutationMapCloneIsIndependent(t *testing.T) {
	m := NucMutationMap{5: 'T'}
	clone := m.Clone()
	clone[6] = 'G'
	if _, ok := m[6]; ok {
		t.Fatalf("mutating the clone should not affect the original")
	}
}

func TestNucMutationMapSubstitutions(t *testing.T) {
	m := NucMutationMap{5: 'T', 6: '-'}
	subs := m.Substitutions()
	if _, ok := subs[6]; ok {
		t.Fatalf("Substitutions() should drop gap entries")
	}
	if subs[5] != 'T' {
		t.Fatalf("Substitutions() should keep non-gap entries")
	}
}
