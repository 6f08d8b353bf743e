package model

import "testing"

func TestFromSignalsMerge(t *testing.T) {
	s := VectorOnly()
	bm25 := FromVariant(1, EngineBM25)
	s.Merge(bm25)

	if !s.BM25 || !s.Vector {
		t.Fatalf("expected both engines set after merge, got %+v", s)
	}
	if len(s.Variants) != 2 || s.Variants[0] != 0 || s.Variants[1] != 1 {
		t.Fatalf("expected variants [0 1], got %v", s.Variants)
	}
	if s.PrimaryEngine() != EngineHybrid {
		t.Fatalf("expected primary engine hybrid after merging both signals")
	}
}

func TestFromSignalsPrimaryEngineDefaultsToVector(t *testing.T) {
	var s FromSignals
	if s.PrimaryEngine() != EngineVector {
		t.Fatalf("expected default primary engine to be vector")
	}
}
