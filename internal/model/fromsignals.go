package model

import "sort"

// SearchEngine names which retrieval engine produced a result.
type SearchEngine int

const (
	EngineVector SearchEngine = iota
	EngineBM25
	EngineHybrid
)

func (e SearchEngine) String() string {
	switch e {
	case EngineVector:
		return "vector"
	case EngineBM25:
		return "bm25"
	case EngineHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// FromSignals records which engines and which query variants contributed a
// result. Merging is lattice-style: OR the booleans, union the variants.
type FromSignals struct {
	BM25            bool
	Vector          bool
	Variants        []int
	QueryExpansion  bool
}

// VectorOnly builds signals for a result found only by the vector engine
// against the original (variant 0) query.
func VectorOnly() FromSignals {
	return FromSignals{Vector: true, Variants: []int{0}}
}

// BM25Only builds signals for a result found only by the lexical engine.
func BM25Only() FromSignals {
	return FromSignals{BM25: true, Variants: []int{0}}
}

// Hybrid builds signals for a result found by both engines.
func Hybrid() FromSignals {
	return FromSignals{BM25: true, Vector: true, Variants: []int{0}}
}

// FromVariant builds signals for a specific query-expansion variant index.
func FromVariant(variantIndex int, engine SearchEngine) FromSignals {
	s := FromSignals{Variants: []int{variantIndex}}
	switch engine {
	case EngineVector:
		s.Vector = true
	case EngineBM25:
		s.BM25 = true
	case EngineHybrid:
		s.Vector = true
		s.BM25 = true
	}
	return s
}

// Merge ORs booleans and unions variant indices from other into s.
func (s *FromSignals) Merge(other FromSignals) {
	s.BM25 = s.BM25 || other.BM25
	s.Vector = s.Vector || other.Vector
	s.QueryExpansion = s.QueryExpansion || other.QueryExpansion

	present := make(map[int]struct{}, len(s.Variants))
	for _, v := range s.Variants {
		present[v] = struct{}{}
	}
	for _, v := range other.Variants {
		if _, ok := present[v]; !ok {
			s.Variants = append(s.Variants, v)
			present[v] = struct{}{}
		}
	}
	sort.Ints(s.Variants)
}

// PrimaryEngine returns Hybrid if both engines contributed, else whichever
// single engine did, defaulting to Vector when neither is set.
func (s FromSignals) PrimaryEngine() SearchEngine {
	switch {
	case s.BM25 && s.Vector:
		return EngineHybrid
	case s.BM25:
		return EngineBM25
	default:
		return EngineVector
	}
}
