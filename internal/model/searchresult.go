package model

// NormalizationMethod names a score-normalization strategy used by fusion.
type NormalizationMethod string

const (
	NormalizationMinMax NormalizationMethod = "min_max"
	NormalizationZScore NormalizationMethod = "z_score"
)

// ScoreBreakdown carries raw and normalized per-engine scores plus the
// final fused score.
type ScoreBreakdown struct {
	BM25Raw             *float32
	VectorRaw           *float32
	BM25Normalized      *float32
	VectorNormalized    *float32
	Fused               float32
	NormalizationMethod NormalizationMethod
}

// SearchResult is one ranked hit returned by the hybrid pipeline.
type SearchResult struct {
	DocID           DocId
	URI             string
	Title           string
	Content         string
	Snippet         string
	HeadingPath     []string
	Scores          ScoreBreakdown
	FromSignals     FromSignals
	RankingSignals  map[string]float64
}
