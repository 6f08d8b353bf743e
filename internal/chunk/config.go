// Package chunk splits processed document text into overlapping,
// quality-scored chunks (spec.md §4.2).
package chunk

import "fmt"

// Strategy names a chunking algorithm. The chunker does not read it: every
// value runs the same hybrid heading-then-size algorithm.
type Strategy string

const (
	StrategyByHeading Strategy = "by_heading"
	StrategyBySize    Strategy = "by_size"
	StrategyHybrid    Strategy = "hybrid"
	StrategySemantic  Strategy = "semantic"
)

// SizeUnit names the unit chunk sizes are given in. The chunker does not
// read it: sizes are always measured in characters (runes), and
// SizeUnitTokens does not switch sizing to model tokens.
type SizeUnit string

const (
	SizeUnitChars  SizeUnit = "chars"
	SizeUnitTokens SizeUnit = "tokens"
)

// Config parameterizes the chunker (spec.md §4.2).
type Config struct {
	Strategy                  Strategy
	MaxChunkSize              int
	MinChunkSize              int
	ChunkOverlap              int
	RespectSentenceBoundaries bool
	RespectParagraphBoundaries bool
	MaxHeadingDepth           int
	IncludeHeadingContext     bool
	PreserveCodeBlocks        bool
	PreserveTables            bool
	SizeUnit                  SizeUnit
}

// DefaultConfig matches the teacher's RAG-research-informed defaults,
// translated to the spec's named fields.
func DefaultConfig() Config {
	return Config{
		Strategy:                   StrategyHybrid,
		MaxChunkSize:               2048,
		MinChunkSize:               400,
		ChunkOverlap:               256,
		RespectSentenceBoundaries:  true,
		RespectParagraphBoundaries: true,
		MaxHeadingDepth:            6,
		IncludeHeadingContext:      true,
		PreserveCodeBlocks:         true,
		PreserveTables:             true,
		SizeUnit:                   SizeUnitChars,
	}
}

// Validate enforces the invariants from spec.md §4.2.
func (c Config) Validate() error {
	if c.MaxChunkSize <= c.MinChunkSize {
		return fmt.Errorf("max_chunk_size (%d) must be greater than min_chunk_size (%d)", c.MaxChunkSize, c.MinChunkSize)
	}
	if c.ChunkOverlap >= c.MaxChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be less than max_chunk_size (%d)", c.ChunkOverlap, c.MaxChunkSize)
	}
	if c.MaxHeadingDepth < 1 || c.MaxHeadingDepth > 6 {
		return fmt.Errorf("max_heading_depth must be in [1,6], got %d", c.MaxHeadingDepth)
	}
	return nil
}
