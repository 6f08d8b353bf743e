package chunk

import (
	"strconv"
	"strings"

	"github.com/doylet/docsearch/internal/model"
)

func itoa(n int) string { return strconv.Itoa(n) }

// Chunker splits processed document text into chunks per Config.
type Chunker struct {
	cfg Config
}

// New builds a Chunker, returning an error if cfg fails Validate.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{cfg: cfg}, nil
}

// segment is a [start,end) rune span within one section's text.
type segment struct {
	start, end int
}

// Chunk splits documentID's processedText into an ordered, deterministic
// sequence of Chunks. Given identical (processedText, cfg), the output is
// byte-for-byte identical across calls (spec.md §4.2 determinism
// invariant).
func (c *Chunker) Chunk(documentID string, processedText string) []model.Chunk {
	sections := parseSections(processedText, c.cfg.MaxHeadingDepth)

	var chunks []model.Chunk
	index := 0
	for _, sec := range sections {
		secRunes := []rune(sec.text)
		if len(strings.TrimSpace(sec.text)) == 0 {
			continue
		}
		spans := findAtomicSpans(sec.text)

		var segs []segment
		if len(secRunes) <= c.cfg.MaxChunkSize {
			segs = []segment{{0, len(secRunes)}}
		} else {
			segs = c.splitBySize(secRunes, spans)
		}

		for _, seg := range segs {
			content := string(secRunes[seg.start:seg.end])
			if c.cfg.IncludeHeadingContext && len(sec.headingPath) > 0 {
				content = strings.Join(sec.headingPath, " / ") + "\n\n" + content
			}
			chunks = append(chunks, model.Chunk{
				DocumentID:  documentID,
				Content:     content,
				ChunkIndex:  index,
				HeadingPath: append([]string(nil), sec.headingPath...),
				StartOffset: sec.startOffset + seg.start,
				EndOffset:   sec.startOffset + seg.end,
			})
			index++
		}
	}

	chunks = c.mergeUndersizedChunks(chunks)

	counter := DefaultTokenCounter()
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].Quality = qualityScore(chunks[i].Content, c.cfg, chunks[i].HeadingPath)
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]string)
		}
		chunks[i].Metadata["estimated_tokens"] = itoa(counter.Count(chunks[i].Content))
	}
	return chunks
}

// splitBySize splits one section's runes into overlapping segments,
// preferring paragraph > sentence > word boundaries, never cutting inside
// an atomic span unless the span alone exceeds MaxChunkSize (soft
// violation, emitted whole per spec.md §4.2 step 3).
func (c *Chunker) splitBySize(runes []rune, spans []atomicSpan) []segment {
	n := len(runes)
	var segs []segment
	pos := 0

	for pos < n {
		end := pos + c.cfg.MaxChunkSize
		if end > n {
			end = n
		}

		if end < n && (c.cfg.PreserveCodeBlocks || c.cfg.PreserveTables) {
			for _, sp := range spans {
				if sp.start >= pos && sp.start < end && sp.end > end {
					end = sp.end
					break
				}
			}
		}

		if end < n {
			floor := pos + c.cfg.MinChunkSize
			if floor >= end {
				floor = pos
			}
			if b := findBoundary(runes, floor, end); b > pos && b <= n {
				if insideAtomicSpan(spans, b-1) == nil {
					end = b
				}
			}
		}
		if end <= pos {
			end = min(pos+c.cfg.MaxChunkSize, n)
		}

		segs = append(segs, segment{start: pos, end: end})

		if end >= n {
			break
		}

		next := end - c.cfg.ChunkOverlap
		if next <= pos {
			next = end
		}
		pos = next
	}
	return segs
}

// mergeUndersizedChunks folds any chunk below MinChunkSize into its
// preceding neighbor within the same document, when one exists.
func (c *Chunker) mergeUndersizedChunks(chunks []model.Chunk) []model.Chunk {
	if len(chunks) < 2 {
		return chunks
	}
	merged := []model.Chunk{chunks[0]}
	for _, ch := range chunks[1:] {
		last := &merged[len(merged)-1]
		if ch.Size() < c.cfg.MinChunkSize && sameHeading(last.HeadingPath, ch.HeadingPath) {
			last.Content = last.Content + ch.Content
			last.EndOffset = ch.EndOffset
			continue
		}
		merged = append(merged, ch)
	}
	return merged
}

func sameHeading(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
