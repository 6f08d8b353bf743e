package chunk

import "unicode"

// qualityScore averages four 0..1 signals, as spec.md §4.2 describes:
// coherence (ends at terminal punctuation/newline), completeness (size >=
// min and ends naturally), size (distance from the midpoint of the
// configured range), and context-preservation (non-empty heading path).
func qualityScore(content string, cfg Config, headingPath []string) float64 {
	runes := []rune(content)
	n := len(runes)

	coherence := 0.0
	if n > 0 {
		last := runes[n-1]
		if last == '\n' {
			coherence = 1.0
		} else {
			switch last {
			case '.', '!', '?':
				coherence = 1.0
			default:
				if unicode.IsSpace(last) {
					coherence = 0.6
				} else {
					coherence = 0.3
				}
			}
		}
	}

	completeness := 0.0
	if n >= cfg.MinChunkSize {
		completeness = 0.7
		if coherence >= 1.0 {
			completeness = 1.0
		}
	} else if cfg.MinChunkSize > 0 {
		completeness = float64(n) / float64(cfg.MinChunkSize) * 0.5
	}

	size := 0.0
	mid := float64(cfg.MinChunkSize+cfg.MaxChunkSize) / 2
	rang := float64(cfg.MaxChunkSize-cfg.MinChunkSize) / 2
	if rang > 0 {
		dist := absf(float64(n) - mid)
		size = 1 - minf(dist/rang, 1)
	}

	context := 0.0
	if len(headingPath) > 0 {
		context = 1.0
	}

	return (coherence + completeness + size + context) / 4
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
