package chunk

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates the model-token length of text. The chunker uses
// it only to annotate each chunk's Metadata["estimated_tokens"]; chunk
// sizes are not measured with it, whatever Config.SizeUnit says.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

var (
	defaultCounter     *TokenCounter
	defaultCounterOnce sync.Once
)

// NewTokenCounter loads the cl100k_base encoding used by most modern
// embedding and chat models.
func NewTokenCounter() (*TokenCounter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the token length of text, falling back to a char/4
// approximation (matching the teacher's TokensPerChar heuristic) if the
// encoder failed to load.
func (t *TokenCounter) Count(text string) int {
	if t == nil || t.enc == nil {
		return len([]rune(text)) / 4
	}
	return len(t.enc.Encode(text, nil, nil))
}

// DefaultTokenCounter lazily builds a process-wide counter, falling back
// to the heuristic estimator if the encoding cannot be loaded (e.g. no
// network access to fetch BPE ranks in a sandboxed environment).
func DefaultTokenCounter() *TokenCounter {
	defaultCounterOnce.Do(func() {
		if c, err := NewTokenCounter(); err == nil {
			defaultCounter = c
		} else {
			defaultCounter = &TokenCounter{}
		}
	})
	return defaultCounter
}
