package compact

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TokenEstimator counts the LLM tokens a piece of text will consume.
type TokenEstimator interface {
	Count(text string) int
}

// heuristicEstimator approximates tokens as bytes/4, the usual rule of
// thumb for English prose.
type heuristicEstimator struct{}

// NewHeuristicEstimator returns the bytes/4 fallback estimator.
func NewHeuristicEstimator() TokenEstimator { return heuristicEstimator{} }

func (heuristicEstimator) Count(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// tiktokenEstimator counts tokens with a real BPE encoding.
type tiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator builds an estimator for the named encoding
// (e.g. "cl100k_base"). Callers should fall back to the heuristic
// estimator if the encoding cannot be loaded.
func NewTiktokenEstimator(encoding string) (TokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &tiktokenEstimator{enc: enc}, nil
}

func (e *tiktokenEstimator) Count(text string) int {
	return len(e.enc.Encode(text, nil, nil))
}
