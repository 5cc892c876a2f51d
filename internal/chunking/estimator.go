package chunking

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// charsPerToken is the fallback approximation used when no tokenizer is
// available. Matches the approximation the provider clients use for
// target-length hints.
const charsPerToken = 4

// Estimator estimates the token count of a text for budgeting purposes.
// Estimates only need to be consistent, not exact: budgets are enforced
// against the same estimator that packed the batch.
type Estimator interface {
	Estimate(text string) int
}

// HeuristicEstimator approximates tokens as ceil(len/4). It never fails and
// needs no encoding data, so it is the fallback for air-gapped deployments.
type HeuristicEstimator struct{}

// Estimate returns the approximate token count for text.
func (HeuristicEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// TiktokenEstimator counts tokens with the cl100k_base encoding.
type TiktokenEstimator struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the cl100k_base encoding. Loading can fail when
// the encoding data is unavailable; callers should fall back to the heuristic.
func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		return nil, err
	}
	return &TiktokenEstimator{enc: enc}, nil
}

// Estimate returns the exact cl100k_base token count for text.
func (e *TiktokenEstimator) Estimate(text string) int {
	if text == "" {
		return 0
	}
	// The underlying BPE cache is not safe for concurrent use.
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.enc.Encode(text, nil, nil))
}

// NewEstimator returns the best available estimator: tiktoken when its
// encoding data can be loaded, the character heuristic otherwise.
func NewEstimator() Estimator {
	if est, err := NewTiktokenEstimator(); err == nil {
		return est
	}
	return HeuristicEstimator{}
}
