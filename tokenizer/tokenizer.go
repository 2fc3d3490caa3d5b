// Package tokenizer provides token counting for content transformers and
// memory budgets. Counting is delegated to tiktoken; components treat an
// Estimator as a pure function from text to count and never guess counts.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Estimator counts tokens in text for a specific model family.
type Estimator interface {
	Estimate(text string) int
}

// TiktokenEstimator counts tokens with the encoding of the configured model.
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEstimator builds an estimator for the model, falling back to
// the gpt-4o encoding when the model is unknown.
func NewTiktokenEstimator(model string) (*TiktokenEstimator, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.EncodingForModel("gpt-4o")
		if err != nil {
			return nil, fmt.Errorf("failed to get default encoding: %w", err)
		}
	}
	return &TiktokenEstimator{encoding: encoding}, nil
}

func (e *TiktokenEstimator) Estimate(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

// FixedEstimator charges a fixed count per text, regardless of content.
// Tests use it to make budget arithmetic exact.
type FixedEstimator struct {
	PerText int
}

func (e FixedEstimator) Estimate(text string) int {
	return e.PerText
}
