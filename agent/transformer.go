package agent

import (
	"github.com/teilomillet/chatagent/tokenizer"
	"github.com/teilomillet/chatagent/types"
)

// Transformer applies post-retrieval shaping to fragments, per tag. Tags a
// transformer is not configured for pass through unchanged.
type Transformer interface {
	Transform(pc *PromptContext) error
}

// LastMaxTokenSizeTransformer keeps, per configured tag, the most recent
// suffix of fragments whose cumulative token count stays within MaxTokens.
// Counting is delegated to the estimator; the transformer never guesses.
type LastMaxTokenSizeTransformer struct {
	Estimator tokenizer.Estimator
	MaxTokens int
	Tags      []string
}

// NewLastMaxTokenSizeTransformer shapes fragments of the given tags to the
// token budget.
func NewLastMaxTokenSizeTransformer(estimator tokenizer.Estimator, maxTokens int, tags ...string) *LastMaxTokenSizeTransformer {
	return &LastMaxTokenSizeTransformer{
		Estimator: estimator,
		MaxTokens: maxTokens,
		Tags:      tags,
	}
}

func (t *LastMaxTokenSizeTransformer) Transform(pc *PromptContext) error {
	for _, tag := range t.Tags {
		frags := pc.FragmentsFor(tag)
		if len(frags) == 0 {
			continue
		}
		pc.SetFragments(tag, t.keepSuffix(frags))
	}
	return nil
}

// keepSuffix walks from the newest fragment backwards, accumulating token
// counts until the budget is reached. The kept fragments are returned in
// their original order.
func (t *LastMaxTokenSizeTransformer) keepSuffix(frags []types.ContentFragment) []types.ContentFragment {
	total := 0
	start := len(frags)
	for i := len(frags) - 1; i >= 0; i-- {
		count := t.Estimator.Estimate(frags[i].Text)
		if total+count > t.MaxTokens {
			break
		}
		total += count
		start = i
	}
	return frags[start:]
}
