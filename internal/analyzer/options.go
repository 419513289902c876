package analyzer

import (
	"github.com/refactorlab/dupfind/internal/constants"
)

// Options holds the per-run configuration for the duplicate detector. It is
// passed by value to the pipeline stages; a detector carries no mutable
// shared state, so concurrent runs with different options are safe.
type Options struct {
	// Minimum number of lines for a candidate block
	MinLines int

	// Minimum number of tokens (including bigrams) for a candidate block
	MinTokens int

	// Fused similarity at or above this value makes a pair a clone
	SimilarityThreshold float64

	// Normalization toggles applied during preprocessing
	IgnoreWhitespace bool
	IgnoreComments   bool
	IgnoreImports    bool
}

// DefaultOptions returns the default detector configuration
func DefaultOptions() Options {
	return Options{
		MinLines:            constants.DefaultMinLines,
		MinTokens:           constants.DefaultMinTokens,
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
		IgnoreWhitespace:    true,
		IgnoreComments:      true,
		IgnoreImports:       true,
	}
}
