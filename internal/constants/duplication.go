package constants

// Signal weights for the fused similarity score. The five signals are
// combined linearly; the weights sum to 1.0 so the fused score stays in
// [0, 1].
const (
	// TokenSimilarityWeight is the weight of token-set Jaccard similarity.
	// Token overlap is the strongest duplicate signal for text-level clones.
	TokenSimilarityWeight = 0.40

	// LineSimilarityWeight is the weight of fuzzy line overlap, computed
	// with Levenshtein-based per-line matching.
	LineSimilarityWeight = 0.25

	// StructuralSimilarityWeight is the weight of structural-tag overlap
	// (conditionals, loops, call density, nesting).
	StructuralSimilarityWeight = 0.20

	// SequenceSimilarityWeight is the weight of the token-sequence LCS
	// ratio. Unlike Jaccard it is order-sensitive.
	SequenceSimilarityWeight = 0.10

	// SizeSimilarityWeight is the weight of the block size ratio.
	SizeSimilarityWeight = 0.05
)

// Classification cut-offs.
const (
	// SimilarCloneThreshold separates "similar" clones from "structural"
	// ones: a fused score above this is reported as similar.
	SimilarCloneThreshold = 0.95

	// LineMatchThreshold is the per-line similarity above which two lines
	// count as a fuzzy match in the line overlap signal.
	LineMatchThreshold = 0.7
)

// Extraction limits.
const (
	// MinFunctionBlockLines is the smallest function-like block kept by the
	// extractor.
	MinFunctionBlockLines = 4

	// MinClassBlockLines is the smallest class-like block kept by the
	// extractor.
	MinClassBlockLines = 6

	// MaxBlockScanLines caps brace/indentation scanning past a heading line
	// when no closing boundary is found.
	MaxBlockScanLines = 50

	// SlidingWindowStride is the line stride between sliding-window
	// candidates.
	SlidingWindowStride = 3

	// MaxSlidingWindows caps the number of window candidates emitted per
	// file across all window sizes.
	MaxSlidingWindows = 50
)

// SlidingWindowSizes are the fixed window lengths used by the sliding-window
// extraction strategy. Windows smaller than the configured minimum line
// count are skipped.
var SlidingWindowSizes = []int{10, 15}

// Block validation floors.
const (
	// MinProcessedLength is the minimum trimmed length of preprocessed
	// block content.
	MinProcessedLength = 10

	// MinRawLines is the minimum number of raw lines in a candidate block.
	MinRawLines = 2

	// MinMeaningfulElements is the minimum number of word/punctuation
	// matches required in preprocessed content.
	MinMeaningfulElements = 8

	// MinCodeLines is the minimum number of non-comment, non-blank lines.
	MinCodeLines = 2
)

// Default analysis configuration.
const (
	DefaultMinLines            = 5
	DefaultMinTokens           = 50
	DefaultSimilarityThreshold = 0.8
)
