package analyzer

import (
	"context"
	"fmt"

	"github.com/refactorlab/dupfind/internal/constants"
)

// Clone type labels used by the grouper.
const (
	CloneExact      = "exact"
	CloneSimilar    = "similar"
	CloneStructural = "structural"
)

// Clone is a group of two or more blocks judged duplicates of one another.
// Similarity is the maximum pairwise score observed among members; exact
// groups are fixed at 1.0.
type Clone struct {
	Type       string
	Similarity float64
	Blocks     []*CodeBlock
}

// String returns string representation of Clone
func (c *Clone) String() string {
	return fmt.Sprintf("Clone{type: %s, blocks: %d, similarity: %.3f}", c.Type, len(c.Blocks), c.Similarity)
}

// Detector runs the duplicate detection pipeline with a fixed configuration.
// It holds no state across runs; construct one per invocation.
type Detector struct {
	opts Options
}

// NewDetector creates a detector with the given options
func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts}
}

// Options returns the detector configuration
func (d *Detector) Options() Options {
	return d.opts
}

// ExtractBlocks extracts candidate blocks from one file's text
func (d *Detector) ExtractBlocks(file, text string) []*CodeBlock {
	return ExtractBlocks(file, text, d.opts)
}

// GroupClones partitions blocks into exact-duplicate groups by content hash
// and similar/structural groups by fused pairwise similarity. Exact members
// are excluded from the pairwise phase. The pairwise phase is O(n squared)
// over the remaining blocks; callers scanning large trees should bound n via
// file patterns and the minimum-lines floor.
func (d *Detector) GroupClones(ctx context.Context, blocks []*CodeBlock) ([]*Clone, error) {
	var clones []*Clone

	// Step 1: exact grouping by preprocessed-content hash. Hash collisions
	// are accepted as an approximation; this is advisory tooling, not
	// security-critical deduplication.
	processed := make(map[*CodeBlock]bool, len(blocks))
	buckets := make(map[uint64][]*CodeBlock, len(blocks))
	var bucketOrder []uint64
	for _, b := range blocks {
		if _, ok := buckets[b.Hash]; !ok {
			bucketOrder = append(bucketOrder, b.Hash)
		}
		buckets[b.Hash] = append(buckets[b.Hash], b)
	}
	for _, h := range bucketOrder {
		group := buckets[h]
		if len(group) < 2 {
			continue
		}
		clones = append(clones, &Clone{
			Type:       CloneExact,
			Similarity: 1.0,
			Blocks:     group,
		})
		for _, b := range group {
			processed[b] = true
		}
	}

	// Step 2: pairwise similarity grouping over the remaining blocks.
	remaining := make([]*CodeBlock, 0, len(blocks))
	for _, b := range blocks {
		if !processed[b] {
			remaining = append(remaining, b)
		}
	}

	for i := 0; i < len(remaining); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("duplicate grouping cancelled: %w", err)
		}
		for j := i + 1; j < len(remaining); j++ {
			a, b := remaining[i], remaining[j]

			// A sliding-window copy of a block overlaps it in the same
			// file; comparing those would match a block against itself.
			if a.File == b.File && spansOverlap(a, b) {
				continue
			}

			similarity := FusedSimilarity(a, b)
			if similarity < d.opts.SimilarityThreshold {
				continue
			}

			if existing := findCloneWith(clones, a, b); existing != nil {
				mergeIntoClone(existing, a, b, similarity)
				continue
			}

			cloneType := CloneStructural
			if similarity > constants.SimilarCloneThreshold {
				cloneType = CloneSimilar
			}
			clones = append(clones, &Clone{
				Type:       cloneType,
				Similarity: similarity,
				Blocks:     []*CodeBlock{a, b},
			})
		}
	}

	return clones, nil
}

// spansOverlap reports whether two blocks' line ranges intersect.
func spansOverlap(a, b *CodeBlock) bool {
	return a.StartLine <= b.EndLine && b.StartLine <= a.EndLine
}

// findCloneWith returns the first non-exact clone already containing either
// block. The merge is order-dependent: transitively connected pairs collapse
// into whichever clone was created first.
func findCloneWith(clones []*Clone, a, b *CodeBlock) *Clone {
	for _, c := range clones {
		if c.Type == CloneExact {
			continue
		}
		for _, member := range c.Blocks {
			if member == a || member == b {
				return c
			}
		}
	}
	return nil
}

// mergeIntoClone adds whichever of a, b is missing from the clone and raises
// the clone's similarity to the maximum observed.
func mergeIntoClone(c *Clone, a, b *CodeBlock, similarity float64) {
	hasA, hasB := false, false
	for _, member := range c.Blocks {
		if member == a {
			hasA = true
		}
		if member == b {
			hasB = true
		}
	}
	if !hasA {
		c.Blocks = append(c.Blocks, a)
	}
	if !hasB {
		c.Blocks = append(c.Blocks, b)
	}
	if similarity > c.Similarity {
		c.Similarity = similarity
	}
}
