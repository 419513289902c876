package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const duplicatedFunction = `function processItems(items, limit) {
  const results = [];
  for (let i = 0; i < items.length; i++) {
    const item = items[i];
    if (item.value > limit) {
      results.push(item.value * 2);
    }
  }
  return results;
}`

func TestGroupClonesExactAcrossFiles(t *testing.T) {
	detector := NewDetector(DefaultOptions())

	blocks := detector.ExtractBlocks("a.js", duplicatedFunction)
	blocks = append(blocks, detector.ExtractBlocks("b.js", duplicatedFunction)...)
	require.NotEmpty(t, blocks)

	clones, err := detector.GroupClones(context.Background(), blocks)
	require.NoError(t, err)
	require.Len(t, clones, 1)

	clone := clones[0]
	assert.Equal(t, CloneExact, clone.Type)
	assert.Equal(t, 1.0, clone.Similarity)
	assert.Len(t, clone.Blocks, 2)

	files := map[string]bool{}
	for _, b := range clone.Blocks {
		files[b.File] = true
	}
	assert.True(t, files["a.js"])
	assert.True(t, files["b.js"])
}

func TestGroupClonesBelowMinTokensFindsNothing(t *testing.T) {
	opts := DefaultOptions()
	opts.MinTokens = 500
	detector := NewDetector(opts)

	blocks := detector.ExtractBlocks("a.js", duplicatedFunction)
	blocks = append(blocks, detector.ExtractBlocks("b.js", duplicatedFunction)...)

	assert.Empty(t, blocks)

	clones, err := detector.GroupClones(context.Background(), blocks)
	require.NoError(t, err)
	assert.Empty(t, clones)
}

func TestGroupClonesThresholdIsInclusive(t *testing.T) {
	opts := DefaultOptions()
	opts.SimilarityThreshold = 1.0
	detector := NewDetector(opts)

	a := blockFromContent("a.js", 1, similarityFixture)
	b := blockFromContent("b.js", 1, similarityFixture)
	// Distinct hashes force the pair through the similarity stage.
	a.Hash = 1
	b.Hash = 2

	clones, err := detector.GroupClones(context.Background(), []*CodeBlock{a, b})
	require.NoError(t, err)
	require.Len(t, clones, 1)
	assert.Equal(t, CloneSimilar, clones[0].Type)
	assert.InDelta(t, 1.0, clones[0].Similarity, 1e-9)
}

func TestGroupClonesSkipsOverlappingSpansInSameFile(t *testing.T) {
	detector := NewDetector(DefaultOptions())

	a := blockFromContent("a.js", 1, similarityFixture)
	b := blockFromContent("a.js", 5, similarityFixture)
	a.Hash = 1
	b.Hash = 2

	clones, err := detector.GroupClones(context.Background(), []*CodeBlock{a, b})
	require.NoError(t, err)
	assert.Empty(t, clones)
}

func TestGroupClonesMergesConnectedPairs(t *testing.T) {
	detector := NewDetector(DefaultOptions())

	a := blockFromContent("a.js", 1, similarityFixture)
	b := blockFromContent("b.js", 1, similarityFixture)
	c := blockFromContent("c.js", 1, similarityFixture)
	a.Hash = 1
	b.Hash = 2
	c.Hash = 3

	clones, err := detector.GroupClones(context.Background(), []*CodeBlock{a, b, c})
	require.NoError(t, err)
	require.Len(t, clones, 1)
	assert.Len(t, clones[0].Blocks, 3)
}

func TestGroupClonesStopsOnCancelledContext(t *testing.T) {
	detector := NewDetector(DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := blockFromContent("a.js", 1, similarityFixture)
	b := blockFromContent("b.js", 1, similarityFixture)
	a.Hash = 1
	b.Hash = 2

	_, err := detector.GroupClones(ctx, []*CodeBlock{a, b})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGroupClonesMinimumGroupSize(t *testing.T) {
	detector := NewDetector(DefaultOptions())

	// A single block can never form a clone.
	a := blockFromContent("a.js", 1, similarityFixture)
	clones, err := detector.GroupClones(context.Background(), []*CodeBlock{a})
	require.NoError(t, err)
	assert.Empty(t, clones)
}
