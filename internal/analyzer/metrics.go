package analyzer

import (
	"math"

	"github.com/refactorlab/dupfind/internal/constants"
)

// Metrics aggregates duplication statistics for one detection run.
type Metrics struct {
	TotalClones        int
	DuplicateBlocks    int
	DuplicateLines     int
	DuplicationPercent float64
	AverageBlockSize   float64
	RiskScore          int
}

// ComputeMetrics derives aggregate statistics from the clone list. The
// duplication percentage is estimated against a rough total of 100 lines
// per analyzed file; the risk score weighs exact clones heaviest and is
// bounded to [0, 100].
func ComputeMetrics(clones []*Clone, fileCount int) *Metrics {
	m := &Metrics{TotalClones: len(clones)}

	totalLines := 0
	exactClones := 0
	highSimilarityClones := 0

	for _, c := range clones {
		members := len(c.Blocks)
		m.DuplicateBlocks += members

		blockLines := 0
		for _, b := range c.Blocks {
			blockLines += b.LineCount()
		}
		totalLines += blockLines

		avg := float64(blockLines) / float64(members)
		m.DuplicateLines += int(math.Round(avg)) * members

		if c.Type == CloneExact {
			exactClones++
		} else if c.Similarity > constants.SimilarCloneThreshold {
			highSimilarityClones++
		}
	}

	if m.DuplicateBlocks > 0 {
		m.AverageBlockSize = float64(totalLines) / float64(m.DuplicateBlocks)
	}

	// Rough project size heuristic: 100 lines per file.
	estimatedTotal := fileCount * 100
	if estimatedTotal > 0 {
		pct := float64(m.DuplicateLines) / float64(estimatedTotal) * 100.0
		m.DuplicationPercent = math.Min(100.0, math.Round(pct*10) / 10)
	}

	if fileCount > 0 && len(clones) > 0 {
		raw := (float64(exactClones)*10.0 + float64(highSimilarityClones)*6.0 + float64(len(clones))*3.0) /
			float64(fileCount) * 10.0
		m.RiskScore = int(math.Min(100.0, math.Round(raw)))
	}

	return m
}
