package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/refactorlab/dupfind/internal/constants"
)

var (
	callSiteRe   = regexp.MustCompile(`[\w$]+\s*\(`)
	assignmentRe = regexp.MustCompile(`[^=!<>]=[^=]`)
)

// FusedSimilarity computes the weighted combination of five independent
// similarity signals between two blocks. The result is symmetric,
// deterministic and always within [0, 1]; zero-denominator cases resolve to
// a zero contribution for the affected signal instead of dividing by zero.
func FusedSimilarity(a, b *CodeBlock) float64 {
	return tokenSetJaccard(a.Tokens, b.Tokens)*constants.TokenSimilarityWeight +
		fuzzyLineOverlap(a.Content, b.Content)*constants.LineSimilarityWeight +
		structuralOverlap(a.Content, b.Content)*constants.StructuralSimilarityWeight +
		sequenceLCSRatio(a.Tokens, b.Tokens)*constants.SequenceSimilarityWeight +
		sizeRatio(a, b)*constants.SizeSimilarityWeight
}

// tokenSetJaccard computes intersection-over-union of the two token sets.
// Bigrams are deduplicated along with base tokens.
func tokenSetJaccard(tokensA, tokensB []string) float64 {
	setA := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(tokensB))
	for _, t := range tokensB {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// fuzzyLineOverlap counts how many non-blank lines of A have a close match
// in B, divided by the larger line count.
func fuzzyLineOverlap(contentA, contentB string) float64 {
	linesA := nonBlankLines(contentA)
	linesB := nonBlankLines(contentB)

	denom := len(linesA)
	if len(linesB) > denom {
		denom = len(linesB)
	}
	if denom < 1 {
		denom = 1
	}

	matched := 0
	for _, la := range linesA {
		for _, lb := range linesB {
			if lineSimilarity(la, lb) > constants.LineMatchThreshold {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(denom)
}

func nonBlankLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// lineSimilarity is 1 - levenshtein/maxLen. Equal strings (including two
// empty ones) score exactly 1.0. Both the distance and the denominator are
// measured in runes.
func lineSimilarity(l1, l2 string) float64 {
	if l1 == l2 {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(l1)
	if n := utf8.RuneCountInString(l2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshteinDistance(l1, l2))/float64(maxLen)
}

// structuralOverlap compares small structural-tag sets derived from the raw
// content of each block.
func structuralOverlap(contentA, contentB string) float64 {
	tagsA := structuralTags(contentA)
	tagsB := structuralTags(contentB)

	intersection := 0
	for t := range tagsA {
		if _, ok := tagsB[t]; ok {
			intersection++
		}
	}
	union := len(tagsA) + len(tagsB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// structuralTags derives coarse structural features from block text.
func structuralTags(content string) map[string]struct{} {
	tags := make(map[string]struct{})

	if strings.Contains(content, "if") {
		tags["conditional"] = struct{}{}
	}
	if strings.Contains(content, "for") || strings.Contains(content, "while") {
		tags["loop"] = struct{}{}
	}
	if strings.Contains(content, "try") {
		tags["exception"] = struct{}{}
	}
	if strings.Contains(content, "function") || strings.Contains(content, "=>") {
		tags["function_def"] = struct{}{}
	}
	if strings.Contains(content, "class") {
		tags["class_def"] = struct{}{}
	}
	if strings.Contains(content, "return") {
		tags["return_stmt"] = struct{}{}
	}
	if strings.Count(content, "{") > 3 {
		tags["nested_blocks"] = struct{}{}
	}
	if len(callSiteRe.FindAllString(content, -1)) > 2 {
		tags["multiple_calls"] = struct{}{}
	}
	if len(assignmentRe.FindAllString(content, -1)) > 2 {
		tags["multiple_assignments"] = struct{}{}
	}

	return tags
}

// sequenceLCSRatio is 2*LCS/(|A|+|B|) over the ordered token sequences.
// Order matters here, unlike the Jaccard signal.
func sequenceLCSRatio(tokensA, tokensB []string) float64 {
	total := len(tokensA) + len(tokensB)
	if total == 0 {
		return 0.0
	}
	return 2.0 * float64(lcsLength(tokensA, tokensB)) / float64(total)
}

// lcsLength computes the longest common subsequence length via standard
// dynamic programming with two rolling rows.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// sizeRatio compares block sizes as min/max of the line deltas.
func sizeRatio(a, b *CodeBlock) float64 {
	linesA := a.EndLine - a.StartLine
	linesB := b.EndLine - b.StartLine

	minLines, maxLines := linesA, linesB
	if minLines > maxLines {
		minLines, maxLines = maxLines, minLines
	}
	if maxLines == 0 {
		return 0.0
	}
	return float64(minLines) / float64(maxLines)
}

// levenshteinDistance computes the edit distance between two strings using
// two rolling rows. Distance between two empty strings is zero.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost

			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}
