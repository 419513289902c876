package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/refactorlab/dupfind/internal/constants"
)

// CodeBlock is a candidate region of source text considered for duplication
// analysis. Blocks are immutable once extracted and discarded after a single
// detection run.
type CodeBlock struct {
	File      string
	StartLine int // 1-based inclusive
	EndLine   int // 1-based inclusive
	Content   string
	Processed string
	Hash      uint64
	Tokens    []string
}

// LineCount returns the number of source lines in the block
func (b *CodeBlock) LineCount() int {
	return b.EndLine - b.StartLine + 1
}

// String returns string representation of CodeBlock
func (b *CodeBlock) String() string {
	return fmt.Sprintf("%s:%d-%d", b.File, b.StartLine, b.EndLine)
}

// Block heading patterns. These are deliberately broad line heuristics, not
// a parser: block boundaries come from brace counting and indentation, so a
// misidentified heading degrades accuracy silently instead of failing.
var (
	functionHeadingRe = regexp.MustCompile(
		`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\b` +
			`|^\s*(?:export\s+)?const\s+[\w$]+\s*=\s*(?:async\s*)?(?:\([^)]*\)|[\w$]+)\s*=>` +
			`|^\s*(?:async\s+)?[\w$]+\s*\([^)]*\)\s*\{\s*$` +
			`|^\s*[\w$]+\s*:\s*(?:async\s*)?function\b`)

	classHeadingRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:abstract\s+)?class\s+[A-Za-z_$][\w$]*`)

	statementHeadingRe = regexp.MustCompile(`^\s*(?:if|for|while|switch)\s*\(|^\s*try\s*\{`)
)

// span is a half-open candidate region in 0-based line indices, inclusive on
// both ends.
type span struct {
	start int
	end   int
}

// ExtractBlocks scans a file's text line by line with four independent
// strategies and returns the validated, tokenized, deduplicated candidate
// blocks. Extraction is a pure function of the file text.
func ExtractBlocks(file, text string, opts Options) []*CodeBlock {
	lines := strings.Split(text, "\n")

	var candidates []span
	candidates = append(candidates, functionSpans(lines)...)
	candidates = append(candidates, classSpans(lines)...)
	candidates = append(candidates, statementSpans(lines, opts.MinLines)...)
	candidates = append(candidates, windowSpans(lines, opts.MinLines)...)

	blocks := make([]*CodeBlock, 0, len(candidates))
	for _, c := range candidates {
		content := strings.Join(lines[c.start:c.end+1], "\n")
		processed := Preprocess(content, opts)
		if !IsValidBlock(content, processed) {
			continue
		}
		tokens := Tokenize(processed)
		if len(tokens) < opts.MinTokens {
			continue
		}
		blocks = append(blocks, &CodeBlock{
			File:      file,
			StartLine: c.start + 1,
			EndLine:   c.end + 1,
			Content:   content,
			Processed: processed,
			Hash:      xxhash.Sum64String(processed),
			Tokens:    tokens,
		})
	}

	return deduplicateAndRank(blocks)
}

// functionSpans finds function-like blocks: function declarations,
// const-assigned arrows, method shorthand and object-literal function
// properties.
func functionSpans(lines []string) []span {
	var spans []span
	for i, line := range lines {
		if !functionHeadingRe.MatchString(line) {
			continue
		}
		end := findBlockEnd(lines, i)
		if end-i+1 >= constants.MinFunctionBlockLines {
			spans = append(spans, span{start: i, end: end})
		}
	}
	return spans
}

// classSpans finds class-like blocks.
func classSpans(lines []string) []span {
	var spans []span
	for i, line := range lines {
		if !classHeadingRe.MatchString(line) {
			continue
		}
		end := findBlockEnd(lines, i)
		if end-i+1 >= constants.MinClassBlockLines {
			spans = append(spans, span{start: i, end: end})
		}
	}
	return spans
}

// statementSpans finds control-statement blocks (if/for/while/switch/try).
// A heading with no opening brace is a one-line statement and terminates
// immediately, which the size floors then discard.
func statementSpans(lines []string, minLines int) []span {
	var spans []span
	for i, line := range lines {
		if !statementHeadingRe.MatchString(line) {
			continue
		}
		end := i
		if strings.Contains(line, "{") || braceOpensBelow(lines, i) {
			end = findBlockEnd(lines, i)
		}
		if end-i+1 >= minLines && end > i+2 {
			spans = append(spans, span{start: i, end: end})
		}
	}
	return spans
}

// braceOpensBelow reports whether the line following a heading opens the
// statement body (brace-on-next-line style).
func braceOpensBelow(lines []string, i int) bool {
	return i+1 < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i+1]), "{")
}

// windowSpans emits fixed-size sliding windows as coarse fallback
// candidates covering code that matches no declaration heading.
func windowSpans(lines []string, minLines int) []span {
	var spans []span
	emitted := 0
	for _, size := range constants.SlidingWindowSizes {
		if size < minLines {
			continue
		}
		for start := 0; start+size <= len(lines); start += constants.SlidingWindowStride {
			if emitted >= constants.MaxSlidingWindows {
				return spans
			}
			spans = append(spans, span{start: start, end: start + size - 1})
			emitted++
		}
	}
	return spans
}

// findBlockEnd locates the end of a block starting at the heading line. The
// first '{' opens a brace counter and the matching '}' at depth zero ends
// the block. When no balanced braces are found the first subsequent line
// with indentation at or below the heading's (and which is not a lone '}')
// bounds the block. Scanning is capped at MaxBlockScanLines past the start.
func findBlockEnd(lines []string, start int) int {
	limit := start + constants.MaxBlockScanLines
	if limit > len(lines)-1 {
		limit = len(lines) - 1
	}

	depth := 0
	opened := false
	for i := start; i <= limit; i++ {
		for _, ch := range lines[i] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
				if opened && depth == 0 {
					return i
				}
			}
		}
	}

	// No balanced braces: fall back to the indentation boundary.
	headIndent := indentWidth(lines[start])
	for i := start + 1; i <= limit; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if indentWidth(lines[i]) <= headIndent && trimmed != "}" {
			if i-1 > start {
				return i - 1
			}
			return start
		}
	}

	return limit
}

// indentWidth returns the count of leading whitespace characters, tabs
// weighted as single characters.
func indentWidth(line string) int {
	for i, ch := range line {
		if ch != ' ' && ch != '\t' {
			return i
		}
	}
	return len(line)
}

// deduplicateAndRank sorts blocks by token count descending, then line span
// descending, and keeps the first block for each (file, startLine, endLine)
// key. Span collisions across strategies resolve toward the densest
// candidate.
func deduplicateAndRank(blocks []*CodeBlock) []*CodeBlock {
	sort.SliceStable(blocks, func(i, j int) bool {
		if len(blocks[i].Tokens) != len(blocks[j].Tokens) {
			return len(blocks[i].Tokens) > len(blocks[j].Tokens)
		}
		return blocks[i].LineCount() > blocks[j].LineCount()
	})

	seen := make(map[string]bool, len(blocks))
	result := make([]*CodeBlock, 0, len(blocks))
	for _, b := range blocks {
		key := fmt.Sprintf("%s:%d:%d", b.File, b.StartLine, b.EndLine)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, b)
	}
	return result
}
