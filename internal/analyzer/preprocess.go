package analyzer

import (
	"regexp"
	"strings"

	"github.com/refactorlab/dupfind/internal/constants"
)

var (
	importLineRe = regexp.MustCompile(`^\s*(?:import\s|export\s+\{[^}]*\}\s*(?:from\b.*)?;?\s*$|export\s+\*\s+from\b|const\s+[\w${},\s]+=\s*require\s*\()`)
	wsRunRe      = regexp.MustCompile(`\s+`)

	// meaningfulElementRe counts word runs and a fixed class of code
	// punctuation; blocks with too few of these are noise.
	meaningfulElementRe = regexp.MustCompile(`\w+|[{}();=+\-*/<>!&|]`)
)

// Preprocess normalizes block content before hashing, validation and
// tokenization. Each transformation is independently togglable.
func Preprocess(content string, opts Options) string {
	processed := content

	if opts.IgnoreComments {
		processed = blockCommentRe.ReplaceAllString(processed, "")
		processed = lineCommentRe.ReplaceAllString(processed, "")
	}

	if opts.IgnoreImports {
		lines := strings.Split(processed, "\n")
		kept := lines[:0]
		for _, line := range lines {
			if importLineRe.MatchString(line) {
				continue
			}
			kept = append(kept, line)
		}
		processed = strings.Join(kept, "\n")
	}

	if opts.IgnoreWhitespace {
		processed = strings.TrimSpace(wsRunRe.ReplaceAllString(processed, " "))
	}

	return processed
}

// IsValidBlock rejects candidate blocks that are too short, too sparse in
// code tokens, or comment-only. rawContent is the block as it appears in the
// source; processedContent is the output of Preprocess.
func IsValidBlock(rawContent, processedContent string) bool {
	if len(strings.TrimSpace(processedContent)) < constants.MinProcessedLength {
		return false
	}

	rawLines := strings.Split(rawContent, "\n")
	if len(rawLines) < constants.MinRawLines {
		return false
	}

	if len(meaningfulElementRe.FindAllString(processedContent, -1)) < constants.MinMeaningfulElements {
		return false
	}

	codeLines := 0
	for _, line := range rawLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentLine(trimmed) {
			continue
		}
		codeLines++
	}
	return codeLines >= constants.MinCodeLines
}

// isCommentLine reports whether a trimmed line is part of a comment.
func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		trimmed == "*/"
}
