package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// Suggestion describes the extraction strategy recommended for a clone
// group. It is advisory text computed deterministically from the group's
// first member; nothing is applied to source files.
type Suggestion struct {
	Type          string
	Name          string
	Description   string
	ExtractedCode string
	Parameters    []string
	Benefit       string
}

// Refactoring strategy labels.
const (
	RefactorExtractFunction = "extract-function"
	RefactorExtractClass    = "extract-class"
	RefactorExtractUtility  = "extract-utility"
	RefactorCreateComponent = "create-component"
)

var signatureRe = regexp.MustCompile(`(?:function\s+[\w$]*\s*|[\w$]+\s*[:=]\s*(?:async\s*)?)\(([^)]*)\)`)

// Suggest classifies the appropriate extraction strategy for a clone group
// from its first member's content and the group's average line count. First
// match wins.
func Suggest(blocks []*CodeBlock) *Suggestion {
	if len(blocks) == 0 {
		return nil
	}

	content := blocks[0].Content
	avgLines := averageLineCount(blocks)
	occurrences := len(blocks)

	switch {
	case strings.Contains(content, "class ") || strings.Contains(content, "interface "):
		return &Suggestion{
			Type:          RefactorExtractClass,
			Name:          "ExtractedBase",
			Description:   describeClone("class definition", occurrences),
			ExtractedCode: content,
			Benefit:       "Shared behavior moves into one base class, removing parallel hierarchies.",
		}

	case strings.Contains(content, "function ") || strings.Contains(content, "=>") || avgLines <= 15:
		return &Suggestion{
			Type:          RefactorExtractFunction,
			Name:          "extractedFunction",
			Description:   describeClone("function body", occurrences),
			ExtractedCode: content,
			Parameters:    extractParameters(content),
			Benefit:       "One canonical function replaces every copy; fixes land in a single place.",
		}

	case avgLines > 15:
		return &Suggestion{
			Type:          RefactorExtractUtility,
			Name:          "sharedUtility",
			Description:   describeClone("multi-step routine", occurrences),
			ExtractedCode: content,
			Benefit:       "A utility module isolates the repeated routine behind one tested entry point.",
		}

	default:
		return &Suggestion{
			Type:          RefactorCreateComponent,
			Name:          "SharedComponent",
			Description:   describeClone("fragment", occurrences),
			ExtractedCode: content,
			Benefit:       "A reusable component removes the copies and keeps markup and logic together.",
		}
	}
}

func describeClone(kind string, occurrences int) string {
	return fmt.Sprintf("Duplicated %s found in %d places; extract it into a shared definition.", kind, occurrences)
}

// extractParameters pulls parameter names from the first function signature
// in the content, dropping defaults and type annotations.
func extractParameters(content string) []string {
	m := signatureRe.FindStringSubmatch(content)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil
	}

	var params []string
	for _, raw := range strings.Split(m[1], ",") {
		name := strings.TrimSpace(raw)
		if i := strings.IndexAny(name, "=:"); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" {
			params = append(params, name)
		}
	}
	return params
}

func averageLineCount(blocks []*CodeBlock) int {
	if len(blocks) == 0 {
		return 0
	}
	total := 0
	for _, b := range blocks {
		total += b.LineCount()
	}
	return (total + len(blocks)/2) / len(blocks)
}
