package analyzer

import (
	"regexp"
	"strings"
)

// Literal and comment masking patterns. Literal content never contributes to
// similarity; only literal presence does, so every literal collapses to a
// fixed placeholder before token scanning.
var (
	templateLiteralRe = regexp.MustCompile("`(?s)(?:[^`\\\\]|\\\\.)*`")
	doubleQuoteRe     = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	singleQuoteRe     = regexp.MustCompile(`'(?:[^'\\]|\\.)*'`)
	blockCommentRe    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe     = regexp.MustCompile(`//[^\n]*`)
)

// tokenRe recognizes, in priority order: dotted identifier chains, called or
// indexed identifiers, increment/decrement, multi-character operators, bare
// identifiers, numeric literals, and single punctuation characters. Go's
// regexp alternation is leftmost-first, so the order here is the priority.
var tokenRe = regexp.MustCompile(
	`[A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)+` +
		`|[A-Za-z_$][\w$]*\s*[(\[]` +
		`|\+\+|--` +
		`|===|!==|==|!=|<=|>=|&&|\|\||=>` +
		`|[A-Za-z_$][\w$]*` +
		`|\d+(?:\.\d+)?` +
		`|[^\s\w]`)

// punctClusterRe matches tokens made only of structural punctuation, which
// carry no similarity signal and are dropped.
var punctClusterRe = regexp.MustCompile(`^[{}();,.]+$`)

// maskLiterals replaces string/template literals and comments with fixed
// placeholder tokens.
func maskLiterals(text string) string {
	masked := templateLiteralRe.ReplaceAllString(text, "`TEMPLATE`")
	masked = doubleQuoteRe.ReplaceAllString(masked, `"STRING"`)
	masked = singleQuoteRe.ReplaceAllString(masked, `"STRING"`)
	masked = blockCommentRe.ReplaceAllString(masked, "/*COMMENT*/")
	masked = lineCommentRe.ReplaceAllString(masked, "//COMMENT")
	return masked
}

// Tokenize converts a text block into an ordered sequence of normalized
// tokens followed by all contiguous token bigrams (pairs joined by "_").
// The bigrams let set- and sequence-based measures pick up repeated short
// idioms without a full n-gram index. Empty or whitespace-only input yields
// an empty sequence.
func Tokenize(text string) []string {
	masked := maskLiterals(text)

	matches := tokenRe.FindAllString(masked, -1)
	tokens := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		tok := strings.ToLower(strings.TrimSpace(m))
		if tok == "" || punctClusterRe.MatchString(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}

	// Bigrams over the base token sequence only.
	base := len(tokens)
	for i := 0; i+1 < base; i++ {
		tokens = append(tokens, tokens[i]+"_"+tokens[i+1])
	}

	return tokens
}
