package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeEmptyInput(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   \n\t  "))
}

func TestTokenizeMasksLiterals(t *testing.T) {
	tokens := Tokenize(`const greeting = "hello world";`)

	assert.Contains(t, tokens, "string")
	assert.NotContains(t, tokens, "hello")
	assert.NotContains(t, tokens, "world")
}

func TestTokenizeMasksTemplateLiterals(t *testing.T) {
	tokens := Tokenize("const msg = `value is ${x}`;")

	assert.Contains(t, tokens, "template")
	assert.NotContains(t, tokens, "value")
}

func TestTokenizeLowercases(t *testing.T) {
	a := Tokenize("const Foo = 1")
	b := Tokenize("const foo = 1")

	assert.Equal(t, a, b)
}

func TestTokenizeDottedChains(t *testing.T) {
	tokens := Tokenize("console.log(x)")

	assert.Contains(t, tokens, "console.log")
	assert.Contains(t, tokens, "x")
}

func TestTokenizeCallSitesDifferFromBareIdentifiers(t *testing.T) {
	called := Tokenize("foo(bar)")
	bare := Tokenize("foo bar")

	assert.Contains(t, called, "foo(")
	assert.Contains(t, bare, "foo")
	assert.NotContains(t, bare, "foo(")
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	tokens := Tokenize("a === b && c !== d")

	assert.Contains(t, tokens, "===")
	assert.Contains(t, tokens, "&&")
	assert.Contains(t, tokens, "!==")
}

func TestTokenizeDropsStructuralPunctuation(t *testing.T) {
	tokens := Tokenize("f(); { g(); }")

	assert.NotContains(t, tokens, ";")
	assert.NotContains(t, tokens, "{")
	assert.NotContains(t, tokens, "}")
}

func TestTokenizeAppendsBigrams(t *testing.T) {
	tokens := Tokenize("a = b")

	// Base tokens a, =, b plus bigrams a_= and =_b.
	assert.Len(t, tokens, 5)
	assert.Contains(t, tokens, "a_=")
	assert.Contains(t, tokens, "=_b")
}

func TestTokenizeNumericLiterals(t *testing.T) {
	tokens := Tokenize("x = 3.14")

	assert.Contains(t, tokens, "3.14")
}
