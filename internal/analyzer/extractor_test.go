package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func extractorOptions() Options {
	opts := DefaultOptions()
	opts.MinTokens = 10
	return opts
}

func TestExtractBlocksFindsFunctions(t *testing.T) {
	source := `function add(a, b) {
  const sum = a + b;
  const product = a * b;
  console.log(sum, product);
  return sum;
}`

	blocks := ExtractBlocks("math.js", source, extractorOptions())

	assert.Len(t, blocks, 1)
	assert.Equal(t, "math.js", blocks[0].File)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 6, blocks[0].EndLine)
	assert.NotZero(t, blocks[0].Hash)
	assert.NotEmpty(t, blocks[0].Tokens)
}

func TestExtractBlocksFindsArrowFunctions(t *testing.T) {
	source := `const handler = (req, res) => {
  const body = parse(req.body);
  const result = transform(body);
  res.send(result);
  return result;
}`

	blocks := ExtractBlocks("handler.js", source, extractorOptions())

	assert.NotEmpty(t, blocks)
	assert.Equal(t, 1, blocks[0].StartLine)
}

func TestExtractBlocksSkipsTinyFunctions(t *testing.T) {
	source := `function tiny() {
  return 1;
}`

	blocks := ExtractBlocks("tiny.js", source, extractorOptions())

	assert.Empty(t, blocks)
}

func TestExtractBlocksFindsClasses(t *testing.T) {
	source := `class Repository {
  constructor(db) {
    this.db = db;
  }
  find(id) {
    return this.db.query(id);
  }
}`

	blocks := ExtractBlocks("repo.js", source, extractorOptions())

	assert.NotEmpty(t, blocks)

	found := false
	for _, b := range blocks {
		if b.StartLine == 1 && b.EndLine == 8 {
			found = true
		}
	}
	assert.True(t, found, "expected a block covering the whole class")
}

func TestExtractBlocksFindsStatementBlocks(t *testing.T) {
	source := `for (const item of items) {
  const value = normalize(item.value);
  const weight = item.weight || 1;
  totals.push(value * weight);
  seen.add(item.id);
}`

	blocks := ExtractBlocks("loop.js", source, extractorOptions())

	assert.NotEmpty(t, blocks)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 6, blocks[0].EndLine)
}

func TestStatementSpansSkipOneLineStatements(t *testing.T) {
	lines := strings.Split("if (x) doThing();\nif (y) doOther();\nmore();\nlines();\nhere();", "\n")

	assert.Empty(t, statementSpans(lines, 3))
}

func TestWindowSpansCoverLongFiles(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}

	spans := windowSpans(lines, 5)

	assert.NotEmpty(t, spans)
	assert.Equal(t, 0, spans[0].start)
	assert.Equal(t, 9, spans[0].end)
	assert.LessOrEqual(t, len(spans), 50)
}

func TestWindowSpansRespectMinLines(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}

	// Both window sizes sit below the floor, so nothing is emitted.
	assert.Empty(t, windowSpans(lines, 20))
}

func TestFindBlockEndBraceCounting(t *testing.T) {
	lines := strings.Split(`function f() {
  if (x) {
    y();
  }
}
trailing();`, "\n")

	assert.Equal(t, 4, findBlockEnd(lines, 0))
}

func TestFindBlockEndIndentationFallback(t *testing.T) {
	lines := strings.Split("head:\n  a = 1\n  b = 2\nnext", "\n")

	assert.Equal(t, 2, findBlockEnd(lines, 0))
}

func TestDeduplicateAndRankKeepsDensestBlock(t *testing.T) {
	dense := &CodeBlock{File: "a.js", StartLine: 1, EndLine: 10, Tokens: make([]string, 40)}
	sparse := &CodeBlock{File: "a.js", StartLine: 1, EndLine: 10, Tokens: make([]string, 5)}
	other := &CodeBlock{File: "a.js", StartLine: 20, EndLine: 29, Tokens: make([]string, 8)}

	result := deduplicateAndRank([]*CodeBlock{sparse, dense, other})

	assert.Len(t, result, 2)
	assert.Same(t, dense, result[0])
	assert.Same(t, other, result[1])
}
