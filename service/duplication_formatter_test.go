package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/refactorlab/dupfind/domain"
)

func sampleResponse() *domain.DetectResponse {
	return &domain.DetectResponse{
		Clones: []*domain.DuplicateClone{
			{
				ID:         1,
				Type:       domain.CloneTypeExact,
				Similarity: 1.0,
				Instances: []domain.DuplicateInstance{
					{File: "a.js", StartLine: 1, EndLine: 10, Context: "function processItems(items, limit) {"},
					{File: "b.js", StartLine: 5, EndLine: 14, Context: "function processItems(items, limit) {"},
				},
				LinesOfCode: 10,
				TokenCount:  63,
				Suggestion: &domain.RefactoringSuggestion{
					Type:          domain.RefactorExtractFunction,
					Name:          "extractedFunction",
					Description:   "Duplicated function body found in 2 places; extract it into a shared definition.",
					ExtractedCode: "function processItems(items, limit) {\n  return items;\n}",
					Parameters:    []string{"items", "limit"},
					Benefit:       "One canonical function replaces every copy; fixes land in a single place.",
				},
			},
		},
		Metrics: &domain.DuplicationMetrics{
			TotalClones:        1,
			DuplicateBlocks:    2,
			DuplicateLines:     20,
			DuplicationPercent: 10.0,
			AverageBlockSize:   10.0,
			RiskScore:          65,
		},
		FilesAnalyzed: 2,
		LinesAnalyzed: 22,
		Duration:      7,
		Success:       true,
	}
}

func TestFormatAsText(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatText, &buf))
	out := buf.String()

	assert.Contains(t, out, "Duplicate Detection Results")
	assert.Contains(t, out, "Files analyzed: 2")
	assert.Contains(t, out, "Risk score: 65/100")
	assert.Contains(t, out, "Group 1 (exact, 2 instances, similarity: 1.000, ~10 lines):")
	assert.Contains(t, out, "a.js:1-10")
	assert.Contains(t, out, "b.js:5-14")
	assert.Contains(t, out, "Parameters: items, limit")
	assert.NotContains(t, out, "Content preview")
}

func TestFormatAsTextWithContent(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatterWithContent(true)

	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatText, &buf))

	assert.Contains(t, buf.String(), "Content preview:")
	assert.Contains(t, buf.String(), "function processItems(items, limit) {")
}

func TestFormatAsTextNoDuplicates(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	resp := domain.EmptyDetectResponse(3)
	require.NoError(t, formatter.Write(resp, domain.OutputFormatText, &buf))

	assert.Contains(t, buf.String(), "No duplicates detected.")
}

func TestFormatAsTextFailure(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	resp := &domain.DetectResponse{Success: false, Error: "no input files"}
	require.NoError(t, formatter.Write(resp, domain.OutputFormatText, &buf))

	assert.Contains(t, buf.String(), "Duplicate detection failed: no input files")
}

func TestFormatAsJSON(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatJSON, &buf))

	var decoded domain.DetectResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.True(t, decoded.Success)
	require.Len(t, decoded.Clones, 1)
	assert.Equal(t, domain.CloneTypeExact, decoded.Clones[0].Type)
	assert.Equal(t, 65, decoded.Metrics.RiskScore)
}

func TestFormatAsYAML(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatYAML, &buf))

	var decoded domain.DetectResponse
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 2, decoded.FilesAnalyzed)
	require.Len(t, decoded.Clones, 1)
	assert.Len(t, decoded.Clones[0].Instances, 2)
}

func TestFormatAsCSV(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	require.NoError(t, formatter.Write(sampleResponse(), domain.OutputFormatCSV, &buf))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)

	// Header plus one row per instance.
	require.Len(t, records, 3)
	assert.Equal(t, "group_id", records[0][0])
	assert.Equal(t, "context", records[0][8])
	assert.Equal(t, "a.js", records[1][5])
	assert.Equal(t, "b.js", records[2][5])
	assert.Equal(t, "exact", records[1][1])
}

func TestFormatUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	formatter := NewDuplicationOutputFormatter()

	err := formatter.Write(sampleResponse(), domain.OutputFormat("xml"), &buf)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
