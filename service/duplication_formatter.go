package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/refactorlab/dupfind/domain"
)

// DuplicationOutputFormatter implements the domain.DuplicationOutputFormatter interface
type DuplicationOutputFormatter struct {
	showContent bool
}

// NewDuplicationOutputFormatter creates a new duplication output formatter
func NewDuplicationOutputFormatter() *DuplicationOutputFormatter {
	return &DuplicationOutputFormatter{}
}

// NewDuplicationOutputFormatterWithContent creates a formatter that includes
// content previews in text output
func NewDuplicationOutputFormatterWithContent(showContent bool) *DuplicationOutputFormatter {
	return &DuplicationOutputFormatter{showContent: showContent}
}

// Write formats a detection response according to the specified format
func (f *DuplicationOutputFormatter) Write(response *domain.DetectResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.formatAsText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.formatAsCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// formatAsText formats the response as human-readable text
func (f *DuplicationOutputFormatter) formatAsText(response *domain.DetectResponse, writer io.Writer) error {
	if !response.Success {
		fmt.Fprintf(writer, "Duplicate detection failed: %s\n", response.Error)
		return nil
	}

	fmt.Fprintf(writer, "Duplicate Detection Results\n")
	fmt.Fprintf(writer, "===========================\n\n")

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", response.FilesAnalyzed)
	fmt.Fprintf(writer, "  Lines analyzed: %d\n", response.LinesAnalyzed)
	if response.Metrics != nil {
		fmt.Fprintf(writer, "  Clone groups found: %d\n", response.Metrics.TotalClones)
		fmt.Fprintf(writer, "  Duplicate blocks: %d\n", response.Metrics.DuplicateBlocks)
		fmt.Fprintf(writer, "  Duplicate lines: %d\n", response.Metrics.DuplicateLines)
		fmt.Fprintf(writer, "  Duplication: %.1f%%\n", response.Metrics.DuplicationPercent)
		fmt.Fprintf(writer, "  Risk score: %d/100\n", response.Metrics.RiskScore)
	}
	fmt.Fprintf(writer, "  Analysis duration: %dms\n\n", response.Duration)

	if len(response.Clones) == 0 {
		fmt.Fprintf(writer, "No duplicates detected.\n")
		return nil
	}

	fmt.Fprintf(writer, "Clone Groups:\n")
	fmt.Fprintf(writer, "=============\n\n")

	for _, clone := range response.Clones {
		if clone == nil {
			continue
		}
		fmt.Fprintf(writer, "Group %d (%s, %d instances, similarity: %.3f, ~%d lines):\n",
			clone.ID, clone.Type, len(clone.Instances), clone.Similarity, clone.LinesOfCode)

		for i, inst := range clone.Instances {
			fmt.Fprintf(writer, "  %d. %s", i+1, inst.String())
			if inst.Context != "" {
				fmt.Fprintf(writer, "  %s", inst.Context)
			}
			fmt.Fprintf(writer, "\n")
		}

		if clone.Suggestion != nil {
			fmt.Fprintf(writer, "  Suggestion: %s (%s)\n", clone.Suggestion.Description, clone.Suggestion.Type)
			if len(clone.Suggestion.Parameters) > 0 {
				fmt.Fprintf(writer, "  Parameters: %s\n", strings.Join(clone.Suggestion.Parameters, ", "))
			}
			fmt.Fprintf(writer, "  Benefit: %s\n", clone.Suggestion.Benefit)
		}

		if f.showContent && clone.Suggestion != nil && clone.Suggestion.ExtractedCode != "" {
			fmt.Fprintf(writer, "  Content preview:\n")
			lines := strings.Split(clone.Suggestion.ExtractedCode, "\n")
			for j, line := range lines {
				if j >= 5 { // Limit preview to 5 lines
					fmt.Fprintf(writer, "     ...\n")
					break
				}
				fmt.Fprintf(writer, "     %s\n", line)
			}
		}

		fmt.Fprintf(writer, "\n")
	}

	return nil
}

// formatAsCSV formats the response as CSV, one row per clone instance
func (f *DuplicationOutputFormatter) formatAsCSV(response *domain.DetectResponse, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	defer csvWriter.Flush()

	header := []string{
		"group_id", "clone_type", "similarity", "lines_of_code", "token_count",
		"file", "start_line", "end_line", "context",
	}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, clone := range response.Clones {
		if clone == nil {
			continue
		}
		for _, inst := range clone.Instances {
			record := []string{
				fmt.Sprintf("%d", clone.ID),
				string(clone.Type),
				fmt.Sprintf("%.6f", clone.Similarity),
				fmt.Sprintf("%d", clone.LinesOfCode),
				fmt.Sprintf("%d", clone.TokenCount),
				inst.File,
				fmt.Sprintf("%d", inst.StartLine),
				fmt.Sprintf("%d", inst.EndLine),
				inst.Context,
			}
			if err := csvWriter.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	return nil
}
