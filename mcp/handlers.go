package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/refactorlab/dupfind/domain"
)

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// HandleDetectDuplicates handles the detect_duplicates tool
func (h *HandlerSet) HandleDetectDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.requestFromConfig()
	req.Paths = []string{path}

	// Parse optional parameters
	if st, ok := args["similarity_threshold"].(float64); ok {
		req.SimilarityThreshold = st
	}
	if ml, ok := args["min_lines"].(float64); ok {
		req.MinLines = int(ml)
	}
	if mt, ok := args["min_tokens"].(float64); ok {
		req.MinTokens = int(mt)
	}
	if rec, ok := args["recursive"].(bool); ok {
		req.Recursive = rec
	}

	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ConfigPath = h.deps.ConfigPath()

	useCase, err := h.deps.BuildDuplicationUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	result, err := useCase.ExecuteAndReturn(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duplicate detection failed: %v", err)), nil
	}

	// Parse output_mode parameter (default: "summary")
	outputMode := "summary"
	if om, ok := args["output_mode"].(string); ok {
		outputMode = om
	}

	maxResults := 0
	if mr, ok := args["max_results"].(float64); ok {
		maxResults = int(mr)
	}

	var responseData interface{}
	switch outputMode {
	case "full":
		responseData = result
	case "detailed":
		responseData = formatClonesDetailed(result, maxResults)
	default: // "summary"
		responseData = formatClonesSummary(result, maxResults)
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleCompareFragments handles the compare_fragments tool
func (h *HandlerSet) HandleCompareFragments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	fragment1, ok := args["fragment1"].(string)
	if !ok {
		return mcp.NewToolResultError("fragment1 parameter is required and must be a string"), nil
	}

	fragment2, ok := args["fragment2"].(string)
	if !ok {
		return mcp.NewToolResultError("fragment2 parameter is required and must be a string"), nil
	}

	useCase, err := h.deps.BuildDuplicationUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	similarity, err := useCase.ComputeFragmentSimilarity(ctx, fragment1, fragment2)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("similarity computation failed: %v", err)), nil
	}

	jsonData, err := json.Marshal(map[string]interface{}{
		"similarity":   similarity,
		"is_duplicate": similarity >= domainThreshold(h),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleDuplicationMetrics handles the duplication_metrics tool
func (h *HandlerSet) HandleDuplicationMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.requestFromConfig()
	req.Paths = []string{path}
	if rec, ok := args["recursive"].(bool); ok {
		req.Recursive = rec
	}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ConfigPath = h.deps.ConfigPath()

	useCase, err := h.deps.BuildDuplicationUseCase()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create detector: %v", err)), nil
	}

	result, err := useCase.ExecuteAndReturn(ctx, *req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("duplicate detection failed: %v", err)), nil
	}

	responseData := map[string]interface{}{
		"files_analyzed": result.FilesAnalyzed,
		"lines_analyzed": result.LinesAnalyzed,
		"metrics":        result.Metrics,
	}

	jsonData, err := json.Marshal(responseData)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// requestFromConfig builds a detect request seeded from the loaded configuration.
func (h *HandlerSet) requestFromConfig() *domain.DetectRequest {
	req := domain.DefaultDetectRequest()

	cfg := h.deps.Config()
	if cfg == nil {
		return req
	}

	if cfg.Analysis.MinLines > 0 {
		req.MinLines = cfg.Analysis.MinLines
	}
	if cfg.Analysis.MinTokens > 0 {
		req.MinTokens = cfg.Analysis.MinTokens
	}
	if cfg.Analysis.SimilarityThreshold > 0 {
		req.SimilarityThreshold = cfg.Analysis.SimilarityThreshold
	}
	if cfg.Input.Recursive != nil {
		req.Recursive = *cfg.Input.Recursive
	}
	if len(cfg.Input.IncludePatterns) > 0 {
		req.IncludePatterns = cfg.Input.IncludePatterns
	}
	if len(cfg.Input.ExcludePatterns) > 0 {
		req.ExcludePatterns = cfg.Input.ExcludePatterns
	}

	return req
}

func domainThreshold(h *HandlerSet) float64 {
	if cfg := h.deps.Config(); cfg != nil && cfg.Analysis.SimilarityThreshold > 0 {
		return cfg.Analysis.SimilarityThreshold
	}
	return domain.DefaultDetectRequest().SimilarityThreshold
}

// formatClonesSummary formats detection results in compact summary mode
func formatClonesSummary(result *domain.DetectResponse, maxResults int) map[string]interface{} {
	issues := []string{}
	filesWithClones := make(map[string]bool)

	for _, clone := range result.Clones {
		for _, inst := range clone.Instances {
			filesWithClones[inst.File] = true
		}

		if maxResults == 0 || len(issues) < maxResults {
			first := clone.Instances[0]
			issue := fmt.Sprintf("%s:%d-%d: %s clone, %d instances (%.1f%%)",
				first.File, first.StartLine, first.EndLine,
				clone.Type, len(clone.Instances), clone.Similarity*100)
			issues = append(issues, issue)
		}
	}

	return map[string]interface{}{
		"issues": issues,
		"summary": map[string]interface{}{
			"total_clone_groups": len(result.Clones),
			"files_with_clones":  len(filesWithClones),
			"duplicate_lines":    metricsDuplicateLines(result),
			"risk_score":         metricsRiskScore(result),
		},
	}
}

// formatClonesDetailed formats detection results with structured details
func formatClonesDetailed(result *domain.DetectResponse, maxResults int) map[string]interface{} {
	type Instance struct {
		File      string `json:"file"`
		StartLine int    `json:"start_line"`
		EndLine   int    `json:"end_line"`
		Context   string `json:"context,omitempty"`
	}
	type Group struct {
		ID         int        `json:"id"`
		Type       string     `json:"type"`
		Similarity float64    `json:"similarity"`
		Lines      int        `json:"lines_of_code"`
		Instances  []Instance `json:"instances"`
		Suggestion string     `json:"suggestion,omitempty"`
	}

	groups := []Group{}
	for _, clone := range result.Clones {
		if maxResults > 0 && len(groups) >= maxResults {
			break
		}

		g := Group{
			ID:         clone.ID,
			Type:       string(clone.Type),
			Similarity: clone.Similarity,
			Lines:      clone.LinesOfCode,
		}
		for _, inst := range clone.Instances {
			g.Instances = append(g.Instances, Instance{
				File:      inst.File,
				StartLine: inst.StartLine,
				EndLine:   inst.EndLine,
				Context:   inst.Context,
			})
		}
		if clone.Suggestion != nil {
			g.Suggestion = clone.Suggestion.Description
		}
		groups = append(groups, g)
	}

	return map[string]interface{}{
		"clone_groups": groups,
		"metrics":      result.Metrics,
		"summary": map[string]interface{}{
			"files_analyzed":     result.FilesAnalyzed,
			"lines_analyzed":     result.LinesAnalyzed,
			"total_clone_groups": len(result.Clones),
		},
	}
}

func metricsDuplicateLines(result *domain.DetectResponse) int {
	if result.Metrics == nil {
		return 0
	}
	return result.Metrics.DuplicateLines
}

func metricsRiskScore(result *domain.DetectResponse) int {
	if result.Metrics == nil {
		return 0
	}
	return result.Metrics.RiskScore
}
