package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all dupfind MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: detect_duplicates - Multi-strategy duplicate detection
	s.AddTool(mcp.NewTool("detect_duplicates",
		mcp.WithDescription("Detect duplicated JavaScript/TypeScript code using token, line, structural, sequence, and size similarity signals"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to JavaScript/TypeScript code (file or directory) to analyze")),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Minimum fused similarity threshold 0.0-1.0 (default: 0.8)")),
		mcp.WithNumber("min_lines",
			mcp.Description("Minimum lines for a block to be considered (default: 5)")),
		mcp.WithNumber("min_tokens",
			mcp.Description("Minimum tokens for a block to be considered (default: 50)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithString("output_mode",
			mcp.Description("Response detail: summary, detailed, or full (default: summary)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum clone groups to return, 0 = unlimited (default: 0)")),
	), h.HandleDetectDuplicates)

	// Tool 2: compare_fragments - Pairwise fragment similarity
	s.AddTool(mcp.NewTool("compare_fragments",
		mcp.WithDescription("Compute fused similarity between two code fragments without touching the filesystem"),
		mcp.WithString("fragment1",
			mcp.Required(),
			mcp.Description("First code fragment")),
		mcp.WithString("fragment2",
			mcp.Required(),
			mcp.Description("Second code fragment")),
	), h.HandleCompareFragments)

	// Tool 3: duplication_metrics - Aggregate duplication statistics
	s.AddTool(mcp.NewTool("duplication_metrics",
		mcp.WithDescription("Get aggregate duplication metrics and risk score (0-100) for a codebase"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to JavaScript/TypeScript code to analyze")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
	), h.HandleDuplicationMetrics)
}
