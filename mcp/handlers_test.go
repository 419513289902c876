package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refactorlab/dupfind/mcp"
)

const duplicatedSnippet = `function processItems(items, limit) {
  const results = [];
  for (let i = 0; i < items.length; i++) {
    const item = items[i];
    if (item.value > limit) {
      results.push(item.value * 2);
    }
  }
  return results;
}
`

type args struct {
	arguments interface{}
	setupFS   func(t *testing.T) string
}

func setupDuplicateProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"first.js", "second.js"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(duplicatedSnippet), 0o644))
	}
	return dir
}

func getTextFromContent(content mcplib.Content) string {
	if tc, ok := mcplib.AsTextContent(content); ok {
		return tc.Text
	}
	return ""
}

func runToolTest(
	t *testing.T,
	setupFS func(t *testing.T) string,
	arguments interface{},
	handlerFunc func(*mcp.HandlerSet, context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error),
) *mcplib.CallToolResult {

	t.Helper()
	h := mcp.NewHandlerSet(mcp.NewDependencies(nil, ""))

	var path string
	if setupFS != nil {
		path = setupFS(t)
	}

	if path != "" {
		if m, ok := arguments.(map[string]interface{}); ok {
			m["path"] = path
		}
	}

	req := mcplib.CallToolRequest{
		Params: mcplib.CallToolParams{
			Arguments: arguments,
		},
	}

	res, err := handlerFunc(h, context.Background(), req)
	require.NoError(t, err)

	return res
}

func TestHandleDetectDuplicates(t *testing.T) {
	type want struct {
		isError      *bool
		expectPrefix string
		check        func(t *testing.T, res *mcplib.CallToolResult)
	}
	errTrue := true
	tests := map[string]struct {
		args args
		want want
	}{
		"invalid_arguments_format": {
			args: args{
				arguments: "not-a-map",
			},
			want: want{
				isError:      &errTrue,
				expectPrefix: "invalid arguments format",
			},
		},
		"path_missing": {
			args: args{
				arguments: map[string]interface{}{},
			},
			want: want{
				isError: &errTrue,
			},
		},
		"path_not_exist": {
			args: args{
				arguments: map[string]interface{}{
					"path": "/non/existing/path",
				},
			},
			want: want{
				isError:      &errTrue,
				expectPrefix: "path does not exist",
			},
		},
		"summary_mode": {
			args: args{
				setupFS:   setupDuplicateProject,
				arguments: map[string]interface{}{},
			},
			want: want{
				check: func(t *testing.T, res *mcplib.CallToolResult) {
					require.Greater(t, len(res.Content), 0)
					text := getTextFromContent(res.Content[0])
					require.NotEmpty(t, text)
					var result map[string]interface{}
					require.NoError(t, json.Unmarshal([]byte(text), &result))
					assert.Contains(t, result, "issues")
					require.Contains(t, result, "summary")
					summary := result["summary"].(map[string]interface{})
					assert.Equal(t, float64(1), summary["total_clone_groups"])
					assert.Equal(t, float64(2), summary["files_with_clones"])
				},
			},
		},
		"detailed_mode": {
			args: args{
				setupFS: setupDuplicateProject,
				arguments: map[string]interface{}{
					"output_mode": "detailed",
				},
			},
			want: want{
				check: func(t *testing.T, res *mcplib.CallToolResult) {
					text := getTextFromContent(res.Content[0])
					var result map[string]interface{}
					require.NoError(t, json.Unmarshal([]byte(text), &result))
					require.Contains(t, result, "clone_groups")
					groups := result["clone_groups"].([]interface{})
					require.Len(t, groups, 1)
					group := groups[0].(map[string]interface{})
					assert.Equal(t, "exact", group["type"])
					assert.Len(t, group["instances"], 2)
				},
			},
		},
		"full_mode": {
			args: args{
				setupFS: setupDuplicateProject,
				arguments: map[string]interface{}{
					"output_mode": "full",
				},
			},
			want: want{
				check: func(t *testing.T, res *mcplib.CallToolResult) {
					text := getTextFromContent(res.Content[0])
					var result map[string]interface{}
					require.NoError(t, json.Unmarshal([]byte(text), &result))
					assert.Contains(t, result, "clones")
					assert.Contains(t, result, "metrics")
					assert.Equal(t, true, result["success"])
				},
			},
		},
		"max_results_limits_issues": {
			args: args{
				setupFS: setupDuplicateProject,
				arguments: map[string]interface{}{
					"max_results": float64(0),
				},
			},
			want: want{
				check: func(t *testing.T, res *mcplib.CallToolResult) {
					text := getTextFromContent(res.Content[0])
					var result map[string]interface{}
					require.NoError(t, json.Unmarshal([]byte(text), &result))
					issues := result["issues"].([]interface{})
					require.Len(t, issues, 1)
					assert.Contains(t, issues[0].(string), "exact clone, 2 instances")
				},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, tt.args.setupFS, tt.args.arguments, (*mcp.HandlerSet).HandleDetectDuplicates)

			if tt.want.isError != nil {
				assert.Equal(t, *tt.want.isError, res.IsError)
			} else {
				assert.False(t, res.IsError)
			}
			if tt.want.expectPrefix != "" {
				require.Greater(t, len(res.Content), 0)
				text := getTextFromContent(res.Content[0])
				assert.True(t, strings.HasPrefix(text, tt.want.expectPrefix),
					"expected prefix %q, got %q", tt.want.expectPrefix, text)
			}
			if tt.want.check != nil {
				tt.want.check(t, res)
			}
		})
	}
}

func TestHandleCompareFragments(t *testing.T) {
	errTrue := true
	tests := map[string]struct {
		arguments    interface{}
		isError      *bool
		expectPrefix string
		check        func(t *testing.T, result map[string]interface{})
	}{
		"invalid_arguments_format": {
			arguments:    42,
			isError:      &errTrue,
			expectPrefix: "invalid arguments format",
		},
		"fragment1_missing": {
			arguments: map[string]interface{}{
				"fragment2": "const a = 1;",
			},
			isError:      &errTrue,
			expectPrefix: "fragment1 parameter is required",
		},
		"fragment2_missing": {
			arguments: map[string]interface{}{
				"fragment1": "const a = 1;",
			},
			isError:      &errTrue,
			expectPrefix: "fragment2 parameter is required",
		},
		"identical_fragments": {
			arguments: map[string]interface{}{
				"fragment1": duplicatedSnippet,
				"fragment2": duplicatedSnippet,
			},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.InDelta(t, 1.0, result["similarity"].(float64), 1e-9)
				assert.Equal(t, true, result["is_duplicate"])
			},
		},
		"unrelated_fragments": {
			arguments: map[string]interface{}{
				"fragment1": duplicatedSnippet,
				"fragment2": "class Totally {\n  different() { return 'thing'; }\n}",
			},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Less(t, result["similarity"].(float64), 0.8)
				assert.Equal(t, false, result["is_duplicate"])
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, nil, tt.arguments, (*mcp.HandlerSet).HandleCompareFragments)

			if tt.isError != nil {
				assert.Equal(t, *tt.isError, res.IsError)
			} else {
				assert.False(t, res.IsError)
			}
			if tt.expectPrefix != "" {
				text := getTextFromContent(res.Content[0])
				assert.True(t, strings.HasPrefix(text, tt.expectPrefix),
					"expected prefix %q, got %q", tt.expectPrefix, text)
			}
			if tt.check != nil {
				text := getTextFromContent(res.Content[0])
				var result map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(text), &result))
				tt.check(t, result)
			}
		})
	}
}

func TestHandleDuplicationMetrics(t *testing.T) {
	errTrue := true
	tests := map[string]struct {
		args         args
		isError      *bool
		expectPrefix string
		check        func(t *testing.T, result map[string]interface{})
	}{
		"path_missing": {
			args:         args{arguments: map[string]interface{}{}},
			isError:      &errTrue,
			expectPrefix: "path parameter is required",
		},
		"path_not_exist": {
			args: args{
				arguments: map[string]interface{}{
					"path": "/non/existing/path",
				},
			},
			isError:      &errTrue,
			expectPrefix: "path does not exist",
		},
		"success": {
			args: args{
				setupFS:   setupDuplicateProject,
				arguments: map[string]interface{}{},
			},
			check: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, float64(2), result["files_analyzed"])
				require.Contains(t, result, "metrics")
				metrics := result["metrics"].(map[string]interface{})
				assert.Equal(t, float64(1), metrics["total_clones"])
				assert.Equal(t, float64(2), metrics["duplicate_blocks"])
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := runToolTest(t, tt.args.setupFS, tt.args.arguments, (*mcp.HandlerSet).HandleDuplicationMetrics)

			if tt.isError != nil {
				assert.Equal(t, *tt.isError, res.IsError)
			} else {
				assert.False(t, res.IsError)
			}
			if tt.expectPrefix != "" {
				text := getTextFromContent(res.Content[0])
				assert.True(t, strings.HasPrefix(text, tt.expectPrefix),
					"expected prefix %q, got %q", tt.expectPrefix, text)
			}
			if tt.check != nil {
				text := getTextFromContent(res.Content[0])
				var result map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(text), &result))
				tt.check(t, result)
			}
		})
	}
}
