package domain

import (
	"context"
	"fmt"
	"io"
	"time"
)

// CloneType classifies how a group of duplicate blocks matched.
type CloneType string

const (
	// CloneTypeExact - identical preprocessed content (same hash)
	CloneTypeExact CloneType = "exact"
	// CloneTypeSimilar - fused similarity above 0.95
	CloneTypeSimilar CloneType = "similar"
	// CloneTypeStructural - fused similarity between the configured threshold and 0.95
	CloneTypeStructural CloneType = "structural"
)

// DuplicateInstance is one member of a clone group: a span of lines in a file
// plus a short context string for reporting.
type DuplicateInstance struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	Context   string `json:"context" yaml:"context"`
}

// String returns string representation of DuplicateInstance
func (di *DuplicateInstance) String() string {
	return fmt.Sprintf("%s:%d-%d", di.File, di.StartLine, di.EndLine)
}

// LineCount returns the number of lines covered by this instance
func (di *DuplicateInstance) LineCount() int {
	return di.EndLine - di.StartLine + 1
}

// DuplicateClone is a group of two or more code blocks judged duplicates of
// one another.
type DuplicateClone struct {
	ID          int                    `json:"id" yaml:"id"`
	Type        CloneType              `json:"type" yaml:"type"`
	Similarity  float64                `json:"similarity" yaml:"similarity"`
	Instances   []DuplicateInstance    `json:"instances" yaml:"instances"`
	LinesOfCode int                    `json:"lines_of_code" yaml:"lines_of_code"`
	TokenCount  int                    `json:"token_count" yaml:"token_count"`
	Suggestion  *RefactoringSuggestion `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// String returns string representation of DuplicateClone
func (dc *DuplicateClone) String() string {
	return fmt.Sprintf("Clone{ID: %d, Type: %s, Instances: %d, Similarity: %.3f}",
		dc.ID, dc.Type, len(dc.Instances), dc.Similarity)
}

// RefactoringType identifies the suggested extraction strategy for a clone.
type RefactoringType string

const (
	RefactorExtractFunction RefactoringType = "extract-function"
	RefactorExtractClass    RefactoringType = "extract-class"
	RefactorExtractUtility  RefactoringType = "extract-utility"
	RefactorCreateComponent RefactoringType = "create-component"
)

// RefactoringSuggestion describes how a clone group could be consolidated.
// It is advisory text derived from the group's first member; nothing is
// applied automatically.
type RefactoringSuggestion struct {
	Type          RefactoringType `json:"type" yaml:"type"`
	Name          string          `json:"name" yaml:"name"`
	Description   string          `json:"description" yaml:"description"`
	ExtractedCode string          `json:"extracted_code,omitempty" yaml:"extracted_code,omitempty"`
	Parameters    []string        `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Benefit       string          `json:"benefit" yaml:"benefit"`
}

// DuplicationMetrics aggregates statistics over all clones found in a run.
// Purely derived from the clone list; recomputed fresh each run.
type DuplicationMetrics struct {
	TotalClones        int     `json:"total_clones" yaml:"total_clones"`
	DuplicateBlocks    int     `json:"duplicate_blocks" yaml:"duplicate_blocks"`
	DuplicateLines     int     `json:"duplicate_lines" yaml:"duplicate_lines"`
	DuplicationPercent float64 `json:"duplication_percent" yaml:"duplication_percent"`
	AverageBlockSize   float64 `json:"average_block_size" yaml:"average_block_size"`
	RiskScore          int     `json:"risk_score" yaml:"risk_score"`
}

// SourceFile pairs a path with its text content. The duplicate detection core
// consumes resolved (path, text) pairs and never touches the filesystem.
type SourceFile struct {
	Path    string
	Content string
}

// DetectRequest carries all parameters for one duplicate detection run.
type DetectRequest struct {
	// Input parameters
	Paths           []string `json:"paths"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns"`
	ExcludePatterns []string `json:"exclude_patterns"`

	// Analysis configuration
	MinLines            int     `json:"min_lines"`
	MinTokens           int     `json:"min_tokens"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	IgnoreWhitespace    bool    `json:"ignore_whitespace"`
	IgnoreComments      bool    `json:"ignore_comments"`
	IgnoreImports       bool    `json:"ignore_imports"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowContent  bool         `json:"show_content"`
	SortBy       SortCriteria `json:"sort_by"`

	// Configuration file
	ConfigPath string `json:"config_path"`

	// Performance
	Timeout time.Duration `json:"timeout"`
}

// DetectResponse is the Result-style outcome of a detection run. Per-file
// failures never abort the run; a fatal input problem is reported via
// Success=false and Error rather than a panic.
type DetectResponse struct {
	Clones  []*DuplicateClone   `json:"clones" yaml:"clones"`
	Metrics *DuplicationMetrics `json:"metrics" yaml:"metrics"`

	FilesAnalyzed int    `json:"files_analyzed" yaml:"files_analyzed"`
	LinesAnalyzed int    `json:"lines_analyzed" yaml:"lines_analyzed"`
	Duration      int64  `json:"duration_ms" yaml:"duration_ms"`
	Success       bool   `json:"success" yaml:"success"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// DuplicationService defines the interface for duplicate detection services
type DuplicationService interface {
	// Detect performs duplicate detection on the given request
	Detect(ctx context.Context, req *DetectRequest) (*DetectResponse, error)

	// DetectInFiles performs duplicate detection on specific files
	DetectInFiles(ctx context.Context, filePaths []string, req *DetectRequest) (*DetectResponse, error)

	// ComputeSimilarity computes fused similarity between two code fragments
	ComputeSimilarity(ctx context.Context, fragment1, fragment2 string) (float64, error)
}

// FileReader defines the interface for resolving and reading source files
type FileReader interface {
	// CollectSourceFiles finds all supported source files in the given paths
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsSupportedSourceFile checks if a file has a supported extension
	IsSupportedSourceFile(path string) bool

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// DuplicationOutputFormatter defines the interface for formatting detection results
type DuplicationOutputFormatter interface {
	// Write formats a detection response and writes it to the writer
	Write(response *DetectResponse, format OutputFormat, writer io.Writer) error
}

// DuplicationConfigurationLoader defines the interface for loading detection configuration
type DuplicationConfigurationLoader interface {
	// LoadConfig loads detection configuration from file
	LoadConfig(configPath string) (*DetectRequest, error)

	// SaveConfig saves detection configuration to file
	SaveConfig(req *DetectRequest, configPath string) error

	// DefaultConfig returns the default detection configuration
	DefaultConfig() *DetectRequest
}

// Validate validates a detect request
func (req *DetectRequest) Validate() error {
	if len(req.Paths) == 0 {
		return NewValidationError("paths cannot be empty")
	}

	if req.MinLines < 3 {
		return NewValidationError("min_lines must be >= 3")
	}

	if req.MinTokens < 10 {
		return NewValidationError("min_tokens must be >= 10")
	}

	if req.SimilarityThreshold <= 0.0 || req.SimilarityThreshold > 1.0 {
		return NewValidationError("similarity_threshold must be in (0.0, 1.0]")
	}

	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *DetectRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// DefaultDetectRequest returns a default detect request
func DefaultDetectRequest() *DetectRequest {
	return &DetectRequest{
		Paths:               []string{"."},
		Recursive:           true,
		IncludePatterns:     []string{"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx"},
		ExcludePatterns:     []string{"**/*.test.*", "**/*.spec.*", "**/node_modules/**"},
		MinLines:            5,
		MinTokens:           50,
		SimilarityThreshold: 0.8,
		IgnoreWhitespace:    true,
		IgnoreComments:      true,
		IgnoreImports:       true,
		OutputFormat:        OutputFormatText,
		ShowContent:         false,
		SortBy:              SortBySimilarity,
	}
}

// EmptyDetectResponse returns a successful response with no clones and
// zero-valued metrics.
func EmptyDetectResponse(filesAnalyzed int) *DetectResponse {
	return &DetectResponse{
		Clones:        []*DuplicateClone{},
		Metrics:       &DuplicationMetrics{},
		FilesAnalyzed: filesAnalyzed,
		Success:       true,
	}
}
