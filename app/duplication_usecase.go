package app

import (
	"context"
	"fmt"
	"time"

	"github.com/refactorlab/dupfind/domain"
)

// DuplicationUseCase orchestrates duplicate detection operations
type DuplicationUseCase struct {
	service      domain.DuplicationService
	fileReader   domain.FileReader
	formatter    domain.DuplicationOutputFormatter
	configLoader domain.DuplicationConfigurationLoader
	progress     domain.ProgressManager
}

// NewDuplicationUseCase creates a new duplication use case with the given dependencies
func NewDuplicationUseCase(
	service domain.DuplicationService,
	fileReader domain.FileReader,
	formatter domain.DuplicationOutputFormatter,
	configLoader domain.DuplicationConfigurationLoader,
	progress domain.ProgressManager,
) *DuplicationUseCase {
	return &DuplicationUseCase{
		service:      service,
		fileReader:   fileReader,
		formatter:    formatter,
		configLoader: configLoader,
		progress:     progress,
	}
}

// Execute runs detection for the request and writes formatted results to the
// request's output writer.
func (uc *DuplicationUseCase) Execute(ctx context.Context, req domain.DetectRequest) error {
	response, err := uc.ExecuteAndReturn(ctx, req)
	if err != nil {
		return err
	}

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}

	if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// ExecuteAndReturn runs detection for the request and returns the response
// without formatting. Used by callers that post-process results themselves.
func (uc *DuplicationUseCase) ExecuteAndReturn(ctx context.Context, req domain.DetectRequest) (*domain.DetectResponse, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Load configuration if specified
	if req.ConfigPath != "" {
		configReq, err := uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}

		// Merge configuration with request (request takes precedence)
		req = uc.mergeConfiguration(*configReq, req)
	}

	// Collect files to analyze
	files, err := uc.fileReader.CollectSourceFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to collect files: %w", err)
	}

	if len(files) == 0 {
		return domain.EmptyDetectResponse(0), nil
	}

	// Perform duplicate detection on the collected files
	response, err := uc.service.DetectInFiles(ctx, files, &req)
	if err != nil {
		return nil, fmt.Errorf("duplicate detection failed: %w", err)
	}

	response.Duration = time.Since(startTime).Milliseconds()
	return response, nil
}

// ExecuteWithFiles runs detection on specific files, skipping anything that
// is not a supported source file.
func (uc *DuplicationUseCase) ExecuteWithFiles(ctx context.Context, filePaths []string, req domain.DetectRequest) error {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	validFiles := []string{}
	for _, filePath := range filePaths {
		if uc.fileReader.IsSupportedSourceFile(filePath) {
			validFiles = append(validFiles, filePath)
		}
	}

	if len(validFiles) == 0 {
		return uc.outputEmptyResults(req)
	}

	response, err := uc.service.DetectInFiles(ctx, validFiles, &req)
	if err != nil {
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	response.Duration = time.Since(startTime).Milliseconds()

	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}

	if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// ComputeFragmentSimilarity computes fused similarity between two code fragments
func (uc *DuplicationUseCase) ComputeFragmentSimilarity(ctx context.Context, fragment1, fragment2 string) (float64, error) {
	similarity, err := uc.service.ComputeSimilarity(ctx, fragment1, fragment2)
	if err != nil {
		return 0.0, fmt.Errorf("failed to compute similarity: %w", err)
	}
	return similarity, nil
}

// SaveConfiguration saves the current detection configuration
func (uc *DuplicationUseCase) SaveConfiguration(req domain.DetectRequest, configPath string) error {
	if err := uc.configLoader.SaveConfig(&req, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// mergeConfiguration merges configuration from file with request parameters
// Request parameters take precedence over configuration file values
func (uc *DuplicationUseCase) mergeConfiguration(configReq, requestReq domain.DetectRequest) domain.DetectRequest {
	merged := configReq

	if len(requestReq.Paths) > 0 {
		merged.Paths = requestReq.Paths
	}

	// Boolean flags follow the request
	merged.Recursive = requestReq.Recursive
	merged.ShowContent = requestReq.ShowContent
	merged.IgnoreWhitespace = requestReq.IgnoreWhitespace
	merged.IgnoreComments = requestReq.IgnoreComments
	merged.IgnoreImports = requestReq.IgnoreImports

	// Numeric values override only when they differ from defaults
	defaultReq := domain.DefaultDetectRequest()

	if requestReq.MinLines != defaultReq.MinLines {
		merged.MinLines = requestReq.MinLines
	}
	if requestReq.MinTokens != defaultReq.MinTokens {
		merged.MinTokens = requestReq.MinTokens
	}
	if requestReq.SimilarityThreshold != defaultReq.SimilarityThreshold {
		merged.SimilarityThreshold = requestReq.SimilarityThreshold
	}

	// Always use request values for output settings
	merged.OutputFormat = requestReq.OutputFormat
	merged.OutputWriter = requestReq.OutputWriter
	merged.SortBy = requestReq.SortBy

	if len(requestReq.IncludePatterns) > 0 {
		merged.IncludePatterns = requestReq.IncludePatterns
	}
	if len(requestReq.ExcludePatterns) > 0 {
		merged.ExcludePatterns = requestReq.ExcludePatterns
	}

	if requestReq.Timeout > 0 {
		merged.Timeout = requestReq.Timeout
	}

	return merged
}

// outputEmptyResults outputs empty results when no files are found
func (uc *DuplicationUseCase) outputEmptyResults(req domain.DetectRequest) error {
	emptyResponse := domain.EmptyDetectResponse(0)

	if req.HasValidOutputWriter() {
		return uc.formatter.Write(emptyResponse, req.OutputFormat, req.OutputWriter)
	}

	return nil
}

// DuplicationUseCaseBuilder helps build DuplicationUseCase with dependencies
type DuplicationUseCaseBuilder struct {
	service      domain.DuplicationService
	fileReader   domain.FileReader
	formatter    domain.DuplicationOutputFormatter
	configLoader domain.DuplicationConfigurationLoader
	progress     domain.ProgressManager
}

// NewDuplicationUseCaseBuilder creates a new builder for DuplicationUseCase
func NewDuplicationUseCaseBuilder() *DuplicationUseCaseBuilder {
	return &DuplicationUseCaseBuilder{}
}

// WithService sets the duplication service
func (b *DuplicationUseCaseBuilder) WithService(service domain.DuplicationService) *DuplicationUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *DuplicationUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *DuplicationUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *DuplicationUseCaseBuilder) WithFormatter(formatter domain.DuplicationOutputFormatter) *DuplicationUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *DuplicationUseCaseBuilder) WithConfigLoader(configLoader domain.DuplicationConfigurationLoader) *DuplicationUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithProgress sets the progress manager
func (b *DuplicationUseCaseBuilder) WithProgress(progress domain.ProgressManager) *DuplicationUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the DuplicationUseCase with the configured dependencies
func (b *DuplicationUseCaseBuilder) Build() (*DuplicationUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("duplication service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.configLoader == nil {
		return nil, fmt.Errorf("configuration loader is required")
	}

	return NewDuplicationUseCase(b.service, b.fileReader, b.formatter, b.configLoader, b.progress), nil
}
