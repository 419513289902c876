package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/refactorlab/dupfind/app"
	"github.com/refactorlab/dupfind/domain"
	"github.com/refactorlab/dupfind/internal/config"
	"github.com/refactorlab/dupfind/service"
)

// DetectCommand handles the duplicate detection CLI command
type DetectCommand struct {
	// Input parameters
	recursive       bool
	configFile      string
	includePatterns []string
	excludePatterns []string

	// Analysis configuration
	minLines            int
	minTokens           int
	similarityThreshold float64
	ignoreWhitespace    bool
	ignoreComments      bool
	ignoreImports       bool

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	outputPath  string
	showContent bool
	sortBy      string

	// Performance options
	timeout time.Duration
}

// NewDetectCommand creates a new detect command
func NewDetectCommand() *DetectCommand {
	defaults := domain.DefaultDetectRequest()
	return &DetectCommand{
		recursive:           defaults.Recursive,
		minLines:            defaults.MinLines,
		minTokens:           defaults.MinTokens,
		similarityThreshold: defaults.SimilarityThreshold,
		ignoreWhitespace:    defaults.IgnoreWhitespace,
		ignoreComments:      defaults.IgnoreComments,
		ignoreImports:       defaults.IgnoreImports,
		showContent:         defaults.ShowContent,
		sortBy:              string(defaults.SortBy),
		timeout:             5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for duplicate detection
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [paths...]",
		Short: "Detect duplicated code across JavaScript/TypeScript files",
		Long: `Detect duplicated code in JavaScript and TypeScript files.

Code blocks are extracted with four strategies (functions, classes,
statement groups, and sliding windows), then grouped into clones: exact
clones share identical preprocessed content, fuzzy clones score above the
similarity threshold on a fused five-signal comparison.

Examples:
  # Detect duplicates in current directory
  dupfind detect .

  # Detect duplicates with custom similarity threshold
  dupfind detect --similarity-threshold 0.9 src/

  # Lower the block size floor
  dupfind detect --min-lines 4 --min-tokens 30 src/

  # Output results as JSON
  dupfind detect --json src/ > duplicates.json`,
		RunE: c.runDetection,
	}

	// Input flags
	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively analyze directories")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

	// Analysis configuration flags
	cmd.Flags().IntVar(&c.minLines, "min-lines", c.minLines,
		"Minimum number of lines for duplicate candidates")
	cmd.Flags().IntVar(&c.minTokens, "min-tokens", c.minTokens,
		"Minimum number of tokens for duplicate candidates")
	cmd.Flags().Float64VarP(&c.similarityThreshold, "similarity-threshold", "s", c.similarityThreshold,
		"Minimum similarity threshold for duplicate detection (0.0-1.0)")
	cmd.Flags().BoolVar(&c.ignoreWhitespace, "ignore-whitespace", c.ignoreWhitespace,
		"Normalize whitespace before comparison")
	cmd.Flags().BoolVar(&c.ignoreComments, "ignore-comments", c.ignoreComments,
		"Strip comments before comparison")
	cmd.Flags().BoolVar(&c.ignoreImports, "ignore-imports", c.ignoreImports,
		"Strip import/export statements before comparison")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	// Output options
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "",
		"Write results to file instead of stdout")
	cmd.Flags().BoolVar(&c.showContent, "show-content", c.showContent,
		"Include source code content in output")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: similarity, size, location")

	// Performance flags
	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout,
		"Maximum time for analysis (e.g., 5m, 30s)")

	return cmd
}

// runDetection executes the detect command
func (c *DetectCommand) runDetection(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	request, cleanup, err := c.createDetectRequest(cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create detect request: %w", err)
	}
	defer cleanup()

	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	useCase, err := c.createUseCase()
	if err != nil {
		return fmt.Errorf("failed to create use case: %w", err)
	}

	ctx := context.Background()
	if err := useCase.Execute(ctx, *request); err != nil {
		return fmt.Errorf("duplicate detection failed: %w", err)
	}

	return nil
}

// createDetectRequest creates a detect request from command line flags
func (c *DetectCommand) createDetectRequest(cmd *cobra.Command, paths []string) (*domain.DetectRequest, func(), error) {
	noop := func() {}

	request := c.loadBaseRequest(paths)
	c.applyCliOverrides(cmd.Flags(), request)

	outputFormat, _, err := service.NewOutputFormatResolver().Determine(c.json, c.csv, c.yaml)
	if err != nil {
		return nil, noop, err
	}
	request.OutputFormat = outputFormat

	sortBy, err := c.parseSortCriteria()
	if err != nil {
		return nil, noop, err
	}
	request.SortBy = sortBy

	request.Paths = paths
	request.ConfigPath = c.configFile
	request.Timeout = c.timeout

	var outputWriter io.Writer = os.Stdout
	cleanup := noop
	if c.outputPath != "" {
		file, err := os.Create(c.outputPath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to create output file: %w", err)
		}
		outputWriter = file
		cleanup = func() { _ = file.Close() }
	}
	request.OutputWriter = outputWriter

	return request, cleanup, nil
}

// loadBaseRequest loads defaults from a discovered config file, falling back
// to hardcoded defaults.
func (c *DetectCommand) loadBaseRequest(paths []string) *domain.DetectRequest {
	loader := service.NewDuplicationConfigurationLoader()

	if c.configFile != "" {
		if req, err := loader.LoadConfig(c.configFile); err == nil {
			return req
		}
		return domain.DefaultDetectRequest()
	}

	workDir := "."
	if len(paths) > 0 {
		workDir = paths[0]
	}
	if info, err := os.Stat(workDir); err != nil || !info.IsDir() {
		workDir = "."
	}

	if configFile := config.FindConfigFile(workDir); configFile != "" {
		if req, err := loader.LoadConfig(configFile); err == nil {
			return req
		}
	}

	return domain.DefaultDetectRequest()
}

// applyCliOverrides applies explicitly set CLI flags over the loaded config
func (c *DetectCommand) applyCliOverrides(flags *pflag.FlagSet, request *domain.DetectRequest) {
	if flags.Changed("recursive") {
		request.Recursive = c.recursive
	}
	if flags.Changed("include") {
		request.IncludePatterns = c.includePatterns
	}
	if flags.Changed("exclude") {
		request.ExcludePatterns = c.excludePatterns
	}
	if flags.Changed("min-lines") {
		request.MinLines = c.minLines
	}
	if flags.Changed("min-tokens") {
		request.MinTokens = c.minTokens
	}
	if flags.Changed("similarity-threshold") {
		request.SimilarityThreshold = c.similarityThreshold
	}
	if flags.Changed("ignore-whitespace") {
		request.IgnoreWhitespace = c.ignoreWhitespace
	}
	if flags.Changed("ignore-comments") {
		request.IgnoreComments = c.ignoreComments
	}
	if flags.Changed("ignore-imports") {
		request.IgnoreImports = c.ignoreImports
	}
	if flags.Changed("show-content") {
		request.ShowContent = c.showContent
	}
}

// parseSortCriteria validates the sort flag
func (c *DetectCommand) parseSortCriteria() (domain.SortCriteria, error) {
	switch c.sortBy {
	case "similarity":
		return domain.SortBySimilarity, nil
	case "size":
		return domain.SortBySize, nil
	case "location":
		return domain.SortByLocation, nil
	default:
		return "", fmt.Errorf("invalid sort criteria: %s (valid: similarity, size, location)", c.sortBy)
	}
}

// createUseCase wires up the use case with its service dependencies
func (c *DetectCommand) createUseCase() (*app.DuplicationUseCase, error) {
	return app.NewDuplicationUseCaseBuilder().
		WithService(service.NewDuplicationService(service.NewProgressManager())).
		WithFileReader(service.NewFileReader()).
		WithFormatter(service.NewDuplicationOutputFormatterWithContent(c.showContent)).
		WithConfigLoader(service.NewDuplicationConfigurationLoader()).
		WithProgress(service.NewProgressManager()).
		Build()
}

// NewDetectCmd creates and returns the detect cobra command
func NewDetectCmd() *cobra.Command {
	detectCommand := NewDetectCommand()
	return detectCommand.CreateCobraCommand()
}
