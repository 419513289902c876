package service

import (
	"fmt"
	"os"

	"github.com/refactorlab/dupfind/domain"
	"github.com/refactorlab/dupfind/internal/config"
)

// DuplicationConfigurationLoader implements the domain.DuplicationConfigurationLoader interface
type DuplicationConfigurationLoader struct{}

// NewDuplicationConfigurationLoader creates a new duplication configuration loader
func NewDuplicationConfigurationLoader() *DuplicationConfigurationLoader {
	return &DuplicationConfigurationLoader{}
}

// LoadConfig loads detection configuration from a TOML file
func (c *DuplicationConfigurationLoader) LoadConfig(configPath string) (*domain.DetectRequest, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return c.configToRequest(cfg), nil
}

// SaveConfig saves detection configuration to a TOML file
func (c *DuplicationConfigurationLoader) SaveConfig(req *domain.DetectRequest, configPath string) error {
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		loadedCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load existing config: %w", err)
		}
		cfg = loadedCfg
	} else {
		cfg = config.DefaultConfig()
	}

	c.updateConfigFromRequest(cfg, req)

	return config.SaveConfig(cfg, configPath)
}

// DefaultConfig returns the default detection configuration, preferring a
// .dupfind.toml found in the current directory or one of its ancestors.
func (c *DuplicationConfigurationLoader) DefaultConfig() *domain.DetectRequest {
	if configFile := config.FindConfigFile("."); configFile != "" {
		if req, err := c.LoadConfig(configFile); err == nil {
			return req
		}
		// Fall back to hardcoded defaults if loading failed
	}
	return c.configToRequest(config.DefaultConfig())
}

// configToRequest converts a config.Config (TOML-based) to domain.DetectRequest
func (c *DuplicationConfigurationLoader) configToRequest(cfg *config.Config) *domain.DetectRequest {
	req := domain.DefaultDetectRequest()

	if cfg.Analysis.MinLines > 0 {
		req.MinLines = cfg.Analysis.MinLines
	}
	if cfg.Analysis.MinTokens > 0 {
		req.MinTokens = cfg.Analysis.MinTokens
	}
	if cfg.Analysis.SimilarityThreshold > 0 {
		req.SimilarityThreshold = cfg.Analysis.SimilarityThreshold
	}
	if cfg.Analysis.IgnoreWhitespace != nil {
		req.IgnoreWhitespace = *cfg.Analysis.IgnoreWhitespace
	}
	if cfg.Analysis.IgnoreComments != nil {
		req.IgnoreComments = *cfg.Analysis.IgnoreComments
	}
	if cfg.Analysis.IgnoreImports != nil {
		req.IgnoreImports = *cfg.Analysis.IgnoreImports
	}

	if len(cfg.Input.Paths) > 0 {
		req.Paths = cfg.Input.Paths
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

	if cfg.Output.Format != "" {
		req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	}
	if cfg.Output.ShowContent != nil {
		req.ShowContent = *cfg.Output.ShowContent
	}
	if cfg.Output.SortBy != "" {
		req.SortBy = domain.SortCriteria(cfg.Output.SortBy)
	}

	return req
}

// updateConfigFromRequest writes request values back into the config sections
func (c *DuplicationConfigurationLoader) updateConfigFromRequest(cfg *config.Config, req *domain.DetectRequest) {
	cfg.Analysis.MinLines = req.MinLines
	cfg.Analysis.MinTokens = req.MinTokens
	cfg.Analysis.SimilarityThreshold = req.SimilarityThreshold
	cfg.Analysis.IgnoreWhitespace = &req.IgnoreWhitespace
	cfg.Analysis.IgnoreComments = &req.IgnoreComments
	cfg.Analysis.IgnoreImports = &req.IgnoreImports

	cfg.Input.Paths = req.Paths
	cfg.Input.Recursive = &req.Recursive
	cfg.Input.IncludePatterns = req.IncludePatterns
	cfg.Input.ExcludePatterns = req.ExcludePatterns

	cfg.Output.Format = string(req.OutputFormat)
	cfg.Output.ShowContent = &req.ShowContent
	cfg.Output.SortBy = string(req.SortBy)
}
