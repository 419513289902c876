package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/refactorlab/dupfind/internal/constants"
)

// DefaultConfigFileName is the configuration file dupfind looks for in the
// analyzed directory and its ancestors.
const DefaultConfigFileName = ".dupfind.toml"

// Config represents the structure of .dupfind.toml
type Config struct {
	Analysis AnalysisConfig `toml:"analysis"`
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
}

// AnalysisConfig holds the core detection parameters
type AnalysisConfig struct {
	MinLines            int     `toml:"min_lines"`
	MinTokens           int     `toml:"min_tokens"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// Pointers distinguish "false" from "unset" so file values only
	// override when present.
	IgnoreWhitespace *bool `toml:"ignore_whitespace"`
	IgnoreComments   *bool `toml:"ignore_comments"`
	IgnoreImports    *bool `toml:"ignore_imports"`
}

// InputConfig holds file selection settings
type InputConfig struct {
	Paths           []string `toml:"paths"`
	Recursive       *bool    `toml:"recursive"`
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
}

// OutputConfig holds output formatting settings
type OutputConfig struct {
	Format      string `toml:"format"`
	ShowContent *bool  `toml:"show_content"`
	SortBy      string `toml:"sort_by"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinLines:            constants.DefaultMinLines,
			MinTokens:           constants.DefaultMinTokens,
			SimilarityThreshold: constants.DefaultSimilarityThreshold,
			IgnoreWhitespace:    boolPtr(true),
			IgnoreComments:      boolPtr(true),
			IgnoreImports:       boolPtr(true),
		},
		Input: InputConfig{
			Paths:           []string{"."},
			Recursive:       boolPtr(true),
			IncludePatterns: []string{"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx"},
			ExcludePatterns: []string{"**/*.test.*", "**/*.spec.*", "**/node_modules/**"},
		},
		Output: OutputConfig{
			Format:      "text",
			ShowContent: boolPtr(false),
			SortBy:      "similarity",
		},
	}
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes configuration to a TOML file
func SaveConfig(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// FindConfigFile searches for .dupfind.toml starting at dir and walking up
// to the filesystem root. Returns the empty string when no file is found.
func FindConfigFile(dir string) string {
	current, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(current, DefaultConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

func boolPtr(v bool) *bool {
	return &v
}
