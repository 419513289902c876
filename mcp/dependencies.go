package mcp

import (
	"github.com/refactorlab/dupfind/app"
	"github.com/refactorlab/dupfind/domain"
	"github.com/refactorlab/dupfind/internal/config"
	"github.com/refactorlab/dupfind/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	fileReader domain.FileReader
	config     *config.Config
	configPath string
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config, configPath string) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		fileReader: service.NewFileReader(),
		config:     cfg,
		configPath: configPath,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// BuildDuplicationUseCase assembles a fresh DuplicationUseCase with injected dependencies.
func (d *Dependencies) BuildDuplicationUseCase() (*app.DuplicationUseCase, error) {
	return app.NewDuplicationUseCaseBuilder().
		WithService(service.NewDuplicationService(nil)).
		WithFileReader(d.fileReader).
		WithFormatter(service.NewDuplicationOutputFormatter()).
		WithConfigLoader(service.NewDuplicationConfigurationLoader()).
		Build()
}
