// Package app provides the application initialization and lifecycle management
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/zanata-sync/internal/config"
	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
	"github.com/tildaslashalef/zanata-sync/internal/git"
	"github.com/tildaslashalef/zanata-sync/internal/loggy"
	"github.com/tildaslashalef/zanata-sync/internal/retry"
	"github.com/tildaslashalef/zanata-sync/internal/staging"
	"github.com/tildaslashalef/zanata-sync/internal/sync"
	"github.com/tildaslashalef/zanata-sync/internal/transfer"
	"github.com/tildaslashalef/zanata-sync/internal/zanata"
)

// App represents the application instance with its dependencies
type App struct {
	Config  *config.Config
	Git     *git.Service
	Staging *staging.Manager
	Logger  *loggy.Logger
	Root    string // project root commands resolve relative paths against
}

// New initializes a new application instance with all its dependencies
func New() (*App, error) {
	cfg, err := initConfig()
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	application, err := NewWithConfig(cfg, loggy.GetGlobalLogger(), wd)
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully", "root", application.Root)
	return application, nil
}

// NewWithConfig wires services around an already loaded configuration
func NewWithConfig(cfg *config.Config, logger *loggy.Logger, dir string) (*App, error) {
	gitService := git.NewService(logger)

	root, err := gitService.ProjectRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	return &App{
		Config:  cfg,
		Git:     gitService,
		Staging: staging.NewOSManager(logger),
		Logger:  logger,
		Root:    root,
	}, nil
}

// initConfig loads and sets up the application configuration
func initConfig() (*config.Config, error) {
	cfg, err := config.LoadFromEnv("", "")
	if err != nil {
		return nil, zerrors.Wrap(zerrors.KindConfiguration, "load configuration", err)
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	if err := loggy.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ProjectOptions resolves command options against config/zanata.yml and
// the built-in defaults. A version of "current" is left for ResolveVersion.
func (app *App) ProjectOptions(flags config.ProjectOptions) (config.ProjectOptions, error) {
	file, err := config.LoadProjectOptions(app.Root)
	if err != nil {
		return config.ProjectOptions{}, err
	}

	opts, err := config.ResolveOptions(flags, file, config.DefaultProjectOptions(app.Config))
	if err != nil {
		return config.ProjectOptions{}, zerrors.Wrap(zerrors.KindConfiguration, "resolve options", err)
	}
	return opts, nil
}

// ResolveVersion turns "current" into the version from package.json
func (app *App) ResolveVersion(version string) (string, error) {
	return config.ResolveVersion(app.Root, version)
}

// Client creates a Zanata client for the resolved options. apiKey wins over
// the environment, which wins over the OS keyring.
func (app *App) Client(opts config.ProjectOptions, apiKey string) (*zanata.Client, error) {
	const op = "zanata client"

	if opts.URL == "" {
		return nil, zerrors.Configuration(op, "you need to specify the Zanata url")
	}
	if opts.Username == "" {
		return nil, zerrors.Configuration(op, "you need to specify a username")
	}

	if apiKey == "" && opts.URL == app.Config.Server.URL && opts.Username == app.Config.Server.Username {
		apiKey = app.Config.Server.APIKey
	}
	if apiKey == "" {
		key, err := config.LookupAPIKey(opts.URL, opts.Username)
		if err != nil {
			return nil, zerrors.Configuration(op, "no API key for %s on %s, run `zanata-sync auth login`", opts.Username, opts.URL)
		}
		apiKey = key
	}

	return zanata.NewClient(zanata.Config{
		URL:               opts.URL,
		Username:          opts.Username,
		APIKey:            apiKey,
		Timeout:           app.Config.Server.Timeout,
		RequestsPerMinute: app.Config.Server.RequestsPerMinute,
		BurstLimit:        app.Config.Server.BurstLimit,
	}, app.Logger, zanata.WithFilesystem(app.Staging.Filesystem()))
}

// SyncService wires the push/pull orchestrator around remote. notify is
// told about every retried push attempt and may be nil.
func (app *App) SyncService(remote transfer.Remote, notify retry.Notifier) *sync.Service {
	return sync.NewService(
		app.Staging,
		transfer.NewAdapter(remote, app.Staging, app.Logger),
		retry.NewController(app.Logger, notify),
		app.Logger,
		sync.WithPullSettleDelay(app.Config.Sync.PullSettleDelay),
	)
}

// Shutdown gracefully shuts down the application
func (app *App) Shutdown() error {
	loggy.Info("Shutting down application")
	return nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata["app"].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}

// Path resolves p against the project root unless it is absolute
func (app *App) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(app.Root, p)
}
