package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tildaslashalef/zanata-sync/internal/loggy"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration. Every field is
// read from a ZANATA_ prefixed environment variable.
type Config struct {
	Server    ServerConfig
	Sync      SyncConfig    `envPrefix:"SYNC_"`
	Logging   LoggingConfig `envPrefix:"LOG_"`
	configDir string        // Internal: Directory where config was loaded from
}

// ServerConfig holds the Zanata connection settings
type ServerConfig struct {
	URL      string `env:"URL"`
	Username string `env:"USERNAME"`
	APIKey   string `env:"API_KEY"`

	Timeout time.Duration `env:"TIMEOUT" envDefault:"60s"` // Request timeout

	// Rate limiting
	RequestsPerMinute int `env:"REQUESTS_PER_MINUTE" envDefault:"120"`
	BurstLimit        int `env:"BURST_LIMIT" envDefault:"10"`
}

// SyncConfig holds defaults for push and pull runs
type SyncConfig struct {
	StagingDir        string        `env:"STAGING_DIR" envDefault:"./tmp/.zanata"`
	TranslationFolder string        `env:"TRANSLATION_FOLDER" envDefault:"./translations"`
	TryCount          int           `env:"TRY_COUNT" envDefault:"4"`
	PullSettleDelay   time.Duration `env:"PULL_SETTLE_DELAY" envDefault:"1ms"`
	CommandTimeout    time.Duration `env:"COMMAND_TIMEOUT" envDefault:"5m"` // Hard limit for a whole command
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`   // debug, info, warn, error, none
	Format     string `env:"FORMAT" envDefault:"text"`  // text or json
	Output     string `env:"OUTPUT"`                    // stdout, stderr, or file path
	AddSource  bool   `env:"ADD_SOURCE"`                // Include source code position in logs
	TimeFormat string `env:"TIME_FORMAT" envDefault:"RFC3339"`
}

// New returns a new empty Config
func New() *Config {
	return &Config{}
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}

// LoggerConfig converts the logging section for loggy
func (c *Config) LoggerConfig() loggy.Config {
	return loggy.Config{
		Level:      ParseLogLevel(c.Logging.Level),
		Format:     strings.ToLower(c.Logging.Format),
		Output:     c.Logging.Output,
		AddSource:  c.Logging.AddSource,
		TimeFormat: getTimeFormat(c.Logging.TimeFormat),
	}
}

// Validate checks if the configuration is valid. Server credentials are not
// required here since offline commands never need them.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.validateSync(); err != nil {
		return fmt.Errorf("sync config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateServer() error {
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute cannot be negative")
	}

	if c.Server.BurstLimit < 0 {
		return fmt.Errorf("burst limit cannot be negative")
	}

	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.StagingDir == "" {
		return fmt.Errorf("staging dir cannot be empty")
	}

	if c.Sync.TranslationFolder == "" {
		return fmt.Errorf("translation folder cannot be empty")
	}

	if c.Sync.TryCount < 1 {
		return fmt.Errorf("try count must be at least 1")
	}

	if c.Sync.PullSettleDelay < 0 {
		return fmt.Errorf("pull settle delay cannot be negative")
	}

	if c.Sync.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	// Validate logging level
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	// Validate format
	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	output := c.Logging.Output
	if output == "" || output == "stdout" || output == "stderr" {
		return nil
	}

	dir := filepath.Dir(output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := checkDirectoryWritable(dir); err != nil {
		return fmt.Errorf("log directory: %w", err)
	}

	return nil
}

// getTimeFormat converts a named time format to its actual format string
func getTimeFormat(name string) string {
	switch name {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	case "RFC822":
		return time.RFC822
	case "RFC1123":
		return time.RFC1123
	case "Kitchen":
		return time.Kitchen
	case "StampMilli":
		return time.StampMilli
	case "DateTime":
		return "2006-01-02 15:04:05"
	case "DateTimeMS":
		return "2006-01-02 15:04:05.000"
	default:
		return name
	}
}

// checkDirectoryWritable tests if a directory is writable
func checkDirectoryWritable(dir string) error {
	// Create a temporary file to test write permissions
	testFile := filepath.Join(dir, fmt.Sprintf("test_write_%d", time.Now().UnixNano()))
	f, err := os.Create(testFile)
	if err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}

	// Clean up
	f.Close()
	os.Remove(testFile)

	return nil
}
