package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/trialpulse.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	UploadsDir string `yaml:"uploads_dir" envconfig:"UPLOADS_DIR" default:"data/uploads"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DashboardConfig contains defaults for dashboard generation parameters.
type DashboardConfig struct {
	DefaultMonthlyTarget    int     `yaml:"default_monthly_target" envconfig:"DEFAULT_MONTHLY_TARGET" default:"10"`
	DefaultProjectionMonths int     `yaml:"default_projection_months" envconfig:"DEFAULT_PROJECTION_MONTHS" default:"6"`
	FallbackScreenFailRate  float64 `yaml:"fallback_screen_fail_rate" envconfig:"FALLBACK_SCREEN_FAIL_RATE" default:"50.0"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the YAML file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TRIALPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. An explicitly set
// environment variable wins; otherwise a value from the file overrides the
// envconfig default. Presence is checked against the environment because the
// defaults make the env-side struct non-zero everywhere.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig
	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		merged.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		merged.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		merged.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.MaxUploadBytes != 0 && !envSet("SERVER_MAX_UPLOAD_BYTES") {
		merged.Server.MaxUploadBytes = fileConfig.Server.MaxUploadBytes
	}
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Paths.DataDir != "" && !envSet("PATHS_DATA_DIR") {
		merged.Paths = fileConfig.Paths
	}
	if fileConfig.Dashboard.DefaultMonthlyTarget != 0 && !envSet("DASHBOARD_DEFAULT_MONTHLY_TARGET") {
		merged.Dashboard = fileConfig.Dashboard
	}
	return merged
}

func envSet(suffix string) bool {
	_, ok := os.LookupEnv("TRIALPULSE_" + suffix)
	return ok
}

// validate checks configuration invariants that envconfig defaults cannot
// express.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Dashboard.DefaultMonthlyTarget < 1 {
		return fmt.Errorf("default monthly target must be positive, got %d", c.Dashboard.DefaultMonthlyTarget)
	}
	if c.Dashboard.FallbackScreenFailRate < 0 || c.Dashboard.FallbackScreenFailRate > 100 {
		return fmt.Errorf("fallback screen failure rate must be 0-100, got %.1f", c.Dashboard.FallbackScreenFailRate)
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}
	return nil
}

// EnsureDirectories creates the directories the application writes to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.UploadsDir, c.Paths.ReportsDir, c.Paths.LogsDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// UploadPath returns the path for a staged upload file.
func (c *Config) UploadPath(name string) string {
	return filepath.Join(c.Paths.UploadsDir, name)
}

// ReportPath returns the path for an exported report file.
func (c *Config) ReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if p := os.Getenv("TRIALPULSE_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}
