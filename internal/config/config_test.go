package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestDirs(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("TRIALPULSE_PATHS_DATA_DIR", filepath.Join(tmpDir, "data"))
	t.Setenv("TRIALPULSE_PATHS_UPLOADS_DIR", filepath.Join(tmpDir, "data", "uploads"))
	t.Setenv("TRIALPULSE_PATHS_REPORTS_DIR", filepath.Join(tmpDir, "data", "reports"))
	t.Setenv("TRIALPULSE_PATHS_LOGS_DIR", filepath.Join(tmpDir, "logs"))
	t.Setenv("TRIALPULSE_CONFIG", filepath.Join(tmpDir, "missing.yaml"))
	return tmpDir
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := setTestDirs(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(33554432), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Dashboard.DefaultMonthlyTarget)
	assert.Equal(t, 50.0, cfg.Dashboard.FallbackScreenFailRate)

	// Load creates the working directories.
	for _, dir := range []string{"data", "data/uploads", "data/reports", "logs"} {
		info, err := os.Stat(filepath.Join(tmpDir, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("TRIALPULSE_SERVER_PORT", "9999")
	t.Setenv("TRIALPULSE_LOGGING_LEVEL", "debug")
	t.Setenv("TRIALPULSE_DASHBOARD_DEFAULT_MONTHLY_TARGET", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 25, cfg.Dashboard.DefaultMonthlyTarget)
}

func TestLoadFromYAMLFile(t *testing.T) {
	tmpDir := setTestDirs(t)

	configPath := filepath.Join(tmpDir, "config.yaml")
	yaml := "server:\n  port: 3000\nlogging:\n  level: warn\n"
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	t.Setenv("TRIALPULSE_CONFIG", configPath)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvTakesPrecedenceOverFile(t *testing.T) {
	tmpDir := setTestDirs(t)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 3000\n"), 0o644))
	t.Setenv("TRIALPULSE_CONFIG", configPath)
	t.Setenv("TRIALPULSE_SERVER_PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"zero monthly target", func(c *Config) { c.Dashboard.DefaultMonthlyTarget = 0 }},
		{"rate above 100", func(c *Config) { c.Dashboard.FallbackScreenFailRate = 150 }},
		{"bad logging output", func(c *Config) { c.Logging.Output = "syslog" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server:    ServerConfig{Port: 8080},
				Logging:   LoggingConfig{Output: "stdout"},
				Dashboard: DashboardConfig{DefaultMonthlyTarget: 10, FallbackScreenFailRate: 50},
			}
			tt.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := Config{Paths: PathsConfig{UploadsDir: "data/uploads", ReportsDir: "data/reports"}}
	assert.Equal(t, filepath.Join("data", "uploads", "x.csv"), cfg.UploadPath("x.csv"))
	assert.Equal(t, filepath.Join("data", "reports", "y.csv"), cfg.ReportPath("y.csv"))
}

func TestColumnSynonymsCoverRequiredColumns(t *testing.T) {
	for _, col := range EnrollmentRequiredColumns {
		assert.NotEmpty(t, ColumnSynonyms[col], "enrollment column %q needs synonyms", col)
	}
	for _, col := range SiteRequiredColumns {
		assert.NotEmpty(t, ColumnSynonyms[col], "site column %q needs synonyms", col)
	}
}

func TestMonthLayoutsParseConsistently(t *testing.T) {
	for _, input := range []string{"Jan-2025", "January-2025", "01-2025"} {
		parsed := false
		for _, layout := range MonthLayouts {
			if d, err := time.Parse(layout, input); err == nil {
				assert.Equal(t, time.January, d.Month(), input)
				assert.Equal(t, 2025, d.Year(), input)
				parsed = true
				break
			}
		}
		assert.True(t, parsed, "no layout parsed %q", input)
	}
}
