package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxSizeBytes)
	assert.True(t, cfg.Upload.KeepFiles)
	assert.False(t, cfg.Aggregation.NormalizeNames, "raw-name grouping is the default")
	assert.True(t, cfg.Security.EnableCORS)
	assert.NotEmpty(t, cfg.Security.AllowedOrigins)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "read timeout",
		},
		{
			name:    "zero write timeout",
			mutate:  func(c *Config) { c.Server.WriteTimeout = 0 },
			wantErr: "write timeout",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Upload.MaxSizeBytes = 0 },
			wantErr: "upload size limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CorrectsLoggingFields(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestMergeConfigs(t *testing.T) {
	fileConfig := Config{}
	fileConfig.Server.Port = 9090
	fileConfig.Server.ReadTimeout = 5 * time.Second
	fileConfig.Upload.MaxSizeBytes = 1 << 20
	fileConfig.Logging.Level = "debug"
	fileConfig.Logging.FilePath = "logs/custom.log"

	t.Run("file fills gaps left by env", func(t *testing.T) {
		merged := mergeConfigs(fileConfig, Config{})
		assert.Equal(t, 9090, merged.Server.Port)
		assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
		assert.Equal(t, int64(1<<20), merged.Upload.MaxSizeBytes)
		assert.Equal(t, "debug", merged.Logging.Level)
		assert.Equal(t, "logs/custom.log", merged.Logging.FilePath)
	})

	t.Run("env values take precedence", func(t *testing.T) {
		envConfig := Config{}
		envConfig.Server.Port = 8081
		envConfig.Logging.Level = "warn"

		merged := mergeConfigs(fileConfig, envConfig)
		assert.Equal(t, 8081, merged.Server.Port)
		assert.Equal(t, "warn", merged.Logging.Level)
		assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout, "unset env fields still merge from file")
	})
}

func TestReportFilePaths(t *testing.T) {
	performanceCSV, trendsCSV, recordsCSV := ReportFilePaths("/custom/out")

	assert.Equal(t, "/custom/out/employee_performance.csv", performanceCSV)
	assert.Equal(t, "/custom/out/weekly_trends.csv", trendsCSV)
	assert.Equal(t, "/custom/out/records.csv", recordsCSV)
}

func TestPathsHelpers(t *testing.T) {
	paths := &Paths{
		UploadsDir: "/srv/app/data/uploads",
		ReportsDir: "/srv/app/data/reports",
		LogsDir:    "/srv/app/logs",
	}

	assert.Equal(t, "/srv/app/data/uploads/wb.xlsx", paths.GetUploadPath("wb.xlsx"))
	assert.Equal(t, "/srv/app/data/reports/out.csv", paths.GetReportPath("out.csv"))
	assert.Equal(t, "/srv/app/logs/app.log", paths.GetLogPath("app.log"))
}
