package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://localhost:9000", cfg.Platform.BaseURL)
	assert.Equal(t, 500, cfg.Export.PageSize)
	assert.True(t, cfg.Export.BOMPrefix)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Security.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing platform base url",
			mutate:  func(c *Config) { c.Platform.BaseURL = "" },
			wantErr: "platform base URL is required",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -1 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "at least one allowed origin",
		},
		{
			name:    "zero export page size",
			mutate:  func(c *Config) { c.Export.PageSize = 0 },
			wantErr: "export page size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
platform:
  base_url: "https://api.rental.example.com"
export:
  page_size: 250
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.rental.example.com", cfg.Platform.BaseURL)
	assert.Equal(t, 250, cfg.Export.PageSize)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestMergeConfigs_EnvTakesPrecedence(t *testing.T) {
	fileCfg := Config{}
	fileCfg.Server.Port = 9090
	fileCfg.Platform.BaseURL = "https://file.example.com"
	fileCfg.Export.PageSize = 100

	envCfg := Config{}
	envCfg.Platform.BaseURL = "https://env.example.com"

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 9090, merged.Server.Port)                          // from file
	assert.Equal(t, "https://env.example.com", merged.Platform.BaseURL) // env wins
	assert.Equal(t, 100, merged.Export.PageSize)                       // from file
}

func TestPaths(t *testing.T) {
	paths := &Paths{
		ExecutableDir: "/opt/fleetadmin",
		DataDir:       "/opt/fleetadmin/data",
		ExportsDir:    "/opt/fleetadmin/data/exports",
		CacheDir:      "/opt/fleetadmin/data/cache",
		LogsDir:       "/opt/fleetadmin/logs",
	}

	assert.Equal(t, "/opt/fleetadmin/data/exports/users.csv", paths.GetExportPath("users.csv"))
	assert.Equal(t, "/opt/fleetadmin/logs/app.log", paths.GetLogPath("app.log"))
	assert.Equal(t, "/opt/fleetadmin/data/cache/tmp.bin", paths.GetCachePath("tmp.bin"))

	date := time.Date(2024, 11, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"/opt/fleetadmin/data/exports/vehicles_2024-11-16.csv",
		paths.GetEntityExportPath("vehicles", date, "csv"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := &Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		ExportsDir:    filepath.Join(base, "data", "exports"),
		CacheDir:      filepath.Join(base, "data", "cache"),
		LogsDir:       filepath.Join(base, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.DataDir, paths.ExportsDir, paths.CacheDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent")))
}
