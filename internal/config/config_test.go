package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ratelens/internal/errors"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ";", cfg.Source.Delimiter)
	assert.True(t, cfg.Source.HasHeader)
	assert.Equal(t, 5.0, cfg.Analysis.DefaultThreshold)
	assert.Equal(t, "console", cfg.Render.Mode)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, AppName, cfg.Telemetry.ServiceName)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdirTemp(t)

	yamlPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
source:
  path: rates.csv
  delimiter: ","
render:
  mode: workbook
server:
  port: 9001
  read_timeout: 5s
logging:
  level: debug
`), 0o644))

	t.Setenv("RATELENS_SERVER_PORT", "9002")
	t.Setenv("RATELENS_ANALYSIS_DEFAULT_THRESHOLD", "2.5")

	cfg, err := Load(yamlPath)
	require.NoError(t, err)

	// file overrides defaults
	assert.Equal(t, "rates.csv", cfg.Source.Path)
	assert.Equal(t, ",", cfg.Source.Delimiter)
	assert.Equal(t, ',', cfg.Source.DelimiterRune())
	assert.Equal(t, "workbook", cfg.Render.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)

	// env overrides file
	assert.Equal(t, 9002, cfg.Server.Port)
	assert.Equal(t, 2.5, cfg.Analysis.DefaultThreshold)

	// untouched fields keep defaults
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.True(t, cfg.Source.HasHeader)
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	dir := chdirTemp(t)

	yamlPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
source:
  path: rates.csv
render:
  mode: workbook
server:
  host: 0.0.0.0
  port: 9000
logging:
  level: warn
`), 0o644))

	t.Setenv("PATH", "/usr/bin:/bin")
	t.Setenv("PORT", "3000")
	t.Setenv("HOST", "example.com")
	t.Setenv("MODE", "both")
	t.Setenv("LEVEL", "debug")

	cfg, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, "rates.csv", cfg.Source.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "workbook", cfg.Render.Mode)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_SplitWordsEnvNames(t *testing.T) {
	chdirTemp(t)

	t.Setenv("RATELENS_RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATELENS_LOGGING_MAX_SIZE_MB", "42")
	t.Setenv("RATELENS_SOURCE_HAS_HEADER", "false")
	t.Setenv("RATELENS_TELEMETRY_ENABLE_METRICS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 42, cfg.Logging.MaxSizeMB)
	assert.False(t, cfg.Source.HasHeader)
	assert.False(t, cfg.Telemetry.EnableMetrics)
}

func TestLoad_DefaultLocations(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "ratelens.yaml"),
		[]byte("render:\n  output_dir: out\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Render.OutputDir)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("RATELENS_SOURCE_PATH=from-dotenv.csv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("RATELENS_SOURCE_PATH") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.csv", cfg.Source.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{
			name: "invalid render mode",
			yaml: "render:\n  mode: png\n",
		},
		{
			name: "delimiter too long",
			yaml: "source:\n  delimiter: \";;\"\n",
		},
		{
			name: "port out of range",
			env:  map[string]string{"RATELENS_SERVER_PORT": "70000"},
		},
		{
			name: "unparseable env value",
			env:  map[string]string{"RATELENS_SERVER_PORT": "eighty"},
		},
		{
			name: "malformed yaml",
			yaml: "render: [",
		},
		{
			name: "sample ratio above one",
			yaml: "telemetry:\n  sample_ratio: 1.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			path := ""
			if tt.yaml != "" {
				path = filepath.Join(dir, "cfg.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, "0.0.0.0:9000", ServerConfig{Host: "0.0.0.0", Port: 9000}.Address())
}
