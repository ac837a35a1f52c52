package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ratelens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" split_words:"true"`
	Analysis  AnalysisConfig  `yaml:"analysis" split_words:"true"`
	Render    RenderConfig    `yaml:"render" split_words:"true"`
	Server    ServerConfig    `yaml:"server" split_words:"true"`
	RateLimit RateLimitConfig `yaml:"rate_limit" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	Telemetry TelemetryConfig `yaml:"telemetry" split_words:"true"`
}

// SourceConfig describes where the raw series comes from
type SourceConfig struct {
	Path      string `yaml:"path" split_words:"true"`
	Delimiter string `yaml:"delimiter" split_words:"true" validate:"len=1"`
	HasHeader bool   `yaml:"has_header" split_words:"true"`
	Sheet     string `yaml:"sheet" split_words:"true"` // xlsx sources only; empty means first sheet
}

// AnalysisConfig contains defaults for the series operations
type AnalysisConfig struct {
	DefaultThreshold float64 `yaml:"default_threshold" split_words:"true"`
}

// RenderConfig selects the chart renderers
type RenderConfig struct {
	Mode      string `yaml:"mode" split_words:"true" validate:"oneof=console workbook both"`
	OutputDir string `yaml:"output_dir" split_words:"true" validate:"required"`
}

// ServerConfig contains HTTP server configuration for serve mode
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true"`
	Port            int           `yaml:"port" split_words:"true" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"gt=0"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" validate:"gt=0"`
	Burst   int     `yaml:"burst" split_words:"true" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Format     string `yaml:"format" split_words:"true" validate:"oneof=json text"`
	Output     string `yaml:"output" split_words:"true" validate:"oneof=console file both"`
	FilePath   string `yaml:"file_path" split_words:"true" validate:"required_unless=Output console"`
	MaxSizeMB  int    `yaml:"max_size_mb" split_words:"true" validate:"min=1"`
	MaxBackups int    `yaml:"max_backups" split_words:"true" validate:"min=0"`
	MaxAgeDays int    `yaml:"max_age_days" split_words:"true" validate:"min=0"`
	Compress   bool   `yaml:"compress" split_words:"true"`
	AddSource  bool   `yaml:"add_source" split_words:"true"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" split_words:"true" validate:"required"`
	Environment    string  `yaml:"environment" split_words:"true"`
	EnableTracing  bool    `yaml:"enable_tracing" split_words:"true"`
	TraceExporter  string  `yaml:"trace_exporter" split_words:"true" validate:"oneof=stdout none"`
	EnableMetrics  bool    `yaml:"enable_metrics" split_words:"true"`
	MetricExporter string  `yaml:"metric_exporter" split_words:"true" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" split_words:"true" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and the environment, in increasing order of precedence.
// An empty path falls back to $RATELENS_CONFIG and then the default locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	// .env only fills variables that are not already set
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load "+DotEnvFile, err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	// No default tags: envconfig only touches fields whose variable is set
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct tags and the
// constraints tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	if math.IsNaN(c.Analysis.DefaultThreshold) || math.IsInf(c.Analysis.DefaultThreshold, 0) {
		return apperrors.NewConfigError("config validation failed",
			fmt.Errorf("analysis.default_threshold must be finite, got %v", c.Analysis.DefaultThreshold))
	}
	return nil
}

// DelimiterRune returns the source delimiter as a rune
func (c SourceConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return DefaultDelimiter
}

// Address returns the listen address for serve mode
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// findConfigFile returns the first existing default config location
func findConfigFile() string {
	for _, location := range ConfigLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Delimiter: string(DefaultDelimiter),
			HasHeader: true,
		},
		Analysis: AnalysisConfig{
			DefaultThreshold: DefaultDeviationThreshold,
		},
		Render: RenderConfig{
			Mode:      "console",
			OutputDir: DefaultChartsDir,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     50,
			Burst:   20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Output:     "file",
			FilePath:   DefaultLogFile,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			EnableMetrics:  true,
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
