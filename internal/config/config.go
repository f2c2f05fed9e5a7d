package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/indicli.log"`
}

// PipelineConfig enumerates every option the core pipeline recognizes:
// the missing-value strategy applied at load, the feature-engine window,
// and the forecast model parameters.
type PipelineConfig struct {
	MissingValueStrategy string  `yaml:"missing_value_strategy" envconfig:"MISSING_VALUE_STRATEGY" default:"forward_fill" validate:"oneof=drop forward_fill interpolate mean_fill"`
	RollingWindow        int     `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" default:"3" validate:"min=1"`
	ForecastMethod       string  `yaml:"forecast_method" envconfig:"FORECAST_METHOD" default:"linear_regression" validate:"oneof=linear_regression exponential_smoothing"`
	ForecastHorizon      int     `yaml:"forecast_horizon" envconfig:"FORECAST_HORIZON" default:"5" validate:"min=1"`
	SmoothingAlpha       float64 `yaml:"smoothing_alpha" envconfig:"SMOOTHING_ALPHA" default:"0.5" validate:"gt=0,lte=1"`
	// WeightIndicator designates the indicator used as weight for weighted
	// world aggregates. Empty disables weighted rollups.
	WeightIndicator string `yaml:"weight_indicator" envconfig:"WEIGHT_INDICATOR"`
	// ValueRanges bounds plausible values per indicator code. Violations
	// become load-report warnings, never failures. File-only setting.
	ValueRanges map[string]ValueRange `yaml:"value_ranges" envconfig:"-"`
}

// ValueRange is an inclusive plausibility interval for one indicator.
type ValueRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFromFile(getConfigFilePath())
}

// LoadFromFile loads configuration from the given YAML file, with
// environment variables (prefix INDICLI) taking precedence.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("INDICLI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration with every field at its default value.
func Default() *Config {
	var cfg Config
	if err := envconfig.Process("INDICLI_DEFAULT_UNSET", &cfg); err != nil {
		// Defaults come from struct tags only; processing cannot fail on an
		// unset prefix with a valid struct.
		panic(err)
	}
	return &cfg
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// loadFromFile loads configuration from YAML file
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

// mergeConfigs merges file config into env config. Env values win when they
// were set explicitly; envconfig fills tag defaults for unset variables, so
// an env value still equal to its default yields to a non-zero file value.
func mergeConfigs(fileConfig, envConfig Config) Config {
	def := Default()
	merged := envConfig

	if merged.Server.Port == def.Server.Port && fileConfig.Server.Port != 0 {
		merged.Server.Port = fileConfig.Server.Port
	}
	if merged.Server.ReadTimeout == def.Server.ReadTimeout && fileConfig.Server.ReadTimeout != 0 {
		merged.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if merged.Server.WriteTimeout == def.Server.WriteTimeout && fileConfig.Server.WriteTimeout != 0 {
		merged.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if merged.Server.IdleTimeout == def.Server.IdleTimeout && fileConfig.Server.IdleTimeout != 0 {
		merged.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if merged.Server.ShutdownTimeout == def.Server.ShutdownTimeout && fileConfig.Server.ShutdownTimeout != 0 {
		merged.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if merged.Server.RateLimit == def.Server.RateLimit && fileConfig.Server.RateLimit != (RateLimitConfig{}) {
		merged.Server.RateLimit = fileConfig.Server.RateLimit
	}
	if merged.Logging.Level == def.Logging.Level && fileConfig.Logging.Level != "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if merged.Logging.Output == def.Logging.Output && fileConfig.Logging.Output != "" {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if merged.Logging.FilePath == def.Logging.FilePath && fileConfig.Logging.FilePath != "" {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if merged.Pipeline.MissingValueStrategy == def.Pipeline.MissingValueStrategy && fileConfig.Pipeline.MissingValueStrategy != "" {
		merged.Pipeline.MissingValueStrategy = fileConfig.Pipeline.MissingValueStrategy
	}
	if merged.Pipeline.RollingWindow == def.Pipeline.RollingWindow && fileConfig.Pipeline.RollingWindow != 0 {
		merged.Pipeline.RollingWindow = fileConfig.Pipeline.RollingWindow
	}
	if merged.Pipeline.ForecastMethod == def.Pipeline.ForecastMethod && fileConfig.Pipeline.ForecastMethod != "" {
		merged.Pipeline.ForecastMethod = fileConfig.Pipeline.ForecastMethod
	}
	if merged.Pipeline.ForecastHorizon == def.Pipeline.ForecastHorizon && fileConfig.Pipeline.ForecastHorizon != 0 {
		merged.Pipeline.ForecastHorizon = fileConfig.Pipeline.ForecastHorizon
	}
	if merged.Pipeline.SmoothingAlpha == def.Pipeline.SmoothingAlpha && fileConfig.Pipeline.SmoothingAlpha != 0 {
		merged.Pipeline.SmoothingAlpha = fileConfig.Pipeline.SmoothingAlpha
	}
	if merged.Pipeline.WeightIndicator == "" && fileConfig.Pipeline.WeightIndicator != "" {
		merged.Pipeline.WeightIndicator = fileConfig.Pipeline.WeightIndicator
	}
	// Value ranges have no env form.
	merged.Pipeline.ValueRanges = fileConfig.Pipeline.ValueRanges

	return merged
}

// getConfigFilePath returns the config file location, overridable via env.
func getConfigFilePath() string {
	if path := os.Getenv("INDICLI_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
