// Package config provides configuration management.
// Configuration is read from a TOML file with environment overrides
// (prefix STEAMTB_, dots become underscores, e.g. STEAMTB_SERVER_ADDR).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"steam-toolbox/core/output"
	"steam-toolbox/internal/errors"
	"steam-toolbox/internal/logging"
)

// EnvPrefix is the prefix for environment overrides
const EnvPrefix = "STEAMTB"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// Units are the display units for CLI and report output
	Units output.DisplayUnits `json:"units" mapstructure:"units"`

	// Defaults fill inputs the caller left out
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Batch contains batch runner configuration
	Batch BatchConfig `json:"batch" mapstructure:"batch"`

	// Storage contains calculation history configuration
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig holds values front-ends substitute for missing inputs
type DefaultsConfig struct {
	// Fluid is the fluid class when none is given
	Fluid string `json:"fluid" mapstructure:"fluid"`

	// Material selects the roughness when neither roughness nor material is given
	Material string `json:"material" mapstructure:"material"`

	// PressureMode is "absolute" or "gauge" for bare pressure numbers
	PressureMode string `json:"pressure_mode" mapstructure:"pressure_mode"`

	// Correlation is the turbulent correlation (auto, haaland, petukhov)
	Correlation string `json:"correlation" mapstructure:"correlation"`

	// SpeedOfSound maps fluid class to a speed of sound in m/s used for Mach
	SpeedOfSound map[string]float64 `json:"speed_of_sound" mapstructure:"speed_of_sound"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`
}

// BatchConfig contains batch runner settings
type BatchConfig struct {
	// Workers is the number of cases solved concurrently
	Workers int `json:"workers" mapstructure:"workers"`
}

// StorageConfig contains history storage settings
type StorageConfig struct {
	// Enabled records HTTP calculations in the history database
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Backend is sqlite, postgres or memory
	Backend string `json:"backend" mapstructure:"backend"`

	// DatabasePath is the path to the sqlite database
	DatabasePath string `json:"database_path" mapstructure:"database_path"`

	// DSN is the postgres connection string
	DSN string `json:"dsn,omitempty" mapstructure:"dsn"`
}

// Location returns the backend-specific location of the history store
func (s StorageConfig) Location() string {
	if s.Backend == "postgres" {
		return s.DSN
	}
	return s.DatabasePath
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" mapstructure:"addr"`

	// Mode is the gin mode (debug, release, test)
	Mode string `json:"mode" mapstructure:"mode"`

	// ReadTimeoutSeconds bounds request reading
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds bounds response writing
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// MaxBatchCases limits the size of a batch request
	MaxBatchCases int `json:"max_batch_cases" mapstructure:"max_batch_cases"`
}

// Dir returns the per-user configuration directory
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".steam-toolbox")
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Units:   output.DefaultDisplayUnits(),
		Defaults: DefaultsConfig{
			Fluid:        "steam",
			Material:     "commercial-steel",
			PressureMode: "absolute",
			Correlation:  "auto",
			SpeedOfSound: map[string]float64{},
		},
		Output: OutputConfig{
			DefaultFormat: "table",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Storage: StorageConfig{
			Enabled:      true,
			Backend:      "sqlite",
			DatabasePath: filepath.Join(Dir(), "history.db"),
		},
		Server: ServerConfig{
			Addr:                ":8080",
			Mode:                "release",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 30,
			MaxBatchCases:       500,
		},
		Logging: logging.DefaultConfig(),
	}
}

// settings flattens c into viper keys
func (c *Config) settings() map[string]interface{} {
	return map[string]interface{}{
		"version":                      c.Version,
		"units.pressure":               c.Units.Pressure,
		"units.length":                 c.Units.Length,
		"units.diameter":               c.Units.Diameter,
		"units.velocity":               c.Units.Velocity,
		"units.density":                c.Units.Density,
		"units.viscosity":              c.Units.Viscosity,
		"units.mass_flow":              c.Units.MassFlow,
		"units.volumetric_flow":        c.Units.VolumetricFlow,
		"units.decimals":               c.Units.Decimals,
		"defaults.fluid":               c.Defaults.Fluid,
		"defaults.material":            c.Defaults.Material,
		"defaults.pressure_mode":       c.Defaults.PressureMode,
		"defaults.correlation":         c.Defaults.Correlation,
		"defaults.speed_of_sound":      c.Defaults.SpeedOfSound,
		"output.default_format":        c.Output.DefaultFormat,
		"batch.workers":                c.Batch.Workers,
		"storage.enabled":              c.Storage.Enabled,
		"storage.backend":              c.Storage.Backend,
		"storage.database_path":        c.Storage.DatabasePath,
		"storage.dsn":                  c.Storage.DSN,
		"server.addr":                  c.Server.Addr,
		"server.mode":                  c.Server.Mode,
		"server.read_timeout_seconds":  c.Server.ReadTimeoutSeconds,
		"server.write_timeout_seconds": c.Server.WriteTimeoutSeconds,
		"server.max_batch_cases":       c.Server.MaxBatchCases,
		"logging.level":                c.Logging.Level,
		"logging.format":               c.Logging.Format,
		"logging.output":               c.Logging.Output,
		"logging.development":          c.Logging.Development,
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range Default().settings() {
		v.SetDefault(k, val)
	}
	return v
}

// Load loads configuration from a TOML file. A missing file yields the
// defaults with environment overrides applied; an empty path does the same.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Config("failed to read config "+path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("failed to decode config", err)
	}
	if cfg.Defaults.SpeedOfSound == nil {
		cfg.Defaults.SpeedOfSound = map[string]float64{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside a command
func (c *Config) Validate() error {
	if err := c.Units.Validate(); err != nil {
		return errors.Config("invalid display units", err)
	}
	if _, err := output.ParseFormat(c.Output.DefaultFormat); err != nil {
		return errors.Config("invalid output.default_format", err)
	}
	switch c.Storage.Backend {
	case "", "sqlite", "postgres", "memory":
	default:
		return errors.Newf(errors.TypeConfig, "storage.backend must be sqlite, postgres or memory (got %q)", c.Storage.Backend)
	}
	if c.Storage.Enabled && c.Storage.Backend == "postgres" && c.Storage.DSN == "" {
		return errors.New(errors.TypeConfig, "storage.dsn is required for the postgres backend")
	}
	switch c.Logging.Format {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return errors.Newf(errors.TypeConfig, "logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if c.Batch.Workers < 0 {
		return errors.New(errors.TypeConfig, "batch.workers must be >= 0")
	}
	for fluid, speed := range c.Defaults.SpeedOfSound {
		if speed <= 0 {
			return errors.Newf(errors.TypeConfig, "defaults.speed_of_sound.%s must be > 0", fluid)
		}
	}
	return nil
}

// SpeedOfSound returns the configured speed of sound for a fluid class
func (c *Config) SpeedOfSound(fluid string) (float64, bool) {
	s, ok := c.Defaults.SpeedOfSound[strings.ToLower(fluid)]
	return s, ok && s > 0
}

// Save saves configuration to a TOML file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("failed to create config directory", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for k, val := range c.settings() {
		v.Set(k, val)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return errors.Config("failed to write config "+path, err)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
