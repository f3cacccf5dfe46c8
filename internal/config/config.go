package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultHoursCSV   = "lancamentos.csv"
	defaultFuelCSV    = "diesel.csv"
	defaultHoursTable = "hours_log"
	defaultFuelTable  = "fuel_log"
	defaultUnitCost   = 6.00
	defaultLogLevel   = "info"
	defaultServerAddr = ":8080"
)

// Config holds the application configuration
type Config struct {
	Sources        SourceConfig `yaml:"sources"`
	DieselUnitCost *float64     `yaml:"diesel_unit_cost,omitempty"` // Price per liter (fallback: 6.00)
	LogLevel       string       `yaml:"log_level,omitempty"`
	Server         ServerConfig `yaml:"server,omitempty"`
}

// SourceConfig says where the two logs are read from.
// When SQLitePath is set the CSV paths are ignored.
type SourceConfig struct {
	HoursCSV   string `yaml:"hours_csv,omitempty"`
	FuelCSV    string `yaml:"fuel_csv,omitempty"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
	HoursTable string `yaml:"hours_table,omitempty"`
	FuelTable  string `yaml:"fuel_table,omitempty"`
}

// ServerConfig holds settings for the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"` // e.g., ":8080"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Default returns a config with every default spelled out
func Default() *Config {
	cost := defaultUnitCost
	return &Config{
		Sources: SourceConfig{
			HoursCSV:   defaultHoursCSV,
			FuelCSV:    defaultFuelCSV,
			HoursTable: defaultHoursTable,
			FuelTable:  defaultFuelTable,
		},
		DieselUnitCost: &cost,
		LogLevel:       defaultLogLevel,
		Server:         ServerConfig{Addr: defaultServerAddr},
	}
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Validate checks values that have a hard lower bound
func (c *Config) Validate() error {
	if c.DieselUnitCost == nil {
		return nil
	}
	if v := *c.DieselUnitCost; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("diesel_unit_cost must be a finite number >= 0, got %v", v)
	}
	return nil
}

// GetUnitCost returns the diesel price per liter with a default of 6.00.
// An explicit 0 is kept.
func (c *Config) GetUnitCost() float64 {
	if c.DieselUnitCost == nil {
		return defaultUnitCost
	}
	return *c.DieselUnitCost
}

// GetHoursCSV returns the hours log path
func (c *Config) GetHoursCSV() string {
	if c.Sources.HoursCSV == "" {
		return defaultHoursCSV
	}
	return c.Sources.HoursCSV
}

// GetFuelCSV returns the fuel log path
func (c *Config) GetFuelCSV() string {
	if c.Sources.FuelCSV == "" {
		return defaultFuelCSV
	}
	return c.Sources.FuelCSV
}

// GetHoursTable returns the SQLite table holding the hours log
func (c *Config) GetHoursTable() string {
	if c.Sources.HoursTable == "" {
		return defaultHoursTable
	}
	return c.Sources.HoursTable
}

// GetFuelTable returns the SQLite table holding the fuel log
func (c *Config) GetFuelTable() string {
	if c.Sources.FuelTable == "" {
		return defaultFuelTable
	}
	return c.Sources.FuelTable
}

// GetLogLevel returns the configured log level, or "info"
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// GetServerAddr returns the listen address for serve
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return defaultServerAddr
	}
	return c.Server.Addr
}
