package config

import (
	"os"

	"github.com/gear6io/lakecat/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the lakecat configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`    // "json" or "console"
	FilePath string `yaml:"file_path"` // Path to log file
	Console  bool   `yaml:"console"`   // Whether to log to console
}

// CatalogConfig selects a catalog backend and carries its backend-specific
// properties. Well-known property keys live in properties.go; backends ignore
// keys they do not understand.
type CatalogConfig struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type"`
	Root       string     `yaml:"root"`
	Properties Properties `yaml:"properties"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Console: true,
		},
		Catalog: CatalogConfig{
			Name: "default",
			Type: "sqlite",
			Root: "./data",
			Properties: Properties{
				"database": "./data/lakecat.db",
			},
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate validates the catalog configuration
func (c *CatalogConfig) Validate() error {
	if c.Type == "" {
		return errors.New(ErrCatalogTypeRequired, "catalog type is required", nil)
	}
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Properties == nil {
		c.Properties = Properties{}
	}
	return nil
}
