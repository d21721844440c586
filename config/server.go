package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the optional YAML configuration file for the jobs-api
// binary. Flags override anything loaded from the file.
type ServerConfig struct {
	Port            string        `yaml:"port"`
	DataDir         string        `yaml:"data_dir"`
	IndexName       string        `yaml:"index_name"`
	OrganizationAPI string        `yaml:"organization_api"` // Base URL of the organization resolution service; empty disables implicit org matching
	Index           IndexSettings `yaml:"index"`
}

// DefaultServerConfig returns the configuration used when no file is given.
func DefaultServerConfig() ServerConfig {
	cfg := ServerConfig{
		Port:      "8080",
		DataDir:   "./jobs_data",
		IndexName: DefaultIndexName,
	}
	cfg.Index = DefaultIndexSettings(cfg.IndexName)
	return cfg
}

// LoadServerConfig reads a YAML server configuration file, layering it over
// the defaults.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Index.Name == "" {
		cfg.Index.Name = cfg.IndexName
	}
	cfg.Index.ApplyDefaults()
	return cfg, nil
}
