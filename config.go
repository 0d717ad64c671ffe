package ogm2sqlite

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all pipeline configuration.
type Config struct {
	Source      string `yaml:"source"`       // directory of harvested record files
	DBPath      string `yaml:"db_path"`      // output SQLite database file
	MetricsAddr string `yaml:"metrics_addr"` // optional Prometheus listen address, e.g. ":9090"
}

func (c *Config) defaults() {
	if c.Source == "" {
		c.Source = "."
	}
	if c.DBPath == "" {
		c.DBPath = "ogm.db"
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
