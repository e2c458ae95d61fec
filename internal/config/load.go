package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the environment variable prefix, e.g. SCANREPORT_TOP_K
const EnvPrefix = "SCANREPORT"

// Load builds the configuration from profile defaults, an optional YAML file
// and SCANREPORT_* environment variables, in that order of precedence.
// An explicit profile wins over the environment and the file. The result is
// not validated so callers can apply flag overrides first.
func Load(path, profile string) (*Config, error) {
	var data []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		data = b
	}

	name, err := resolveProfile(profile, data)
	if err != nil {
		return nil, err
	}

	cfg, err := ForProfile(name)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg.Profile = name

	return &cfg, nil
}

func resolveProfile(explicit string, data []byte) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvPrefix + "_PROFILE"); env != "" {
		return env, nil
	}
	if len(data) > 0 {
		var peek struct {
			Profile string `yaml:"profile"`
		}
		if err := yaml.Unmarshal(data, &peek); err != nil {
			return "", fmt.Errorf("failed to parse config YAML: %w", err)
		}
		if peek.Profile != "" {
			return peek.Profile, nil
		}
	}
	return ProfileCurrent, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
