// Package config loads the scanner configuration from an embedded
// default, optionally overridden by a user-supplied YAML file.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfigYAML []byte

// Config is the full scanner configuration.
type Config struct {
	// DataDir is where scan results are persisted.
	DataDir string `yaml:"data_dir" validate:"required"`

	Build BuildConfig `yaml:"build"`
}

// BuildConfig toggles the analyzers that run during graph construction.
// OIDC trust mapping is not a toggle; it always runs.
type BuildConfig struct {
	AttackPaths         bool `yaml:"attack_paths"`
	Persistence         bool `yaml:"persistence"`
	PrivilegeEscalation bool `yaml:"privilege_escalation"`
}

var validate = validator.New()

// Load returns the configuration. With an empty path only the embedded
// defaults apply; otherwise the file at path is unmarshalled over the
// defaults, so omitted keys keep their default values.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
