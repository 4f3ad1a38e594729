package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/pkg/logger"
)

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in that order, and validates the result. An empty path or a
// missing file skips the YAML step.
func Load(fs afero.Fs, path string, lookup LookupFunc, l logger.Logger) (*Config, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Defaults()
	if err := cfg.readYAML(fs, path, l); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) readYAML(fs afero.Fs, path string, l logger.Logger) error {
	if path == "" {
		return nil
	}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		l.Debug("no configuration file at %s, skipping", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	l.Debug("loaded configuration from %s", path)
	return nil
}

const redacted = "<redacted>"

// Marshal renders cfg as YAML with secrets redacted. The key is never
// rendered.
func (cfg *Config) Marshal() ([]byte, error) {
	out := *cfg
	if out.Passphrase != "" {
		out.Passphrase = redacted
	}
	if out.Server.Secret != "" {
		out.Server.Secret = redacted
	}
	return yaml.Marshal(&out)
}
