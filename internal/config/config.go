// Package config assembles the cookiejar configuration from defaults, an
// optional YAML file and the environment. Command line flags are applied on
// top by the cmd package.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/warpdl/cookiejar/common"
	"github.com/warpdl/cookiejar/pkg/logger"
)

const (
	DefaultListen  = "127.0.0.1:8089"
	DefaultTimeout = 30 * time.Second
	appDirName     = "cookiejar"
	jarFileName    = "jar.txt"
)

var (
	errEmptyJarPath     = errors.New("jar path cannot be empty")
	errInvalidLogFormat = errors.New("invalid log format, expected console or json")
	errInvalidLogLevel  = errors.New("invalid log level, expected debug, info, warn or error")
	errInvalidKey       = errors.New("jar key must be 64 hex characters")
	errKeyAndPassphrase = errors.New("jar key and passphrase cannot both be set")
)

// Config is the complete runtime configuration.
type Config struct {
	// Dir holds the key file fallback and the default jar file.
	Dir        string `yaml:"dir"`
	JarPath    string `yaml:"jar"`
	Keyring    bool   `yaml:"keyring"`
	Passphrase string `yaml:"passphrase"`
	// Key is only read from the environment.
	Key string `yaml:"-"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives a plain-text copy of the log.
	File string `yaml:"file"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
	Secret string `yaml:"secret"`
}

type FetchConfig struct {
	UserAgent string `yaml:"userAgent"`
	Timeout   string `yaml:"timeout"`
}

// DefaultDir returns the per-user configuration directory for cookiejar.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, appDirName)
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	dir := DefaultDir()
	return &Config{
		Dir:     dir,
		JarPath: filepath.Join(dir, jarFileName),
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Listen: DefaultListen,
		},
		Fetch: FetchConfig{
			Timeout: DefaultTimeout.String(),
		},
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// applyEnv overrides cfg with the COOKIEJAR_* variables that are set.
func (cfg *Config) applyEnv(lookup LookupFunc) error {
	strs := map[string]*string{
		common.JarPathEnv:    &cfg.JarPath,
		common.KeyEnv:        &cfg.Key,
		common.PassphraseEnv: &cfg.Passphrase,
		common.LogLevelEnv:   &cfg.Log.Level,
		common.LogFormatEnv:  &cfg.Log.Format,
		common.LogFileEnv:    &cfg.Log.File,
		common.ListenEnv:     &cfg.Server.Listen,
		common.SecretEnv:     &cfg.Server.Secret,
		common.UserAgentEnv:  &cfg.Fetch.UserAgent,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(common.KeyringEnv); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", common.KeyringEnv, err)
		}
		cfg.Keyring = b
	}
	if v, ok := lookup(common.DebugEnv); ok && v != "" && v != "0" {
		cfg.Log.Level = "debug"
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
func (cfg *Config) Validate() error {
	if cfg.JarPath == "" {
		return errEmptyJarPath
	}
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	switch cfg.Log.Format {
	case logger.FormatAuto, logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}
	if cfg.Key != "" {
		if _, err := cfg.KeyBytes(); err != nil {
			return err
		}
		if cfg.Passphrase != "" {
			return errKeyAndPassphrase
		}
	}
	if _, err := cfg.FetchTimeout(); err != nil {
		return err
	}
	return nil
}

// KeyBytes decodes Key. It returns nil when no key is configured.
func (cfg *Config) KeyBytes() ([]byte, error) {
	if cfg.Key == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(cfg.Key)
	if err != nil || len(key) != 32 {
		return nil, errInvalidKey
	}
	return key, nil
}

// FetchTimeout parses Fetch.Timeout. Zero means no timeout.
func (cfg *Config) FetchTimeout() (time.Duration, error) {
	if cfg.Fetch.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(cfg.Fetch.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch timeout %q: %w", cfg.Fetch.Timeout, err)
	}
	return d, nil
}
