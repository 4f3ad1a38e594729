package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/internal/config"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/store"
	"github.com/warpdl/cookiejar/internal/store/keyring"
	"github.com/warpdl/cookiejar/pkg/logger"
)

// Swapped in tests.
var (
	appFs     afero.Fs          = afero.NewOsFs()
	lookupEnv config.LookupFunc = os.LookupEnv
	logOutput io.Writer         = os.Stderr
	stdout    io.Writer         = os.Stdout

	newKeyStore = func(fs afero.Fs, dir string, l logger.Logger) keyring.KeyStore {
		return &keyring.Fallback{
			Primary:   keyring.NewKeyring(),
			Secondary: keyring.NewFileKeyStore(fs, dir),
			Log:       l,
		}
	}
)

// jarEnv is what a command needs to work on the jar file.
type jarEnv struct {
	cfg   *config.Config
	log   logger.Logger
	store *store.Store
}

// newJarEnv loads the configuration, applies the command line flags on top
// and opens the jar store with the configured secret.
func newJarEnv(ctx *cli.Context) (*jarEnv, error) {
	cfg, err := config.Load(appFs, ctx.GlobalString("config"), lookupEnv, nil)
	if err != nil {
		return nil, err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	opts, err := storeOptions(cfg, l)
	if err != nil {
		l.Close()
		return nil, err
	}
	return &jarEnv{
		cfg:   cfg,
		log:   l,
		store: store.New(appFs, cfg.JarPath, opts...),
	}, nil
}

// newLogger builds the zerolog logger on logOutput. With a log file
// configured, records are also appended to that file.
func newLogger(cfg *config.Config) (logger.Logger, error) {
	zl := logger.NewZerologLogger(logger.Options{
		Output: logOutput,
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
	})
	if cfg.Log.File == "" {
		return zl, nil
	}
	f, err := appFs.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		zl.Close()
		return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Log.File, err)
	}
	return logger.NewMultiLogger(zl, logger.NewFileLogger(f, cfg.Log.Level == "debug")), nil
}

func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet("jar") {
		cfg.JarPath = ctx.GlobalString("jar")
	}
	if ctx.GlobalIsSet("log-format") {
		cfg.Log.Format = ctx.GlobalString("log-format")
	}
	if ctx.GlobalIsSet("log-level") {
		cfg.Log.Level = ctx.GlobalString("log-level")
	}
	if ctx.GlobalIsSet("log-file") {
		cfg.Log.File = ctx.GlobalString("log-file")
	}
	if ctx.GlobalBool("keyring") {
		cfg.Keyring = true
	}
	if ctx.Bool("debug") {
		cfg.Log.Level = "debug"
	}
	if ctx.IsSet("listen") {
		cfg.Server.Listen = ctx.String("listen")
	}
	if ctx.IsSet("secret") {
		cfg.Server.Secret = ctx.String("secret")
	}
}

// storeOptions picks the jar secret: an explicit key, then a passphrase,
// then the keyring key when enabled. Without any of them the jar is stored
// in plain text.
func storeOptions(cfg *config.Config, l logger.Logger) ([]store.Option, error) {
	opts := []store.Option{store.WithLogger(l)}
	key, err := cfg.KeyBytes()
	if err != nil {
		return nil, err
	}
	switch {
	case key != nil:
		opts = append(opts, store.WithKey(key))
	case cfg.Passphrase != "":
		opts = append(opts, store.WithPassphrase(cfg.Passphrase))
	case cfg.Keyring:
		key, err = keyring.LoadOrCreate(newKeyStore(appFs, cfg.Dir, l))
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithKey(key))
	}
	return opts, nil
}

func (e *jarEnv) loadJar() (*cookies.Jar, error) {
	jar := cookies.NewJar()
	if err := e.store.Load(jar); err != nil {
		return nil, err
	}
	return jar, nil
}

func (e *jarEnv) Close() error {
	return e.log.Close()
}
