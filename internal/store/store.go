// Package store persists a cookie jar on an afero filesystem, optionally
// encrypted with a raw key or a passphrase.
//
// Three on-disk layouts are recognised:
//
//	plaintext     the jar export text as produced by cookies.Jar.Save
//	gcm1...       the export sealed with a raw 32-byte key
//	scr1 salt gcm1...  the export sealed with a key derived from a passphrase
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/store/encryption"
	"github.com/warpdl/cookiejar/pkg/logger"
)

const passphrasePrefix = "scr1"

const fileMode = 0o600

var (
	// ErrKeyRequired is returned when loading an encrypted jar without a key
	// or passphrase.
	ErrKeyRequired = errors.New("jar file is encrypted, a key or passphrase is required")
	// ErrUnknownFormat is returned when an encrypted jar does not match the
	// configured kind of secret.
	ErrUnknownFormat = errors.New("unknown jar file format")
)

// Store reads and writes one jar file.
type Store struct {
	fs         afero.Fs
	path       string
	key        []byte
	passphrase string
	log        logger.Logger
}

type Option func(*Store)

// WithKey seals the jar with a raw 32-byte key.
func WithKey(key []byte) Option {
	return func(s *Store) { s.key = key }
}

// WithPassphrase seals the jar with a key derived from passphrase.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) { s.passphrase = passphrase }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func New(fs afero.Fs, path string, opts ...Option) *Store {
	s := &Store{fs: fs, path: path, log: logger.NewNopLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

// Encrypted reports whether Save seals the jar.
func (s *Store) Encrypted() bool {
	return len(s.key) > 0 || s.passphrase != ""
}

// Save writes the jar export to a temporary file next to the jar file and
// renames it into place.
func (s *Store) Save(jar *cookies.Jar) error {
	data, err := s.encode([]byte(jar.Save()))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error: cannot create jar directory: %w", err)
		}
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, fileMode); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot write jar file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		s.fs.Remove(tmpPath)
		return fmt.Errorf("error: cannot replace jar file: %w", err)
	}
	s.log.Debug("saved %d cookies to %s", jar.Len(), s.path)
	return nil
}

// Load replaces the jar contents with the stored cookies. A missing file
// leaves the jar empty and is not an error.
func (s *Store) Load(jar *cookies.Jar) error {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug("jar file %s does not exist yet", s.path)
		jar.Clear()
		return nil
	}
	if err != nil {
		return fmt.Errorf("error: cannot read jar file: %w", err)
	}

	text, err := s.decode(data)
	if err != nil {
		return err
	}
	if err := jar.Load(string(text)); err != nil {
		return fmt.Errorf("error: cannot load jar file %s: %w", s.path, err)
	}
	s.log.Debug("loaded %d cookies from %s", jar.Len(), s.path)
	return nil
}

func (s *Store) encode(text []byte) ([]byte, error) {
	switch {
	case s.passphrase != "":
		salt, err := encryption.NewSalt()
		if err != nil {
			return nil, err
		}
		key, err := encryption.DeriveKey(s.passphrase, salt)
		if err != nil {
			return nil, err
		}
		sealed, err := encryption.Seal(text, key)
		if err != nil {
			return nil, fmt.Errorf("error: cannot encrypt jar: %w", err)
		}
		out := make([]byte, 0, len(passphrasePrefix)+len(salt)+len(sealed))
		out = append(out, passphrasePrefix...)
		out = append(out, salt...)
		return append(out, sealed...), nil
	case len(s.key) > 0:
		sealed, err := encryption.Seal(text, s.key)
		if err != nil {
			return nil, fmt.Errorf("error: cannot encrypt jar: %w", err)
		}
		return sealed, nil
	default:
		return text, nil
	}
}

func (s *Store) decode(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte(passphrasePrefix)):
		if s.passphrase == "" {
			if len(s.key) > 0 {
				return nil, fmt.Errorf("%w: jar is passphrase protected", ErrUnknownFormat)
			}
			return nil, ErrKeyRequired
		}
		rest := data[len(passphrasePrefix):]
		if len(rest) < encryption.SaltSize {
			return nil, encryption.ErrCiphertextTooShort
		}
		key, err := encryption.DeriveKey(s.passphrase, rest[:encryption.SaltSize])
		if err != nil {
			return nil, err
		}
		return s.open(rest[encryption.SaltSize:], key)
	case encryption.IsSealed(data):
		if len(s.key) == 0 {
			if s.passphrase != "" {
				return nil, fmt.Errorf("%w: jar is sealed with a raw key", ErrUnknownFormat)
			}
			return nil, ErrKeyRequired
		}
		return s.open(data, s.key)
	default:
		return data, nil
	}
}

func (s *Store) open(sealed, key []byte) ([]byte, error) {
	text, err := encryption.Open(sealed, key)
	if err != nil {
		return nil, fmt.Errorf("error: cannot decrypt jar file %s: %w", s.path, err)
	}
	return text, nil
}
