package keyring

import (
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	keyFileName = "cookiejar.key"
	keyFileMode = 0o600
)

// FileKeyStore keeps the key hex-encoded in a 0600 file under dir.
type FileKeyStore struct {
	fs  afero.Fs
	dir string
}

func NewFileKeyStore(fs afero.Fs, dir string) *FileKeyStore {
	return &FileKeyStore{fs: fs, dir: dir}
}

func (f *FileKeyStore) keyPath() string {
	return filepath.Join(f.dir, keyFileName)
}

// SetKey generates a new key and writes it through a temporary file and a
// rename, so an interrupted write never leaves a truncated key behind.
func (f *FileKeyStore) SetKey() ([]byte, error) {
	if err := f.fs.MkdirAll(f.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create key dir: %w", err)
	}
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmpPath := f.keyPath() + ".tmp"
	if err := afero.WriteFile(f.fs, tmpPath, []byte(hex.EncodeToString(key)), keyFileMode); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("write key: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.keyPath()); err != nil {
		f.fs.Remove(tmpPath)
		return nil, fmt.Errorf("rename key file: %w", err)
	}
	return key, nil
}

func (f *FileKeyStore) GetKey() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.keyPath())
	if err != nil {
		return nil, err
	}
	return decodeKey(string(data))
}

func (f *FileKeyStore) DeleteKey() error {
	return f.fs.Remove(f.keyPath())
}
