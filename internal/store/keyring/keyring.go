// Package keyring keeps the jar encryption key in the operating system's
// native keyring, with a file-based store as a fallback.
package keyring

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeySize is the length of generated keys.
const KeySize = 32

// KeyStore loads and creates the jar key.
type KeyStore interface {
	GetKey() ([]byte, error)
	SetKey() ([]byte, error)
	DeleteKey() error
}

// Keyring stores the key hex-encoded under Service/User in the OS keyring.
type Keyring struct {
	Service string
	User    string
}

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

func NewKeyring() *Keyring {
	return &Keyring{
		Service: "cookiejar",
		User:    "jar",
	}
}

// SetKey generates a new random key and stores it, replacing any previous one.
func (k *Keyring) SetKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := randRead(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	if err := keyringSet(k.Service, k.User, hex.EncodeToString(key)); err != nil {
		return nil, err
	}
	return key, nil
}

func (k *Keyring) GetKey() ([]byte, error) {
	keyHex, err := keyringGet(k.Service, k.User)
	if err != nil {
		return nil, err
	}
	return decodeKey(keyHex)
}

func (k *Keyring) DeleteKey() error {
	return keyringDelete(k.Service, k.User)
}

func decodeKey(keyHex string) ([]byte, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key length: expected %d, got %d", KeySize, len(key))
	}
	return key, nil
}

// LoadOrCreate returns the stored key, generating one when none exists yet.
func LoadOrCreate(ks KeyStore) ([]byte, error) {
	if key, err := ks.GetKey(); err == nil {
		return key, nil
	}
	return ks.SetKey()
}
