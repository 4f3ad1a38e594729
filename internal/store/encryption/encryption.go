// Package encryption seals jar exports with AES-256-GCM.
package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// Prefix marks a sealed blob: Prefix || nonce || ciphertext.
	Prefix = "gcm1"
	// KeySize is the AES-256 key length.
	KeySize = 32
	// SaltSize is the scrypt salt length.
	SaltSize = 16
)

// scrypt cost parameters, as recommended for interactive logins.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrNotSealed          = errors.New("data is not sealed")
)

var randReader io.Reader = rand.Reader

// Seal encrypts plaintext with key and returns Prefix || nonce || ciphertext.
func Seal(plaintext, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(Prefix)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, Prefix...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed, key []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(sealed) < len(Prefix)+nonceSize {
		return nil, ErrCiphertextTooShort
	}
	nonce := sealed[len(Prefix) : len(Prefix)+nonceSize]
	data := sealed[len(Prefix)+nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, data, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// IsSealed reports whether data starts with Prefix.
func IsSealed(data []byte) bool {
	return len(data) >= len(Prefix) && string(data[:len(Prefix)]) == Prefix
}

// NewSalt returns SaltSize random bytes for DeriveKey.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey stretches a passphrase into a KeySize key with scrypt.
func DeriveKey(passphrase string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
