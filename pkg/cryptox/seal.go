package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Sealer provides authenticated at-rest encryption (AES-256-GCM) for
// secrets persisted to the database. The cipher key is stretched from the
// configured master key material with argon2id, so short passphrase-style
// keys are still usable.
type Sealer struct {
	aead cipher.AEAD
}

// kdfSalt is a fixed application salt for the argon2id stretch. The master
// key itself must be secret; the salt only domain-separates this usage.
var kdfSalt = []byte("credman/seal/v1")

// argon2id parameters (RFC 9106 second recommended option).
const (
	kdfTime    = 3
	kdfMemory  = 64 * 1024
	kdfThreads = 4
	kdfKeyLen  = 32
)

// NewSealer derives an AES-256 key from the given master key material.
func NewSealer(master []byte) (*Sealer, error) {
	if len(master) == 0 {
		return nil, errors.New("cryptox: empty master key material")
	}

	key := argon2.IDKey(master, kdfSalt, kdfTime, kdfMemory, kdfThreads, kdfKeyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// LoadMasterKey resolves master key material from a file path when set,
// otherwise from the given environment variable. Returns an error when
// neither source yields a key.
func LoadMasterKey(path, envVar string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, fmt.Errorf("master key file %s is empty", path)
		}
		return data, nil
	}

	if v := os.Getenv(envVar); v != "" {
		return []byte(v), nil
	}

	return nil, fmt.Errorf("no master key: set %s or provide a key file", envVar)
}

// Seal encrypts plaintext. Output format: [nonce][ciphertext+tag].
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// SealString encrypts a string secret.
func (s *Sealer) SealString(plaintext string) ([]byte, error) {
	return s.Seal([]byte(plaintext))
}

// Open decrypts data produced by Seal, verifying the authentication tag.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// OpenString decrypts a sealed string secret.
func (s *Sealer) OpenString(sealed []byte) (string, error) {
	plaintext, err := s.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
