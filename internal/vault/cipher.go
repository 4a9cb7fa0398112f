package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/starford/wunjo/internal/apperr"
)

// Cipher seals and opens snapshot blobs. The core treats encryption as an
// external collaborator consuming opaque byte strings; swapping the cipher
// never touches the snapshot format.
type Cipher interface {
	Seal(plain []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// Plain is the identity cipher used when no passphrase is configured.
type Plain struct{}

// Seal returns plain unchanged.
func (Plain) Seal(plain []byte) ([]byte, error) { return plain, nil }

// Open returns sealed unchanged.
func (Plain) Open(sealed []byte) ([]byte, error) { return sealed, nil }

// AESGCM encrypts snapshots with AES-256-GCM under a passphrase-derived key.
type AESGCM struct {
	key [32]byte
}

// NewAESGCM derives a key from the passphrase.
func NewAESGCM(passphrase string) *AESGCM {
	return &AESGCM{key: sha256.Sum256([]byte(passphrase))}
}

func (c *AESGCM) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("vault: init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plain, prefixing the random nonce.
func (c *AESGCM) Seal(plain []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("vault: nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

// Open decrypts a blob produced by Seal.
func (c *AESGCM) Open(sealed []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("vault: sealed blob too short")
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		// Wrong passphrase and tampering are indistinguishable here.
		return nil, fmt.Errorf("vault: decrypt: %w", apperr.ErrLocked)
	}
	return plain, nil
}
