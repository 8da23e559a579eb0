package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters of passphrase-sealed key files.
const (
	SaltSize     = 32
	SealKeySize  = 32 // AES-256
	NonceSize    = 12
	TagSize      = 16
	DefaultIters = 210000 // OWASP minimum for PBKDF2-HMAC-SHA256
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrAuthFailed        = errors.New("authentication failed")
)

// deriveSealKey stretches a passphrase into an AES-256 key.
func deriveSealKey(passphrase, salt []byte, iters int) []byte {
	return pbkdf2.Key(passphrase, salt, iters, SealKeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// gcmSeal appends nonce | ciphertext | tag to dst.
func gcmSeal(dst, key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce, err := randomBytes(NonceSize)
	if err != nil {
		return nil, err
	}
	dst = append(dst, nonce...)
	return aead.Seal(dst, nonce, plaintext, nil), nil
}

// gcmOpen reverses gcmSeal. Any tampering or a wrong key gives ErrAuthFailed.
func gcmOpen(key, data []byte) ([]byte, error) {
	if len(data) < NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, data[:NonceSize], data[NonceSize:], nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// ClearBytes zeroes b.
func ClearBytes(b []byte) {
	clear(b)
}

// ConstantTimeCompare reports whether a and b are equal without leaking
// timing information.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
