package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// EncodedKeySize is the length of a base64url-encoded Fernet key.
const EncodedKeySize = 44

var ErrInvalidKey = errors.New("invalid key")

// Cipher encrypts stored payloads as Fernet tokens. A token carries its own
// version, timestamp, IV and HMAC, so no side data is needed to decrypt it.
type Cipher struct {
	key *fernet.Key
}

// GenerateKey returns a new random key in its encoded (on-disk) form.
func GenerateKey() ([]byte, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return []byte(k.Encode()), nil
}

// NewCipher binds a cipher to an encoded key.
func NewCipher(encodedKey []byte) (*Cipher, error) {
	k, err := fernet.DecodeKey(string(bytes.TrimSpace(encodedKey)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Cipher{key: k}, nil
}

// Encrypt returns the token for plaintext.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	tok, err := fernet.EncryptAndSign(plaintext, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}
	return tok, nil
}

// Decrypt verifies and decrypts a token. Token age is not checked.
func (c *Cipher) Decrypt(token []byte) ([]byte, error) {
	if len(token) == 0 {
		return nil, ErrInvalidCiphertext
	}
	msg := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{c.key})
	if msg == nil {
		return nil, ErrAuthFailed
	}
	return msg, nil
}

// Destroy clears the key from memory.
func (c *Cipher) Destroy() {
	ClearBytes(c.key[:])
}
