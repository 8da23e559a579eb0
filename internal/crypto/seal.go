package crypto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// SealMagic marks a key file whose key is protected by a passphrase.
var SealMagic = []byte("LFSK1")

var ErrNotSealed = errors.New("key is not sealed")

const sealHeaderSize = 5 + SaltSize + 4

// IsSealed reports whether data is a sealed key.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, SealMagic)
}

// SealKey protects an encoded key with a passphrase.
//
// Layout: magic | salt | iterations (uint32, big endian) | nonce | AES-GCM ciphertext
func SealKey(encodedKey, passphrase []byte) ([]byte, error) {
	salt, err := randomBytes(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key := deriveSealKey(passphrase, salt, DefaultIters)
	defer ClearBytes(key)

	header := make([]byte, 0, sealHeaderSize+NonceSize+len(encodedKey)+TagSize)
	header = append(header, SealMagic...)
	header = append(header, salt...)
	header = binary.BigEndian.AppendUint32(header, DefaultIters)

	out, err := gcmSeal(header, key, encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to seal key: %w", err)
	}
	return out, nil
}

// UnsealKey recovers the encoded key from sealed data.
func UnsealKey(sealed, passphrase []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}
	if len(sealed) < sealHeaderSize+NonceSize+TagSize {
		return nil, ErrInvalidCiphertext
	}

	rest := sealed[len(SealMagic):]
	salt := rest[:SaltSize]
	iters := binary.BigEndian.Uint32(rest[SaltSize : SaltSize+4])
	if iters == 0 {
		return nil, ErrInvalidCiphertext
	}

	key := deriveSealKey(passphrase, salt, int(iters))
	defer ClearBytes(key)
	return gcmOpen(key, rest[SaltSize+4:])
}
