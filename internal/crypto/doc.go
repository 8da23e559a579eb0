// Package crypto provides cryptographic operations for lockfs.
//
// Stored payloads are Fernet tokens (AES-128-CBC + HMAC-SHA256) so that the
// token alone is enough to decrypt, given the key:
//   - 32-byte key, kept base64url-encoded in the key file
//   - random 16-byte IV and a timestamp per token
//
// Key files may be sealed with a passphrase using AES-256-GCM with:
//   - 32-byte key derived via PBKDF2-HMAC-SHA256
//   - 32-byte random salt and iteration count stored in the header
//   - 12-byte random nonce
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Destroy() on a Cipher when done
package crypto
