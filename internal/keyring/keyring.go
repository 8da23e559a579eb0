package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "lockfs"

// ErrNotFound is returned when no passphrase is stored for a key file
var ErrNotFound = keyring.ErrNotFound

// SavePassphrase stores a key-file passphrase in the OS keyring
func SavePassphrase(keyFile string, passphrase string) error {
	return keyring.Set(serviceName, keyFile, passphrase)
}

// GetPassphrase retrieves a key-file passphrase from the OS keyring
func GetPassphrase(keyFile string) (string, error) {
	return keyring.Get(serviceName, keyFile)
}

// DeletePassphrase removes a key-file passphrase from the OS keyring.
// Deleting a passphrase that is not stored is not an error.
func DeletePassphrase(keyFile string) error {
	err := keyring.Delete(serviceName, keyFile)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// HasPassphrase checks if a passphrase is stored for the key file
func HasPassphrase(keyFile string) bool {
	_, err := keyring.Get(serviceName, keyFile)
	return err == nil
}
