package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/lockfs/internal/crypto"
	"golang.org/x/term"
)

// readPassword reads a password from the terminal without echoing
func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return password, nil
}

// readPasswordConfirm reads a password twice and ensures they match
func readPasswordConfirm(prompt string) ([]byte, error) {
	first, err := readPassword(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(first)

	second, err := readPassword("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(second)

	if !crypto.ConstantTimeCompare(first, second) {
		return nil, fmt.Errorf("passphrases do not match")
	}

	result := make([]byte, len(first))
	copy(result, first)
	return result, nil
}

// promptPassphrase asks for the passphrase of a sealed key file. It fails
// when stdin is not a terminal.
func promptPassphrase(keyFile string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("key file %s is sealed: set LOCKFS_KEY_PASSPHRASE or store it with 'lockfs keyring save'", keyFile)
	}
	return readPassword(fmt.Sprintf("Passphrase for %s: ", keyFile))
}
