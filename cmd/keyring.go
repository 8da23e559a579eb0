package cmd

import (
	"fmt"

	"github.com/illarion/lockfs/internal/core"
	"github.com/illarion/lockfs/internal/crypto"
	"github.com/illarion/lockfs/internal/keyring"
	"github.com/spf13/cobra"
)

func init() {
	keyringCmd.AddCommand(keyringSaveCmd)
	keyringCmd.AddCommand(keyringDeleteCmd)
	keyringCmd.AddCommand(keyringStatusCmd)
	RootCmd.AddCommand(keyringCmd)
}

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the key passphrase in the OS keyring",
	Long: `Stores the passphrase of a sealed key file in the OS keyring so it is not
asked for again. Enable lookups with use_keyring (LOCKFS_USE_KEYRING=true).

A key file is sealed when it is created with LOCKFS_KEY_PASSPHRASE set.`,
}

var keyringSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store the passphrase in the keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var prompted []byte
		capture := core.WithPassphraseFunc(func(keyFile string) ([]byte, error) {
			p, err := promptPassphrase(keyFile)
			if err != nil {
				return nil, err
			}
			prompted = append([]byte(nil), p...)
			return p, nil
		})
		defer func() { crypto.ClearBytes(prompted) }()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, cleanup, err := openManager(capture)
		if err != nil {
			return err
		}
		defer cleanup()

		sealed, err := m.KeySealed()
		if err != nil {
			return err
		}
		if !sealed {
			fmt.Println("Key file is not sealed, nothing to store")
			return nil
		}

		passphrase := string(prompted)
		if passphrase == "" {
			passphrase = cfg.KeyPassphrase
		}
		if passphrase == "" {
			// Unsealed from the keyring already
			fmt.Println("Passphrase: already stored in keyring")
			return nil
		}

		if err := keyring.SavePassphrase(m.KeyFile(), passphrase); err != nil {
			return fmt.Errorf("failed to save to keyring: %w", err)
		}
		fmt.Println("Passphrase saved to keyring")
		return nil
	},
}

var keyringDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the passphrase from the keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if !keyring.HasPassphrase(m.KeyFile()) {
			fmt.Println("No passphrase stored in keyring")
			return nil
		}
		if err := keyring.DeletePassphrase(m.KeyFile()); err != nil {
			return fmt.Errorf("failed to remove from keyring: %w", err)
		}
		fmt.Println("Passphrase removed from keyring")
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the passphrase is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		sealed, err := m.KeySealed()
		if err != nil {
			return err
		}

		fmt.Printf("Key file: %s\n", m.KeyFile())
		fmt.Printf("Sealed: %t\n", sealed)
		if keyring.HasPassphrase(m.KeyFile()) {
			fmt.Println("Passphrase: stored in keyring")
		} else {
			fmt.Println("Passphrase: not stored")
		}
		return nil
	},
}
