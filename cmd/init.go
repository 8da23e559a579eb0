package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/illarion/lockfs/internal/core"
	"github.com/illarion/lockfs/internal/crypto"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var seal bool

func init() {
	initCmd.Flags().BoolVar(&seal, "seal", false, "protect the new key file with a passphrase")
	RootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the storage areas and the encryption key",
	Long: `Creates both storage areas and a new key file in the temp area. Any
other command does the same on first use; init is only needed to seal the
key with a passphrase before anything is stored.

The key is sealed whenever LOCKFS_KEY_PASSPHRASE is set. With --seal and
no passphrase configured, it is asked for twice on the terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if existing := findKeyFile(cfg.TransientDir); existing != "" {
			fmt.Printf("Key file already exists: %s\n", existing)
			return nil
		}

		if seal && cfg.KeyPassphrase == "" {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("--seal needs a terminal or LOCKFS_KEY_PASSPHRASE")
			}
			passphrase, err := readPasswordConfirm("New passphrase: ")
			if err != nil {
				return err
			}
			cfg.KeyPassphrase = string(passphrase)
			crypto.ClearBytes(passphrase)
		}
		m, cleanup, err := openManagerWith(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		fmt.Printf("Data storage: %s\n", m.Root(core.Persistent))
		fmt.Printf("Temp storage: %s\n", m.Root(core.Transient))
		sealed, err := m.KeySealed()
		if err != nil {
			return err
		}
		fmt.Printf("Key file: %s (sealed: %t)\n", m.KeyFile(), sealed)
		return nil
	},
}

// findKeyFile returns the first key file name in dir, or "" when there is
// none or dir does not exist yet.
func findKeyFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), core.KeySuffix) {
			return e.Name()
		}
	}
	return ""
}
