package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/illarion/lockfs/internal/core"
	"github.com/illarion/lockfs/internal/git"
	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage areas, key file and git exposure",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		summary, err := m.Summary()
		if err != nil {
			return err
		}
		sealed, err := m.KeySealed()
		if err != nil {
			return err
		}

		fmt.Printf("Data storage: %s\n", m.Root(core.Persistent))
		fmt.Printf("Temp storage: %s\n", m.Root(core.Transient))
		fmt.Printf("Key file:     %s (sealed: %t)\n", m.KeyFile(), sealed)
		fmt.Println()
		fmt.Println(summary)

		keyPath := filepath.Join(m.Root(core.Transient), m.KeyFile())
		status := git.CheckKey(keyPath, m.Root(core.Persistent), m.Root(core.Transient))
		if out := git.FormatKeyStatus(m.KeyFile(), status); out != "" {
			fmt.Print(out)
		}
		if status.KeyTracked && !sealed {
			Logger.Warnf("anyone with access to this repository can decrypt your files")
		}
		return nil
	},
}
