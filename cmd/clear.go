package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "clear without confirmation")
	RootCmd.AddCommand(clearCmd)
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every file from a storage area",
	Long: `Removes every file and folder in the data area, or the temp area with
--temp. Key files are kept so encrypted files stay readable.

Examples:
  lockfs clear -t          # Clear temp storage, asking first
  lockfs clear --force     # Clear data storage without asking`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		root := m.Root(area())
		if !clearForce {
			fmt.Printf("Remove all files in %s? [y/N] ", root)
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Println("Aborted")
				return nil
			}
		}

		if err := m.Clear(area()); err != nil {
			return err
		}
		fmt.Printf("Cleared storage: %s\n", root)
		return nil
	},
}
