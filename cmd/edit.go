package cmd

import (
	"fmt"

	"github.com/illarion/lockfs/internal/core"
	"github.com/spf13/cobra"
)

var showDiff bool

func init() {
	addContentFlags(editCmd)
	editCmd.Flags().BoolVar(&showDiff, "diff", false, "print the changes before applying them")
	RootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit <name> [content]",
	Short: "Replace the content of an existing file",
	Long: `Replaces the content of a file that already exists. Unlike save, edit
fails when the file is missing.

Examples:
  lockfs edit notes.txt "new text"
  lockfs edit --diff -e secrets/token.txt "rotated"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		c, err := readContent(name, args[1:])
		if err != nil {
			return err
		}

		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if showDiff {
			diff, err := m.Diff(name, area(), c)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Println("No changes")
				return nil
			}
			fmt.Print(diff)
		}

		if err := m.Edit(name, c, core.EditOptions{Area: area(), Encrypt: encrypt}); err != nil {
			return err
		}
		fmt.Printf("Edited %s\n", name)
		return nil
	},
}
