package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(rmCmd)
	RootCmd.AddCommand(rmdirCmd)
}

var rmCmd = &cobra.Command{
	Use:   "rm <name> [name...]",
	Short: "Delete stored files",
	Long: `Deletes single files. Folders are refused; use rmdir.

Examples:
  lockfs rm notes.txt
  lockfs rm -t session.json cache.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			if err := m.Delete(args[0], area()); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", filepath.Join(m.Root(area()), args[0]))
			return nil
		}

		failed := 0
		for _, name := range args {
			if err := m.Delete(name, area()); err != nil {
				Logger.Errorf("%s: %v", name, err)
				failed++
				continue
			}
			fmt.Printf("Deleted %s\n", filepath.Join(m.Root(area()), name))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be deleted", failed, len(args))
		}
		return nil
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <folder>",
	Short: "Delete a folder and all its contents",
	Long: `Deletes a folder and everything inside it. The storage area itself cannot
be deleted, and neither can a folder that holds the other area.

Example:
  lockfs rmdir images`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := m.DeleteFolder(args[0], area()); err != nil {
			return err
		}
		fmt.Printf("The folder '%s/' and all its contents were deleted successfully.\n", args[0])
		return nil
	},
}
