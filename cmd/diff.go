package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var diffFile string

func init() {
	diffCmd.Flags().StringVarP(&diffFile, "file", "f", "", "compare against a local file ('-' for stdin)")
	RootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff <name> [content]",
	Short: "Compare a stored file with new content",
	Long: `Shows a unified diff between the stored (decrypted) file and the given
content, in the form it would be saved.

Examples:
  lockfs diff notes.txt "new text"
  lockfs diff -f ./settings.json settings.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		contentFile = diffFile
		c, err := readContent(args[0], args[1:])
		if err != nil {
			return err
		}

		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		diff, err := m.Diff(args[0], area(), c)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("No changes")
			return nil
		}
		fmt.Print(diff)
		return nil
	},
}
