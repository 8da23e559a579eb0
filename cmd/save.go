package cmd

import (
	"fmt"

	"github.com/illarion/lockfs/internal/core"
	"github.com/spf13/cobra"
)

var overwrite bool

func init() {
	addContentFlags(saveCmd)
	saveCmd.Flags().BoolVarP(&overwrite, "overwrite", "o", false, "replace an existing file")
	RootCmd.AddCommand(saveCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <name> [content]",
	Short: "Save a file to storage",
	Long: `Saves content under a name in the data area, or the temp area with --temp.
Names may contain sub-folders, which are created as needed.

Content comes from the second argument, a local file (--file) or stdin.
Names ending in .json are stored as indented JSON.

Examples:
  lockfs save notes.txt "hello"                # Save text
  lockfs save -e secrets/token.txt "s3cr3t"    # Save encrypted
  lockfs save --json settings.json '{"a": 1}'  # Save structured JSON
  lockfs save -f photo.png images/photo.png    # Save a local file
  lockfs save -o notes.txt "replaced"          # Overwrite`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
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

	opts := core.SaveOptions{Area: area(), Overwrite: overwrite, Encrypt: encrypt}
	if err := m.Save(name, c, opts); err != nil {
		return err
	}

	Logger.Infof("Saved %s as %s", name, c.Kind())
	fmt.Printf("Saved %s\n", name)
	return nil
}
