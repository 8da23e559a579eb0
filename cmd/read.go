package cmd

import (
	"github.com/spf13/cobra"
)

var readOutput string

func init() {
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "", "write content to a local file instead of stdout")
	RootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:   "read <name>",
	Short: "Print a stored file",
	Long: `Reads a stored file, decrypting it if needed.

Examples:
  lockfs read notes.txt
  lockfs read -t session.json
  lockfs read images/photo.png -o photo.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		c, err := m.Read(args[0], area())
		if err != nil {
			return err
		}
		Logger.Debugf("Read %s (%s)", args[0], c.Kind())
		return writeContent(c, readOutput)
	},
}
