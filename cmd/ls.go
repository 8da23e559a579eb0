package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listAll bool

func init() {
	lsCmd.Flags().BoolVarP(&listAll, "all", "a", false, "summarize both storage areas")
	RootCmd.AddCommand(lsCmd)
	RootCmd.AddCommand(existsCmd)
}

var lsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List stored files",
	Long: `Lists the top-level entries of the data area, or the temp area with
--temp. With --all, prints a summary of both areas.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if listAll {
			summary, err := m.Summary()
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		}

		names, err := m.List(area())
		if err != nil {
			return err
		}
		Logger.Infof("%d entries in %s", len(names), m.Root(area()))
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <name>",
	Short: "Check whether a file exists",
	Long:  `Prints true or false. The exit status is 1 when the file does not exist.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		exists := m.Exists(args[0], area())
		fmt.Println(exists)
		if !exists {
			cleanup()
			os.Exit(1)
		}
		return nil
	},
}
