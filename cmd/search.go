package cmd

import (
	"fmt"

	"github.com/illarion/lockfs/internal/core"
	"github.com/spf13/cobra"
)

var recursive bool

func init() {
	searchCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "search sub-folders too")
	RootCmd.AddCommand(searchCmd)
}

func resetSearchFlags() {
	recursive = false
	listAll = false
	clearForce = false
	readOutput = ""
	diffFile = ""
}

var searchCmd = &cobra.Command{
	Use:   "search <query> [query...]",
	Short: "Find files by name",
	Long: `Finds files whose names contain each query, ignoring case.

Examples:
  lockfs search config
  lockfs search -r -t .json .bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := m.Search(area(), recursive, args...)
		if err != nil {
			return err
		}

		for _, match := range result {
			if !match.Found() {
				fmt.Printf("%s: %s\n", match.Query, core.NotFoundMarker)
				continue
			}
			fmt.Printf("%s:\n", match.Query)
			for _, p := range match.Paths {
				fmt.Printf("  %s\n", p)
			}
		}
		return nil
	},
}
