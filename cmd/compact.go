package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var compactKeep int

func init() {
	compactCmd.Flags().IntVar(&compactKeep, "keep", 0, "drop all but the most recent N journal entries first")
	RootCmd.AddCommand(compactCmd)
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Compact the journal to reclaim disk space",
	Long: `Compacts the journal database, optionally truncating it first.

Examples:
  lockfs compact
  lockfs compact --keep 1000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		defer journal.Close()

		if compactKeep > 0 {
			removed, err := journal.Truncate(compactKeep)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d journal entries\n", removed)
		}

		before, err := fileSize(journal.Path())
		if err != nil {
			return err
		}
		if err := journal.Compact(); err != nil {
			return err
		}
		after, err := fileSize(journal.Path())
		if err != nil {
			return err
		}

		fmt.Printf("Compacted: %s -> %s\n", formatSize(before), formatSize(after))
		return nil
	},
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// formatSize renders size with a binary unit, one decimal above bytes.
func formatSize(size int64) string {
	if size < 1024 {
		return fmt.Sprintf("%d bytes", size)
	}
	value := float64(size) / 1024
	unit := 0
	units := []string{"KB", "MB", "GB", "TB"}
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
