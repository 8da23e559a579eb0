package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/illarion/lockfs/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logLimit int
	logJSON  bool
	logStats bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
	logCmd.Flags().BoolVar(&logStats, "stats", false, "show entry count and last change instead of entries")
	RootCmd.AddCommand(logCmd)
}

func resetLogFlags() {
	logLimit = 0
	logJSON = false
	logStats = false
	compactKeep = 0
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the operation journal",
	Long: `Displays the journal of storage operations, oldest first. The journal is
enabled by setting LOCKFS_JOURNAL or 'journal' in the config file.

Examples:
  lockfs log             # View full journal
  lockfs log -n 10       # Last 10 entries
  lockfs log --json      # JSON output
  lockfs log --stats     # Entry count and time of the last change`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		journal, err := openJournal()
		if err != nil {
			return err
		}
		defer journal.Close()

		if logStats {
			return printJournalStats(journal)
		}

		entries, err := journal.Entries(logLimit)
		if err != nil {
			return err
		}
		Logger.Debugf("Loaded %d journal entries from %s", len(entries), journal.Path())

		if logJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No journal entries found.")
			return nil
		}
		for _, e := range entries {
			fmt.Println(e)
		}
		return nil
	},
}

func printJournalStats(journal *storage.Journal) error {
	count, err := journal.Count()
	if err != nil {
		return err
	}
	modified, err := journal.GetModified()
	if err != nil {
		return err
	}
	fmt.Printf("Journal: %s\n", journal.Path())
	fmt.Printf("Entries: %d\n", count)
	fmt.Printf("Last change: %s\n", modified.Local().Format(time.RFC3339))
	return nil
}
