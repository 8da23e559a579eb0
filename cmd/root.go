package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/lockfs/internal/config"
	"github.com/illarion/lockfs/internal/core"
	"github.com/illarion/lockfs/internal/logging"
	"github.com/illarion/lockfs/internal/storage"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	debug      bool
	temp       bool
	configPath string
	Logger     logging.Logger

	RootCmd = &cobra.Command{
		Use:   "lockfs",
		Short: "lockfs - local encrypted file storage",
		Long: `lockfs stores text, JSON and binary files in two local storage areas,
a persistent data area and a transient temp area, optionally encrypting
them with a key kept in the temp area.

Configuration is read from flags, LOCKFS_* environment variables, an
optional YAML file (--config) and defaults, in that order of priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logging.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().BoolVarP(&temp, "temp", "t", false, "use the temp storage area")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
}

// Execute runs the root command. Errors are printed as-is and exit with
// status 1.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ResetGlobalState resets flag variables for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	temp = false
	configPath = ""
	seal = false
	resetContentFlags()
	resetSearchFlags()
	resetLogFlags()
}

func area() core.Area {
	if temp {
		return core.Transient
	}
	return core.Persistent
}

func loadConfig() (config.Config, error) {
	flags := map[string]any{}
	if verbose {
		flags["log.verbose"] = true
	}
	if debug {
		flags["log.debug"] = true
	}

	cfg, err := config.Load(config.WithConfigFile(configPath), config.WithFlags(flags))
	if err != nil {
		return cfg, err
	}
	Logger.Verbose = cfg.Log.Verbose
	Logger.Debug = cfg.Log.Debug
	return cfg, nil
}

// openManager builds a Manager from configuration, with the journal when
// one is configured. Extra options override the defaults. The returned func
// releases both.
func openManager(extra ...core.Option) (*core.Manager, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return openManagerWith(cfg, extra...)
}

func openManagerWith(cfg config.Config, extra ...core.Option) (*core.Manager, func(), error) {
	var err error
	opts := []core.Option{
		core.WithLogger(Logger),
		core.WithPassphraseFunc(promptPassphrase),
	}
	opts = append(opts, extra...)

	var journal *storage.Journal
	if cfg.Journal != "" {
		journal, err = storage.OpenJournal(cfg.Journal)
		if err != nil {
			Logger.Warnf("journal disabled: %v", err)
		} else {
			opts = append([]core.Option{core.WithJournal(journal)}, opts...)
		}
	}

	m, err := core.New(cfg, opts...)
	if err != nil {
		if journal != nil {
			journal.Close()
		}
		return nil, nil, err
	}

	return m, func() {
		m.Close()
		if journal != nil {
			journal.Close()
		}
	}, nil
}

// openJournal opens the configured journal for the log and compact commands.
func openJournal() (*storage.Journal, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Journal == "" {
		return nil, fmt.Errorf("no journal configured, set LOCKFS_JOURNAL or 'journal' in the config file")
	}
	return storage.OpenJournal(cfg.Journal)
}
