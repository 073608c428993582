// Package cli implements the streamlens command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/internal/adapters/driven/config/file"
	"github.com/streamlens/streamlens/internal/adapters/driven/sourceclient"
	"github.com/streamlens/streamlens/internal/adapters/driven/storage/sqlite"
	"github.com/streamlens/streamlens/internal/core/ports/driven"
	"github.com/streamlens/streamlens/internal/eventbus"
	"github.com/streamlens/streamlens/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services shared by the commands. They are created lazily on first use
// so that tests can substitute in-memory implementations.
var (
	configStore  *file.ConfigStore
	store        *sqlite.Store
	sourceStore  driven.SourceStore
	historyStore driven.HistoryStore
	searchClient driven.SourceClient
	bus          *eventbus.Bus
)

var rootCmd = &cobra.Command{
	Use:   "streamlens",
	Short: "Aggregate media search across streaming source APIs",
	Long: `streamlens queries many streaming source APIs concurrently, dedups
the combined results, and ranks them against a reference title.
Serve mode hosts a playback proxy that strips ad discontinuity
markers from HLS playlists.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch cmd.Name() {
		case "version", "help":
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.streamlens)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.streamlens/data)")
}

func initServices() error {
	if bus == nil {
		bus = eventbus.New()
	}
	if configStore == nil {
		cs, err := file.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		configStore = cs
	}
	if sourceStore == nil || historyStore == nil {
		st, err := sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		store = st
		sourceStore = st.SourceStore()
		historyStore = st.HistoryStore()
	}
	if searchClient == nil {
		searchClient = sourceclient.New()
	}
	return nil
}

func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("closing store: %v", err)
		}
		store = nil
		sourceStore = nil
		historyStore = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
