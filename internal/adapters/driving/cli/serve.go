package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/streamlens/streamlens/internal/adapters/driven/config/file"
	"github.com/streamlens/streamlens/internal/adapters/driving/httpserver"
	"github.com/streamlens/streamlens/internal/logger"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the playback proxy server",
	Long: `Starts an HTTP server exposing /proxy, which fetches HLS playlists
from upstream providers, strips ad discontinuity markers, and rewrites
nested playlist URIs to keep players flowing through the proxy.

The config file is watched while serving; edits apply without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listen := serveListen
	if listen == "" {
		listen = configStore.Config().Server.Listen
	}

	go func() {
		err := file.Watch(ctx, configStore, func(cfg file.Config) {
			logger.Info("search concurrency now %d", cfg.Search.Concurrency)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	return httpserver.New(listen).Run(ctx)
}
