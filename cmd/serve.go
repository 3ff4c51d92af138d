package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"modelexplorer/server"

	"github.com/spf13/cobra"
)

var (
	servePort            string
	serveRefreshInterval string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Load the cached catalogue, refresh it in the background and serve the filter/sort API over HTTP.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default $PORT or 8080)")
	serveCmd.Flags().StringVar(&serveRefreshInterval, "refresh-interval", "", "Background refresh interval, 0 to refresh only at startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveRefreshInterval != "" {
		d, err := parseInterval(serveRefreshInterval)
		if err != nil {
			return err
		}
		cfg.RefreshInterval = d
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	a.explorer.Start(ctx)

	router := server.NewRouter(a.explorer, server.Options{RefreshToken: cfg.RefreshToken})
	if err := server.Run(ctx, cfg.Port, router); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
