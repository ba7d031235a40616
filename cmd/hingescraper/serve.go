package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hingescraper/internal/server"
	"hingescraper/pkg/logger"
)

var (
	serveAddr      string
	serveSavedFile string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the web frontend",
	Long: `Run a local HTTP server exposing the client's operations as JSON
endpoints for a browser frontend: recommendations with merged profile
data, profile lookups, likes, skips, account/traits/settings passthroughs
and a local saved-profiles store.

All responses use a {success, ...} envelope and CORS is wide open, so a
frontend dev server on another port can talk to it directly.`,
	Example: `  # Serve on the configured address (default :8080)
  hingescraper serve

  # Custom address
  hingescraper serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveSavedFile, "saved-file", "", "saved profiles file (default saved_profiles.json)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	client, err := newAPIClient(cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg, client, serveSavedFile, logger.GetLogger())

	// Serve until interrupted, then drain in-flight requests.
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		logger.GetLogger().Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
