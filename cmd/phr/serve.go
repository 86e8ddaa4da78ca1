// ABOUTME: CLI command for the local HTTP JSON API.
// ABOUTME: Serves until interrupted, then shuts down gracefully.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/phr/internal/api"
	"github.com/harperreed/phr/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a local HTTP JSON API over every user's records.

ENDPOINTS:

  GET  /api/health
  GET  /api/users/:user/records?from=&to=&limit=
  POST /api/users/:user/records
  GET  /api/users/:user/recommendations
  GET  /api/users/:user/analytics?from=&to=
  GET  /api/users/:user/thresholds
  GET  /api/users/:user/report?format=pdf|xlsx|md&from=&to=
  GET  /metrics                                  Prometheus metrics

The address defaults to 127.0.0.1:8765 (server.address in config).`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		m := metrics.New()
		if err := openService("api", m); err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.GetServerAddress()
		}
		server := api.New(svc, m, logger)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Listen(addr)
		}()
		cmd.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigChan:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			return server.Shutdown()
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
