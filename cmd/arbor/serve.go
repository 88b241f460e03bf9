package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arbor-ui/arbor/internal/config"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Arbor server",
		Long: `Start the HTTP/WebSocket server.

Pages are rendered server-side, hydrated in the browser, and kept
live over a WebSocket session.

Examples:
  arbor serve
  arbor serve --port=8080
  arbor serve --host=0.0.0.0 --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from arbor.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from arbor.json)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Disable client caching for development")

	return cmd
}

func runServe(port int, host string, dev bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}

	srv := buildServer(cfg, dev)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	info("serving on http://%s", cfg.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
