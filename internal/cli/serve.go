package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stats API",
	Long: `Start a local JSON API with today's counter, the wait sequence and
statistics, for dashboards and widgets.

Endpoints:
  GET /health
  GET /api/wait[?count=N]
  GET /api/counter
  GET /api/stats?period=today|week|month|all

Examples:
  pausa serve                       # Listen on the configured address
  pausa serve --addr :8787          # Listen on all interfaces`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	cfg := server.Config{
		Addr:             app.Config.Server.Addr,
		ShutdownTimeout:  app.Config.Server.ShutdownTimeout,
		WarningThreshold: app.Config.Friction.WarningThreshold,
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	srv := server.NewServer(cfg, app.Counter, app.Stats, app.Logger)
	return srv.Start(ctx)
}
