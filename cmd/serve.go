package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/todolist/internal/activity"
	"github.com/twiced-technology-gmbh/todolist/internal/httpapi"
	"github.com/twiced-technology-gmbh/todolist/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web page and JSON API",
	Long: `Starts the HTTP server: the task page at /, form actions under /add,
/complete, /uncomplete and /delete, and the JSON API under /api.
Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :5000)")
	serveCmd.Flags().Bool("memory", false, "keep tasks in memory instead of the data file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if memory, _ := cmd.Flags().GetBool("memory"); memory {
		cfg.Storage.Driver = store.DriverMemory
	}

	logger := newLogger(cfg)
	svc, closeFn, err := openService(cfg, logger, activity.SourceWeb)
	if err != nil {
		return err
	}
	defer closeFn()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.NewServer(svc, logger).Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
	}

	// Listen before serving so a busy port fails the command.
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ln.Addr().String(), "storage", cfg.Storage.Driver, "file", cfg.DataPath())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("bye")
	return nil
}
