package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mediashelf/mediashelf/internal/handlers"
	"github.com/mediashelf/mediashelf/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port       string
		uploadsDir string
		empty      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the in-memory development backend",
		Long: `Starts an in-memory implementation of the Mediashelf REST API.

The backend is seeded with the built-in categories and the default field
value lists. Everything is lost when the process exits; uploaded covers are
written to the uploads directory and served under /uploads/.`,
		Example: `  # Start backend on default port 8765
  mediashelf serve

  # Start backend on custom port with no seeded data
  mediashelf serve --port 3000 --empty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []storage.Option
			if empty {
				opts = append(opts, storage.WithoutSeeds())
			}
			handler := handlers.New(storage.New(opts...), uploadsDir)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Mediashelf backend available", "addr", addr, "url", "http://localhost"+addr+"/api", "uploads", uploadsDir)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8765", "Port to listen on")
	cmd.Flags().StringVar(&uploadsDir, "uploads", "uploads", "Directory for uploaded cover images")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without the built-in categories and field lists")

	return cmd
}
