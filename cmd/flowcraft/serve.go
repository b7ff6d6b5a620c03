package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/flowcraft"
	"github.com/aretw0/flowcraft/internal/presentation/tui"
	httpAdapter "github.com/aretw0/flowcraft/pkg/adapters/http"
	"github.com/aretw0/flowcraft/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor HTTP API",
	Long: `Serves the editor API a canvas front-end talks to, with a Server-Sent Events change
stream on /events and Prometheus metrics on /metrics.

The flow is loaded from --file, or else from the configured document store under the
flow name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		autosave, _ := cmd.Flags().GetBool("autosave")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		docs, closeDocs, err := openDocumentStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeDocs()

		ed, err := newEditor(ctx, docs, observability.NewMetrics(), file)
		if err != nil {
			return err
		}
		if autosave {
			stopAutosave := startAutosave(ed)
			defer stopAutosave()
		}

		api := httpAdapter.NewServer(ed, httpAdapter.WithLogger(logger))
		defer api.Close()

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), flowcraft.Version)
			logger.Info("editor API listening", "addr", srv.Addr, "flow", ed.FlowName(), "storage", cfg.Storage.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			logger.Info("shutting down")
			// SSE streams never finish by themselves
			api.Streams.Close()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
	serveCmd.Flags().String("flow", "", "Name of the flow in the document store")
	serveCmd.Flags().String("file", "", "Load the flow from a document file instead of the store")
	serveCmd.Flags().Bool("autosave", false, "Save the flow to the document store after every change")
}
