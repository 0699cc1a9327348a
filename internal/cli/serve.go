package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/httpapi"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board API over HTTP",
	Long: `Serve the board API over HTTP until interrupted.

Write requests are attributed to the user named in the X-Kanban-User header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getCfg(cmd)
		log := getLogger(cmd)
		addr := cfg.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		api := httpapi.NewServer(getStore(cmd), getService(cmd), log, httpapi.Options{CORSOrigins: cfg.CORSOrigins})
		srv := &http.Server{
			Addr:              addr,
			Handler:           api,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", addr)
			errCh <- srv.ListenAndServe()
		}()
		getWriter(cmd).Info("Serving on %s (Ctrl-C to stop)", addr)

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return cmdErr(fmt.Errorf("listening on %s: %w", addr, err), output.ErrGeneral)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return cmdErr(fmt.Errorf("shutting down: %w", err), output.ErrGeneral)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from KANBAN_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}
