package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for a browser UI",
	Long:  "Serve exposes the drill over a local HTTP API. It is single-user and unauthenticated; keep it on loopback.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		cfg := env.Config
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		if origins, _ := cmd.Flags().GetStringSlice("origin"); len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
		logger := env.Logger

		handler := api.NewHandler(env.Engine, cfg.DefaultCount, logger)
		server := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewRouter(handler, cfg.AllowedOrigins, logger),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			logger.Info("starting server", "address", cfg.Addr)
			errc <- server.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server failed", "error", err)
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default FPDRILL_ADDR or 127.0.0.1:8787)")
	serveCmd.Flags().StringSlice("origin", nil, "Allowed CORS origin; repeatable (default FPDRILL_ALLOWED_ORIGINS)")
}
