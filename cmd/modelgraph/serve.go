package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/modelgraph/internal/gate"
	"github.com/matsen/modelgraph/internal/metrics"
	"github.com/matsen/modelgraph/internal/viz"
	"github.com/matsen/modelgraph/internal/web"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the password-gated diagram",
	Long: `Serve the diagram over HTTP.

Routes:
  GET  /          password form, or the diagram page once authenticated
  POST /login     submit the password
  POST /refresh   rebuild the diagram from the data source
  GET  /graph     the rendered diagram document
  GET  /healthz   liveness probe
  GET  /metrics   Prometheus metrics`,
	RunE: runServe,
}

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	src, closeSource := mustOpenSource(cfg)
	defer closeSource()

	verifier, err := cfg.Verifier()
	if err != nil {
		exitWithError(ExitConfigError, "password_hash: %v", err)
	}
	if verifier.Plaintext() {
		logger.Warn("password is stored in plaintext; set password_hash to use a bcrypt hash")
	}

	srv := web.NewServer(web.Options{
		Source:     src,
		Gate:       gate.New(verifier),
		Renderer:   viz.NewRenderer(cfg.TempDir, logger),
		View:       cfg.ViewOptions(),
		Metrics:    metrics.NewRegistry(),
		Logger:     logger,
		SessionTTL: cfg.SessionTTL,
		LoginRate:  cfg.LoginRate,
		LoginBurst: cfg.LoginBurst,
	})

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.ListenAddr, "source", cfg.Source.Kind)
		if listenErr := httpSrv.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case startErr := <-errCh:
		return startErr
	}

	if shutdownErr := web.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
		return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
	}

	// Drain errCh in case ListenAndServe returned after Shutdown.
	return <-errCh
}
