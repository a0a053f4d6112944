package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/avolkov/whitepaper-library/internal/adapters/http"
	"github.com/avolkov/whitepaper-library/internal/bootstrap"
	"github.com/avolkov/whitepaper-library/internal/config"
	"github.com/avolkov/whitepaper-library/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup("whitepaper-library", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.IngestUC,
		app.BrowseUC,
		app.DeleteUC,
		app.Repo,
		app.Stage,
		app.Taxonomy,
		app.Metrics,
	)

	// No WriteTimeout: an upload request blocks on the classification call,
	// which has no upper bound of its own.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router.Handler(),
		ReadTimeout: 120 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("server_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_error", "error", err)
	}
}
