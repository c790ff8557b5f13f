package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/table-order/internal/config"
	"github.com/jcmexdev/table-order/internal/history"
	historysqlite "github.com/jcmexdev/table-order/internal/history/sqlite"
	"github.com/jcmexdev/table-order/internal/httpx"
	"github.com/jcmexdev/table-order/internal/order"
	"github.com/jcmexdev/table-order/internal/session"
	"github.com/jcmexdev/table-order/internal/store"
	"github.com/jcmexdev/table-order/internal/telemetry"
)

func main() {
	telemetry.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.OTelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, "table-order")
		if err != nil {
			slog.Error("failed to initialise tracer", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		slog.Error("failed to open store", "path", cfg.StorePath, "error", err)
		os.Exit(1)
	}

	var hist history.Repository
	if cfg.HistoryPath != "" {
		repo, err := historysqlite.Open(cfg.HistoryPath)
		if err != nil {
			slog.Error("failed to open history log", "path", cfg.HistoryPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		hist = repo
	} else {
		slog.Warn("HISTORY_PATH not set, order history will not survive a restart")
		hist = history.NewMemory()
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedis(cfg.RedisAddr, cfg.SessionTTL)
		if err := rs.Ping(ctx); err != nil {
			slog.Error("failed to reach redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		sessions = rs
	} else {
		sessions = session.NewMemory(cfg.SessionTTL)
	}

	if !cfg.ManagerLoginEnabled() {
		slog.Warn("manager credentials not configured, manager endpoints stay locked")
	}

	svc := order.New(st, hist)
	handler := httpx.NewHandler(svc, hist, sessions, httpx.Credentials{
		Username: cfg.ManagerUsername,
		Password: cfg.ManagerPassword,
	})
	router := httpx.NewRouter(handler, cfg.PublicDir)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("table-order server running", "addr", cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}
}
