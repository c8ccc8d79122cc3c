package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TayDa64/CryptoEmpire/internal/api"
	"github.com/TayDa64/CryptoEmpire/internal/config"
	"github.com/TayDa64/CryptoEmpire/internal/game"
	"github.com/TayDa64/CryptoEmpire/internal/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	hist, err := history.Open(cfg.HistoryDSN)
	if err != nil {
		logger.Error("history open failed", "err", err)
		os.Exit(1)
	}
	defer hist.Close()

	gameSvc := game.NewService(logger, hist, cfg.EventTTL)

	// The simulation timelines live in this process; state is in-memory.
	go gameSvc.Run(ctx, cfg.MarketTickEvery, cfg.EventTickEvery)

	server := api.New(cfg, logger, gameSvc, hist)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("cryptoempire api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
