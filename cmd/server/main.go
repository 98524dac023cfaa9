package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpos/internal/alert"
	"stockpos/internal/cart"
	"stockpos/internal/config"
	"stockpos/internal/infra"
	"stockpos/internal/ledger"
	"stockpos/internal/notify"
	"stockpos/internal/router"
	"stockpos/internal/store"
	"stockpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	st, err := store.NewGormStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Stock ledger + alert monitor ─────────────────────────────────────────
	// The ledger is the only stock view the request path reads. It follows
	// the products collection through the snapshot subscription; the monitor
	// watches it and enqueues alert emails on severity transitions.
	dispatcher := worker.NewDispatcher(rdb)
	monitor := alert.NewMonitor(dispatcher)

	ldg := ledger.New()
	ldg.Watch(monitor.Observe)
	go func() {
		if err := ldg.Run(ctx, st); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("ledger subscription failed")
		}
	}()

	sessions := cart.NewSessions(ldg)
	sessions.StartPurge(ctx)

	notifier := notify.NewHub()

	// ── Worker pool ──────────────────────────────────────────────────────────
	// Handlers are wired here (composition root) so the pool has full access
	// to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	handlers := &worker.Handlers{
		Email:   worker.NewEmailWorker(mailer, smtpCB),
		Invoice: worker.NewInvoiceWorker(cfg.PDFStoragePath),
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	r := router.New(cfg, router.Deps{
		DB:         db,
		RDB:        rdb,
		Store:      st,
		Ledger:     ldg,
		Monitor:    monitor,
		Sessions:   sessions,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		SMTPCB:     smtpCB,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("stockpos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
