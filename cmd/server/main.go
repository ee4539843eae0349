package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/infra"
	"farmacia/internal/repository"
	"farmacia/internal/router"
	"farmacia/internal/service"
	"farmacia/internal/worker"

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

	// Redis é opcional: sem ele a auditoria grava síncrona e o digest de
	// alertas por email fica desligado.
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable — async jobs disabled")
		rdb = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	logRepo := repository.NewLogRepository(db)

	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb)
		handlers := worker.Handlers{
			Log:   worker.NewLogWorker(logRepo, rdb),
			Email: worker.NewEmailWorker(mailer),
		}
		worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, db, rdb, dispatcher)

	// Reconciliação periódica de alertas — o mesmo sweep idempotente que os
	// serviços disparam após ajustes de estoque.
	alertaRepo := repository.NewAlertaRepository(db)
	medicamentoRepo := repository.NewMedicamentoRepository(db)
	alertaSvc := service.NewAlertaService(alertaRepo, medicamentoRepo, service.AlertaConfig{
		LimiteEstoqueBaixo:  cfg.EstoqueBaixoLimite,
		DiasValidadeProxima: cfg.ValidadeProximaDias,
	}, nil)
	worker.StartAlertaCron(ctx, worker.AlertaCronConfig{
		Alertas:    alertaSvc,
		Dispatcher: dispatcher,
		AdminEmail: cfg.AlertasEmailDestino,
		Intervalo:  time.Duration(cfg.AlertasIntervaloHoras) * time.Hour,
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
		log.Info().Msgf("farmacia backend listening on :%d", cfg.Port)
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
