package worker

// alerta_cron.go
// Background goroutine that periodically regenerates the alert set (low
// stock, expiry soon, expired). The sweep is idempotent, so overlapping with
// the post-adjustment reconciliations triggered by the services is harmless.

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// AlertaReconciler is the slice of the alert service the cron needs.
type AlertaReconciler interface {
	GerarAlertas(ctx context.Context) error
	NaoLidosCount(ctx context.Context) (int64, error)
}

// AlertaCronConfig holds all dependencies for the reconciliation goroutine.
type AlertaCronConfig struct {
	Alertas    AlertaReconciler
	Dispatcher *Dispatcher
	AdminEmail string
	Intervalo  time.Duration
}

// StartAlertaCron launches a background goroutine that runs a full alert
// reconciliation on every tick and, when unread alerts remain and an admin
// email is configured, enqueues a digest email job.
// It respects the context for graceful shutdown.
func StartAlertaCron(ctx context.Context, cfg AlertaCronConfig) {
	if cfg.Intervalo <= 0 {
		cfg.Intervalo = 24 * time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Intervalo)
		defer ticker.Stop()

		log.Info().Dur("intervalo", cfg.Intervalo).Msg("alerta_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerta_cron: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

func runSweep(ctx context.Context, cfg AlertaCronConfig) {
	if err := cfg.Alertas.GerarAlertas(ctx); err != nil {
		log.Error().Err(err).Msg("alerta_cron: reconciliation failed")
		return
	}

	naoLidos, err := cfg.Alertas.NaoLidosCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to count unread alerts")
		return
	}
	log.Info().Int64("nao_lidos", naoLidos).Msg("alerta_cron: sweep finished")

	if naoLidos == 0 || cfg.AdminEmail == "" || cfg.Dispatcher == nil {
		return
	}

	payload := EmailJobPayload{
		ToEmail: cfg.AdminEmail,
		Subject: fmt.Sprintf("Farmácia: %d alerta(s) não lido(s)", naoLidos),
		Body: fmt.Sprintf(
			"Existem %d alerta(s) não lido(s) no painel da farmácia.\n"+
				"Verifique estoque baixo e validades no sistema.", naoLidos),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("alerta_cron: failed to enqueue digest email")
	}
}
