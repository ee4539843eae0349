package worker

// log_worker.go
// Processes audit log persistence jobs from QueueLogs. The audit sink is
// best-effort: a failed write goes to the DLQ, never back to the caller.

import (
	"context"
	"encoding/json"
	"time"

	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// LogJobPayload is the job envelope sent to QueueLogs.
type LogJobPayload struct {
	TipoOperacao string  `json:"tipo_operacao"`
	TipoEntidade string  `json:"tipo_entidade"`
	EntidadeID   *string `json:"entidade_id"`
	Descricao    string  `json:"descricao"`
	Detalhes     *string `json:"detalhes"`
	UsuarioID    *string `json:"usuario_id"`
	UsuarioNome  string  `json:"usuario_nome"`
	Data         string  `json:"data"` // RFC3339
}

// LogWorker persists audit records enqueued by the services.
type LogWorker struct {
	repo repository.LogRepository
	rdb  *redis.Client
}

func NewLogWorker(repo repository.LogRepository, rdb *redis.Client) *LogWorker {
	return &LogWorker{repo: repo, rdb: rdb}
}

// Process writes one audit record. Failures are parked in the DLQ.
func (w *LogWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LogJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("log_worker: invalid payload")
		return
	}

	entry := model.Log{
		TipoOperacao: payload.TipoOperacao,
		TipoEntidade: payload.TipoEntidade,
		Descricao:    payload.Descricao,
		Detalhes:     payload.Detalhes,
		UsuarioNome:  payload.UsuarioNome,
	}
	if payload.EntidadeID != nil {
		if id, err := uuid.Parse(*payload.EntidadeID); err == nil {
			entry.EntidadeID = &id
		}
	}
	if payload.UsuarioID != nil {
		if id, err := uuid.Parse(*payload.UsuarioID); err == nil {
			entry.UsuarioID = &id
		}
	}
	if t, err := time.Parse(time.RFC3339, payload.Data); err == nil {
		entry.CreatedAt = t
	}

	if err := w.repo.Create(ctx, &entry); err != nil {
		log.Error().Err(err).Str("entidade", payload.TipoEntidade).Msg("log_worker: failed to persist audit record")
		if w.rdb != nil {
			SendToDLQ(ctx, w.rdb, QueueLogs, "log", raw, err.Error(), 1)
		}
	}
}
