package service

import (
	"context"
	"encoding/json"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"
	"farmacia/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Identity identifica quem executou uma operação. Os handlers a extraem do
// token JWT e a passam explicitamente; nenhum serviço lê contexto ambiente
// de autenticação.
type Identity struct {
	ID   uuid.UUID
	Nome string
}

// LogService é o coletor de auditoria. Registrar nunca devolve erro: uma
// falha na trilha de auditoria não pode derrubar a operação de negócio.
type LogService interface {
	Registrar(ctx context.Context, ator Identity, tipoOperacao, tipoEntidade string, entidadeID *uuid.UUID, descricao string, detalhes map[string]interface{})
	List(ctx context.Context, filter dto.LogFilter) (*dto.LogListResponse, error)
}

type logService struct {
	repo       repository.LogRepository
	dispatcher *worker.Dispatcher
	clock      Clock
}

func NewLogService(repo repository.LogRepository, dispatcher *worker.Dispatcher, clock Clock) LogService {
	if clock == nil {
		clock = NewClock()
	}
	return &logService{repo: repo, dispatcher: dispatcher, clock: clock}
}

// Registrar grava um registro de auditoria. Com dispatcher disponível a
// escrita vai para a fila Redis e um worker persiste; sem dispatcher a
// escrita é síncrona. Qualquer falha vira apenas um warn no log.
func (s *logService) Registrar(ctx context.Context, ator Identity, tipoOperacao, tipoEntidade string, entidadeID *uuid.UUID, descricao string, detalhes map[string]interface{}) {
	agora := s.clock.Now()

	var detalhesJSON *string
	if detalhes != nil {
		detalhes["data"] = agora.Format(time.RFC3339)
		if raw, err := json.Marshal(detalhes); err == nil {
			v := string(raw)
			detalhesJSON = &v
		}
	}

	if s.dispatcher != nil {
		payload := worker.LogJobPayload{
			TipoOperacao: tipoOperacao,
			TipoEntidade: tipoEntidade,
			Descricao:    descricao,
			Detalhes:     detalhesJSON,
			UsuarioNome:  ator.Nome,
			Data:         agora.Format(time.RFC3339),
		}
		if entidadeID != nil {
			v := entidadeID.String()
			payload.EntidadeID = &v
		}
		if ator.ID != uuid.Nil {
			v := ator.ID.String()
			payload.UsuarioID = &v
		}
		err := s.dispatcher.EnqueueLog(ctx, payload)
		if err == nil {
			return
		}
		log.Warn().Err(err).Str("entidade", tipoEntidade).Msg("auditoria: fila indisponível, gravando síncrono")
	}

	entry := model.Log{
		TipoOperacao: tipoOperacao,
		TipoEntidade: tipoEntidade,
		EntidadeID:   entidadeID,
		Descricao:    descricao,
		Detalhes:     detalhesJSON,
		UsuarioNome:  ator.Nome,
		CreatedAt:    agora,
	}
	if ator.ID != uuid.Nil {
		id := ator.ID
		entry.UsuarioID = &id
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		log.Warn().Err(err).Str("entidade", tipoEntidade).Str("operacao", tipoOperacao).
			Msg("auditoria: falha ao gravar registro")
	}
}

func (s *logService) List(ctx context.Context, filter dto.LogFilter) (*dto.LogListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.LogResponse, 0, len(logs))
	for _, l := range logs {
		resp := dto.LogResponse{
			ID:           l.ID.String(),
			TipoOperacao: l.TipoOperacao,
			TipoEntidade: l.TipoEntidade,
			Descricao:    l.Descricao,
			Detalhes:     l.Detalhes,
			UsuarioNome:  l.UsuarioNome,
			CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		}
		if l.EntidadeID != nil {
			v := l.EntidadeID.String()
			resp.EntidadeID = &v
		}
		data = append(data, resp)
	}
	return &dto.LogListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
