package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertaConfig define os limites do gerador de alertas. Os valores chegam da
// configuração do processo; nenhum limite fica em variável global.
type AlertaConfig struct {
	LimiteEstoqueBaixo  int
	DiasValidadeProxima int
}

// AlertaService é o único dono das transições de alerta. Estados por
// (medicamento, tipo): sem alerta → não lido → lido; a recorrência
// lido → não lido acontece criando um registro novo, nunca reabrindo o
// antigo.
type AlertaService interface {
	// GerarAlertas roda a reconciliação completa: estoque baixo, validade
	// próxima e vencidos. Idempotente.
	GerarAlertas(ctx context.Context) error
	VerificarEstoqueBaixo(ctx context.Context) error
	VerificarValidadeProxima(ctx context.Context) error
	VerificarVencidos(ctx context.Context) error

	MarcarComoLido(ctx context.Context, id uuid.UUID) error
	MarcarEstoqueBaixoComoLidos(ctx context.Context, medicamentoID uuid.UUID) error
	MarcarTodosComoLidos(ctx context.Context, medicamentoID uuid.UUID) error
	RemoverTodosDoMedicamento(ctx context.Context, medicamentoID uuid.UUID) error

	FindAll(ctx context.Context) ([]dto.AlertaResponse, error)
	FindNaoLidos(ctx context.Context) ([]dto.AlertaResponse, error)
	// As listagens por tipo mostram apenas alertas não lidos; os lidos ficam
	// restritos ao histórico geral (FindAll).
	FindEstoqueBaixo(ctx context.Context) ([]dto.AlertaResponse, error)
	FindValidadeProxima(ctx context.Context) ([]dto.AlertaResponse, error)
	FindValidadeVencida(ctx context.Context) ([]dto.AlertaResponse, error)

	NaoLidosCount(ctx context.Context) (int64, error)
	LimiteEstoqueBaixo() int
}

type alertaService struct {
	repo    repository.AlertaRepository
	medRepo repository.MedicamentoRepository
	cfg     AlertaConfig
	clock   Clock
}

func NewAlertaService(repo repository.AlertaRepository, medRepo repository.MedicamentoRepository, cfg AlertaConfig, clock Clock) AlertaService {
	if cfg.LimiteEstoqueBaixo <= 0 {
		cfg.LimiteEstoqueBaixo = 10
	}
	if cfg.DiasValidadeProxima <= 0 {
		cfg.DiasValidadeProxima = 30
	}
	if clock == nil {
		clock = NewClock()
	}
	return &alertaService{repo: repo, medRepo: medRepo, cfg: cfg, clock: clock}
}

func (s *alertaService) LimiteEstoqueBaixo() int { return s.cfg.LimiteEstoqueBaixo }

func (s *alertaService) GerarAlertas(ctx context.Context) error {
	if err := s.VerificarEstoqueBaixo(ctx); err != nil {
		return err
	}
	if err := s.VerificarValidadeProxima(ctx); err != nil {
		return err
	}
	return s.VerificarVencidos(ctx)
}

// VerificarEstoqueBaixo é o sweep global: medicamentos ativos em nível
// seguro têm os alertas ESTOQUE_BAIXO não lidos marcados como lidos; os
// abaixo do limite ganham um alerta novo, a menos que já exista um não lido.
func (s *alertaService) VerificarEstoqueBaixo(ctx context.Context) error {
	medicamentos, err := s.medRepo.FindAtivos(ctx)
	if err != nil {
		return err
	}

	for _, m := range medicamentos {
		if m.QuantidadeEstoque >= s.cfg.LimiteEstoqueBaixo {
			if err := s.repo.MarcarLidosPorMedicamentoETipo(ctx, m.ID, model.AlertaEstoqueBaixo); err != nil {
				return err
			}
			continue
		}

		existe, err := s.repo.ExistsNaoLido(ctx, m.ID, model.AlertaEstoqueBaixo)
		if err != nil {
			return err
		}
		if existe {
			continue
		}
		alerta := &model.Alerta{
			MedicamentoID:   m.ID,
			MedicamentoNome: m.Nome,
			Tipo:            model.AlertaEstoqueBaixo,
			Mensagem:        fmt.Sprintf("Estoque baixo: %d un.", m.QuantidadeEstoque),
			CreatedAt:       s.clock.Now(),
		}
		if err := s.repo.Create(ctx, alerta); err != nil {
			return err
		}
	}
	return nil
}

// VerificarValidadeProxima cria alertas VALIDADE_PROXIMA para medicamentos
// ativos que vencem dentro da janela configurada. Já vencidos ficam de fora:
// têm alerta próprio. Alertas de validade nunca são limpos automaticamente.
func (s *alertaService) VerificarValidadeProxima(ctx context.Context) error {
	hoje := s.clock.Today()
	limite := hoje.AddDate(0, 0, s.cfg.DiasValidadeProxima)

	medicamentos, err := s.medRepo.FindAtivosComValidadeAte(ctx, limite)
	if err != nil {
		return err
	}

	for _, m := range medicamentos {
		if m.Validade == nil || m.Validade.Before(hoje) {
			continue
		}
		existe, err := s.repo.ExistsNaoLido(ctx, m.ID, model.AlertaValidadeProxima)
		if err != nil {
			return err
		}
		if existe {
			continue
		}
		alerta := &model.Alerta{
			MedicamentoID:   m.ID,
			MedicamentoNome: m.Nome,
			Tipo:            model.AlertaValidadeProxima,
			Mensagem:        "Validade próxima: " + formatValidade(*m.Validade),
			CreatedAt:       s.clock.Now(),
		}
		if err := s.repo.Create(ctx, alerta); err != nil {
			return err
		}
	}
	return nil
}

func (s *alertaService) VerificarVencidos(ctx context.Context) error {
	hoje := s.clock.Today()

	medicamentos, err := s.medRepo.FindAtivosVencidos(ctx, hoje)
	if err != nil {
		return err
	}

	for _, m := range medicamentos {
		if m.Validade == nil {
			continue
		}
		existe, err := s.repo.ExistsNaoLido(ctx, m.ID, model.AlertaValidadeVencida)
		if err != nil {
			return err
		}
		if existe {
			continue
		}
		alerta := &model.Alerta{
			MedicamentoID:   m.ID,
			MedicamentoNome: m.Nome,
			Tipo:            model.AlertaValidadeVencida,
			Mensagem:        "Medicamento vencido em: " + formatValidade(*m.Validade),
			CreatedAt:       s.clock.Now(),
		}
		if err := s.repo.Create(ctx, alerta); err != nil {
			return err
		}
	}
	return nil
}

func (s *alertaService) MarcarComoLido(ctx context.Context, id uuid.UUID) error {
	alerta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("Alerta não encontrado com ID: %s", id)
		}
		return err
	}
	if alerta.Lido {
		return nil
	}
	alerta.Lido = true
	return s.repo.Update(ctx, alerta)
}

func (s *alertaService) MarcarEstoqueBaixoComoLidos(ctx context.Context, medicamentoID uuid.UUID) error {
	return s.repo.MarcarLidosPorMedicamentoETipo(ctx, medicamentoID, model.AlertaEstoqueBaixo)
}

// MarcarTodosComoLidos é chamado na inativação e antes da exclusão do
// medicamento: os alertas permanecem no histórico, mas saem do painel de
// não lidos.
func (s *alertaService) MarcarTodosComoLidos(ctx context.Context, medicamentoID uuid.UUID) error {
	return s.repo.MarcarLidosPorMedicamento(ctx, medicamentoID)
}

// RemoverTodosDoMedicamento apaga os alertas na reativação (o estado atual é
// reavaliado do zero em seguida) e na exclusão do medicamento.
func (s *alertaService) RemoverTodosDoMedicamento(ctx context.Context, medicamentoID uuid.UUID) error {
	return s.repo.DeleteByMedicamento(ctx, medicamentoID)
}

func (s *alertaService) FindAll(ctx context.Context) ([]dto.AlertaResponse, error) {
	alertas, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.presentar(ctx, alertas, false)
}

func (s *alertaService) FindNaoLidos(ctx context.Context) ([]dto.AlertaResponse, error) {
	alertas, err := s.repo.FindNaoLidos(ctx)
	if err != nil {
		return nil, err
	}
	return s.presentar(ctx, alertas, false)
}

func (s *alertaService) FindEstoqueBaixo(ctx context.Context) ([]dto.AlertaResponse, error) {
	alertas, err := s.repo.FindNaoLidosPorTipo(ctx, model.AlertaEstoqueBaixo)
	if err != nil {
		return nil, err
	}
	return s.presentar(ctx, alertas, false)
}

func (s *alertaService) FindValidadeProxima(ctx context.Context) ([]dto.AlertaResponse, error) {
	alertas, err := s.repo.FindNaoLidosPorTipo(ctx, model.AlertaValidadeProxima)
	if err != nil {
		return nil, err
	}
	return s.presentar(ctx, alertas, true)
}

func (s *alertaService) FindValidadeVencida(ctx context.Context) ([]dto.AlertaResponse, error) {
	alertas, err := s.repo.FindNaoLidosPorTipo(ctx, model.AlertaValidadeVencida)
	if err != nil {
		return nil, err
	}
	return s.presentar(ctx, alertas, true)
}

func (s *alertaService) NaoLidosCount(ctx context.Context) (int64, error) {
	return s.repo.CountNaoLidos(ctx)
}

// presentar descarta alertas de medicamentos apagados (e, quando
// somenteAtivos, de inativos) e ordena por nome sem diferenciar caixa.
func (s *alertaService) presentar(ctx context.Context, alertas []model.Alerta, somenteAtivos bool) ([]dto.AlertaResponse, error) {
	cache := make(map[uuid.UUID]*model.Medicamento)
	out := make([]dto.AlertaResponse, 0, len(alertas))

	for i := range alertas {
		a := &alertas[i]
		med, visto := cache[a.MedicamentoID]
		if !visto {
			found, err := s.medRepo.FindByID(ctx, a.MedicamentoID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					cache[a.MedicamentoID] = nil
					continue
				}
				return nil, err
			}
			med = found
			cache[a.MedicamentoID] = med
		}
		if med == nil {
			continue
		}
		if somenteAtivos && !med.Ativo {
			continue
		}
		out = append(out, dto.AlertaResponse{
			ID:              a.ID.String(),
			MedicamentoID:   a.MedicamentoID.String(),
			MedicamentoNome: a.MedicamentoNome,
			Tipo:            a.Tipo,
			Mensagem:        a.Mensagem,
			Lido:            a.Lido,
			CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].MedicamentoNome) < strings.ToLower(out[j].MedicamentoNome)
	})
	return out, nil
}

func formatValidade(t time.Time) string { return t.Format("02/01/2006") }
