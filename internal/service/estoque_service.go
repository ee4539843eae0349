package service

import (
	"context"
	"errors"
	"fmt"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// EstoqueService é o único escritor de quantidade_estoque. Toda mudança
// acontece numa transação junto com o registro da movimentação; a
// reconciliação de alertas roda somente depois do commit, lendo o estado já
// persistido.
type EstoqueService interface {
	Entrada(ctx context.Context, ator Identity, medicamentoID uuid.UUID, req dto.EstoqueRequest) (*dto.EstoqueOperacaoResponse, error)
	Saida(ctx context.Context, ator Identity, medicamentoID uuid.UUID, req dto.EstoqueRequest) (*dto.EstoqueOperacaoResponse, error)

	// AjustarTx aplica um delta (positivo ou negativo) dentro de uma transação
	// aberta pelo chamador e devolve a quantidade resultante. Não dispara
	// reconciliação: o chamador reconcilia uma vez após o próprio commit.
	AjustarTx(tx *gorm.DB, medicamentoID uuid.UUID, delta int, motivo string) (int, error)

	// Consultar devolve o saldo atual de um medicamento, sem tocar em nada.
	Consultar(ctx context.Context, medicamentoID uuid.UUID) (*dto.EstoqueAtualResponse, error)
	ListMovimentacoes(ctx context.Context, filter repository.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error)
}

type estoqueService struct {
	medRepo repository.MedicamentoRepository
	movRepo repository.MovimentacaoEstoqueRepository
	alertas AlertaService
	logs    LogService
	clock   Clock
}

func NewEstoqueService(
	medRepo repository.MedicamentoRepository,
	movRepo repository.MovimentacaoEstoqueRepository,
	alertas AlertaService,
	logs LogService,
	clock Clock,
) EstoqueService {
	if clock == nil {
		clock = NewClock()
	}
	return &estoqueService{medRepo: medRepo, movRepo: movRepo, alertas: alertas, logs: logs, clock: clock}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *estoqueService) Entrada(ctx context.Context, ator Identity, medicamentoID uuid.UUID, req dto.EstoqueRequest) (*dto.EstoqueOperacaoResponse, error) {
	if req.Quantidade <= 0 {
		return nil, BusinessRulef("A quantidade deve ser maior que zero")
	}
	motivo := req.Motivo
	if motivo == "" {
		motivo = "Entrada de estoque"
	}
	med, nova, err := s.operar(ctx, medicamentoID, req.Quantidade, motivo)
	if err != nil {
		return nil, err
	}

	// Reconciliação pós-commit: se o estoque voltou ao nível seguro, basta
	// marcar os alertas de estoque baixo deste medicamento como lidos;
	// senão o sweep global decide.
	if nova >= s.alertas.LimiteEstoqueBaixo() {
		if err := s.alertas.MarcarEstoqueBaixoComoLidos(ctx, medicamentoID); err != nil {
			log.Warn().Err(err).Str("medicamento_id", medicamentoID.String()).
				Msg("estoque: falha ao marcar alertas como lidos após entrada")
		}
	} else if err := s.alertas.VerificarEstoqueBaixo(ctx); err != nil {
		log.Warn().Err(err).Msg("estoque: falha na verificação de estoque baixo após entrada")
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "MEDICAMENTO", &medicamentoID,
		fmt.Sprintf("Entrada de estoque: %d un. de '%s'", req.Quantidade, med.Nome),
		map[string]interface{}{
			"quantidade":      req.Quantidade,
			"nova_quantidade": nova,
			"motivo":          motivo,
		})

	return &dto.EstoqueOperacaoResponse{
		Mensagem:        fmt.Sprintf("Entrada de estoque registrada para o medicamento '%s'", med.Nome),
		MedicamentoID:   medicamentoID.String(),
		MedicamentoNome: med.Nome,
		Quantidade:      req.Quantidade,
		NovaQuantidade:  nova,
		Tipo:            model.MovimentacaoEntrada,
	}, nil
}

func (s *estoqueService) Saida(ctx context.Context, ator Identity, medicamentoID uuid.UUID, req dto.EstoqueRequest) (*dto.EstoqueOperacaoResponse, error) {
	if req.Quantidade <= 0 {
		return nil, BusinessRulef("A quantidade deve ser maior que zero")
	}
	motivo := req.Motivo
	if motivo == "" {
		motivo = "Saída de estoque"
	}
	med, nova, err := s.operar(ctx, medicamentoID, -req.Quantidade, motivo)
	if err != nil {
		return nil, err
	}

	if err := s.alertas.VerificarEstoqueBaixo(ctx); err != nil {
		log.Warn().Err(err).Msg("estoque: falha na verificação de estoque baixo após saída")
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "MEDICAMENTO", &medicamentoID,
		fmt.Sprintf("Saída de estoque: %d un. de '%s'", req.Quantidade, med.Nome),
		map[string]interface{}{
			"quantidade":      req.Quantidade,
			"nova_quantidade": nova,
			"motivo":          motivo,
		})

	return &dto.EstoqueOperacaoResponse{
		Mensagem:        fmt.Sprintf("Saída de estoque registrada para o medicamento '%s'", med.Nome),
		MedicamentoID:   medicamentoID.String(),
		MedicamentoNome: med.Nome,
		Quantidade:      req.Quantidade,
		NovaQuantidade:  nova,
		Tipo:            model.MovimentacaoSaida,
	}, nil
}

// operar abre a transação, aplica o delta e devolve o medicamento e a
// quantidade resultante. Em caso de erro nada é persistido.
func (s *estoqueService) operar(ctx context.Context, medicamentoID uuid.UUID, delta int, motivo string) (*model.Medicamento, int, error) {
	var med *model.Medicamento
	var nova int
	txErr := runTx(ctx, s.medRepo.DB(), func(tx *gorm.DB) error {
		var err error
		med, nova, err = s.ajustar(tx, medicamentoID, delta, motivo)
		return err
	})
	if txErr != nil {
		return nil, 0, txErr
	}
	return med, nova, nil
}

// ajustar é o primitivo compartilhado: trava a linha do medicamento,
// recalcula a quantidade e registra a movimentação com o total resultante.
// Deve rodar sempre dentro de uma transação.
func (s *estoqueService) ajustar(tx *gorm.DB, medicamentoID uuid.UUID, delta int, motivo string) (*model.Medicamento, int, error) {
	med, err := s.medRepo.FindByIDForUpdateTx(tx, medicamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, NotFoundf("Medicamento não encontrado com ID: %s", medicamentoID)
		}
		return nil, 0, err
	}

	nova := med.QuantidadeEstoque + delta
	if nova < 0 {
		return nil, 0, BusinessRulef(
			"Estoque insuficiente para o medicamento '%s'. Disponível: %d unidade(s), solicitado: %d unidade(s).",
			med.Nome, med.QuantidadeEstoque, -delta)
	}

	if err := s.medRepo.UpdateEstoqueTx(tx, medicamentoID, nova); err != nil {
		return nil, 0, err
	}

	tipo := model.MovimentacaoEntrada
	quantidade := delta
	if delta < 0 {
		tipo = model.MovimentacaoSaida
		quantidade = -delta
	}
	mov := &model.MovimentacaoEstoque{
		MedicamentoID: medicamentoID,
		Tipo:          tipo,
		Quantidade:    quantidade,
		EstoqueTotal:  nova,
		Motivo:        motivo,
		Data:          s.clock.Now(),
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return nil, 0, err
	}

	return med, nova, nil
}

func (s *estoqueService) AjustarTx(tx *gorm.DB, medicamentoID uuid.UUID, delta int, motivo string) (int, error) {
	_, nova, err := s.ajustar(tx, medicamentoID, delta, motivo)
	return nova, err
}

func (s *estoqueService) Consultar(ctx context.Context, medicamentoID uuid.UUID) (*dto.EstoqueAtualResponse, error) {
	med, err := s.medRepo.FindByID(ctx, medicamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Medicamento não encontrado com ID: %s", medicamentoID)
		}
		return nil, err
	}
	return &dto.EstoqueAtualResponse{
		MedicamentoID:     med.ID.String(),
		MedicamentoNome:   med.Nome,
		QuantidadeEstoque: med.QuantidadeEstoque,
		EstoqueBaixo:      med.QuantidadeEstoque < s.alertas.LimiteEstoqueBaixo(),
	}, nil
}

func (s *estoqueService) ListMovimentacoes(ctx context.Context, filter repository.MovimentacaoFilter) (*dto.MovimentacaoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movimentacoes, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimentacaoResponse, 0, len(movimentacoes))
	for _, m := range movimentacoes {
		data = append(data, dto.MovimentacaoResponse{
			ID:            m.ID.String(),
			MedicamentoID: m.MedicamentoID.String(),
			Tipo:          m.Tipo,
			Quantidade:    m.Quantidade,
			EstoqueTotal:  m.EstoqueTotal,
			Motivo:        m.Motivo,
			Data:          m.Data.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.MovimentacaoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
