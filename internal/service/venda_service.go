package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const idadeMinimaCompra = 18

// VendaService orquestra a venda: valida cliente e itens, congela preços,
// desconta estoque por item através do motor de ajuste dentro de uma única
// transação e dispara exatamente um sweep de estoque baixo após o commit.
type VendaService interface {
	Create(ctx context.Context, ator Identity, req dto.VendaCreateRequest) (*dto.VendaResponse, error)
	// CreateCancelada registra uma venda já cancelada (rascunho histórico):
	// nenhum estoque é movido e nem idade nem validade são validadas.
	CreateCancelada(ctx context.Context, ator Identity, req dto.VendaCreateRequest) (*dto.VendaResponse, error)
	Cancelar(ctx context.Context, ator Identity, id uuid.UUID) (*dto.VendaResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	List(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
	FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VendaResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	clienteRepo repository.ClienteRepository
	medRepo     repository.MedicamentoRepository
	estoque     EstoqueService
	alertas     AlertaService
	logs        LogService
	clock       Clock
}

func NewVendaService(
	repo repository.VendaRepository,
	clienteRepo repository.ClienteRepository,
	medRepo repository.MedicamentoRepository,
	estoque EstoqueService,
	alertas AlertaService,
	logs LogService,
	clock Clock,
) VendaService {
	if clock == nil {
		clock = NewClock()
	}
	return &vendaService{
		repo:        repo,
		clienteRepo: clienteRepo,
		medRepo:     medRepo,
		estoque:     estoque,
		alertas:     alertas,
		logs:        logs,
		clock:       clock,
	}
}

type itemResolvido struct {
	medicamentoID uuid.UUID
	nome          string
	preco         decimal.Decimal
	quantidade    int
	subtotal      decimal.Decimal
}

// ── Create ────────────────────────────────────────────────────────────────────
//  1. Cliente existe e tem idade mínima
//  2. Pre-flight por item: existe, ativo, não vencido, estoque suficiente
//  3. BEGIN TX: cria venda+itens com preço congelado, desconta estoque por
//     item (o motor revalida sob FOR UPDATE — qualquer falha aborta tudo)
//  4. COMMIT; um único sweep de estoque baixo; auditoria best-effort

func (s *vendaService) Create(ctx context.Context, ator Identity, req dto.VendaCreateRequest) (*dto.VendaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, BusinessRulef("cliente_id inválido: %s", req.ClienteID)
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Cliente não encontrado com ID: %s", clienteID)
		}
		return nil, err
	}

	hoje := s.clock.Today()
	if idade := idadeEm(cliente.DataNascimento, hoje); idade < idadeMinimaCompra {
		return nil, BusinessRulef(
			"Cliente deve ter mais de 18 anos para realizar compras. Idade atual: %d anos.", idade)
	}

	resolvidos, total, err := s.resolverItens(ctx, req.Itens, true)
	if err != nil {
		return nil, err
	}

	venda, err := s.persistir(ctx, clienteID, ator.ID, model.VendaConcluida, resolvidos, total, true)
	if err != nil {
		return nil, err
	}

	// Um único sweep após o commit, independente do número de itens.
	if err := s.alertas.VerificarEstoqueBaixo(ctx); err != nil {
		log.Warn().Err(err).Msg("venda: falha na verificação de estoque baixo após venda")
	}

	s.logs.Registrar(ctx, ator, model.LogCreate, "VENDA", &venda.ID,
		fmt.Sprintf("Venda registrada para o cliente '%s'", cliente.Nome),
		map[string]interface{}{
			"cliente_id":  clienteID.String(),
			"valor_total": total.String(),
			"itens":       len(resolvidos),
		})

	return vendaToResponse(venda), nil
}

// CreateCancelada valida apenas a existência de cliente e medicamentos.
func (s *vendaService) CreateCancelada(ctx context.Context, ator Identity, req dto.VendaCreateRequest) (*dto.VendaResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, BusinessRulef("cliente_id inválido: %s", req.ClienteID)
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Cliente não encontrado com ID: %s", clienteID)
		}
		return nil, err
	}

	resolvidos, total, err := s.resolverItens(ctx, req.Itens, false)
	if err != nil {
		return nil, err
	}

	venda, err := s.persistir(ctx, clienteID, ator.ID, model.VendaCancelada, resolvidos, total, false)
	if err != nil {
		return nil, err
	}

	s.logs.Registrar(ctx, ator, model.LogCreate, "VENDA", &venda.ID,
		fmt.Sprintf("Venda cancelada registrada para o cliente '%s'", cliente.Nome),
		map[string]interface{}{
			"cliente_id":  clienteID.String(),
			"valor_total": total.String(),
		})

	return vendaToResponse(venda), nil
}

// resolverItens faz o pre-flight fora da transação: resolve cada medicamento
// e congela o preço. Com validar=true aplica as regras de venda (ativo, não
// vencido, estoque suficiente).
func (s *vendaService) resolverItens(ctx context.Context, itens []dto.ItemVendaRequest, validar bool) ([]itemResolvido, decimal.Decimal, error) {
	hoje := s.clock.Today()
	total := decimal.Zero
	resolvidos := make([]itemResolvido, 0, len(itens))

	for _, item := range itens {
		medID, err := uuid.Parse(item.MedicamentoID)
		if err != nil {
			return nil, decimal.Zero, BusinessRulef("medicamento_id inválido: %s", item.MedicamentoID)
		}
		med, err := s.medRepo.FindByID(ctx, medID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, NotFoundf("Medicamento não encontrado com ID: %s", medID)
			}
			return nil, decimal.Zero, err
		}

		if validar {
			if !med.Ativo {
				return nil, decimal.Zero, BusinessRulef("O medicamento '%s' está inativo e não pode ser vendido", med.Nome)
			}
			if med.Validade != nil && med.Validade.Before(hoje) {
				return nil, decimal.Zero, BusinessRulef("O medicamento '%s' está vencido e não pode ser vendido", med.Nome)
			}
			if med.QuantidadeEstoque < item.Quantidade {
				return nil, decimal.Zero, BusinessRulef(
					"Estoque insuficiente para o medicamento '%s'. Disponível: %d unidade(s), solicitado: %d unidade(s).",
					med.Nome, med.QuantidadeEstoque, item.Quantidade)
			}
		}

		subtotal := med.Preco.Mul(decimal.NewFromInt(int64(item.Quantidade)))
		total = total.Add(subtotal)
		resolvidos = append(resolvidos, itemResolvido{
			medicamentoID: medID,
			nome:          med.Nome,
			preco:         med.Preco,
			quantidade:    item.Quantidade,
			subtotal:      subtotal,
		})
	}
	return resolvidos, total, nil
}

// persistir grava a venda e, quando descontar=true, deduz o estoque item a
// item dentro da mesma transação.
func (s *vendaService) persistir(ctx context.Context, clienteID, usuarioID uuid.UUID, status string, resolvidos []itemResolvido, total decimal.Decimal, descontar bool) (*model.Venda, error) {
	var venda model.Venda
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		venda = model.Venda{
			ClienteID:  clienteID,
			UsuarioID:  usuarioID,
			Status:     status,
			ValorTotal: total,
		}
		for _, r := range resolvidos {
			venda.Itens = append(venda.Itens, model.ItemVenda{
				MedicamentoID:   r.medicamentoID,
				MedicamentoNome: r.nome,
				Quantidade:      r.quantidade,
				PrecoUnitario:   r.preco,
				Subtotal:        r.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, &venda); err != nil {
			return err
		}

		if !descontar {
			return nil
		}
		motivo := fmt.Sprintf("Venda #%s", venda.ID)
		for _, r := range resolvidos {
			if _, err := s.estoque.AjustarTx(tx, r.medicamentoID, -r.quantidade, motivo); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &venda, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Devolve o estoque com movimentos ENTRADA novos; os movimentos SAIDA da
// venda original permanecem no livro-razão.

func (s *vendaService) Cancelar(ctx context.Context, ator Identity, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Venda não encontrada com ID: %s", id)
		}
		return nil, err
	}
	if venda.Status != model.VendaConcluida {
		return nil, BusinessRulef("Apenas vendas concluídas podem ser canceladas")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		motivo := fmt.Sprintf("Cancelamento da venda #%s", venda.ID)
		for _, item := range venda.Itens {
			if _, err := s.estoque.AjustarTx(tx, item.MedicamentoID, item.Quantidade, motivo); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, model.VendaCancelada)
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.alertas.VerificarEstoqueBaixo(ctx); err != nil {
		log.Warn().Err(err).Msg("venda: falha na verificação de estoque baixo após cancelamento")
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "VENDA", &venda.ID,
		fmt.Sprintf("Venda #%s cancelada", venda.ID),
		map[string]interface{}{
			"valor_total": venda.ValorTotal.String(),
			"itens":       len(venda.Itens),
		})

	venda.Status = model.VendaCancelada
	return vendaToResponse(venda), nil
}

func (s *vendaService) FindByID(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Venda não encontrada com ID: %s", id)
		}
		return nil, err
	}
	return vendaToResponse(venda), nil
}

func (s *vendaService) List(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *vendaService) FindByCliente(ctx context.Context, clienteID uuid.UUID) ([]dto.VendaResponse, error) {
	vendas, err := s.repo.FindByClienteID(ctx, clienteID)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		data = append(data, *vendaToResponse(&vendas[i]))
	}
	return data, nil
}

// idadeEm calcula idade completa em anos na data de referência.
func idadeEm(nascimento, referencia time.Time) int {
	idade := referencia.Year() - nascimento.Year()
	if referencia.Month() < nascimento.Month() ||
		(referencia.Month() == nascimento.Month() && referencia.Day() < nascimento.Day()) {
		idade--
	}
	return idade
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		itens = append(itens, dto.ItemVendaResponse{
			MedicamentoID:   item.MedicamentoID.String(),
			MedicamentoNome: item.MedicamentoNome,
			Quantidade:      item.Quantidade,
			PrecoUnitario:   item.PrecoUnitario,
			Subtotal:        item.Subtotal,
		})
	}
	return &dto.VendaResponse{
		ID:         v.ID.String(),
		ClienteID:  v.ClienteID.String(),
		UsuarioID:  v.UsuarioID.String(),
		Status:     v.Status,
		ValorTotal: v.ValorTotal,
		Itens:      itens,
		CreatedAt:  v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
