package service

import (
	"context"
	"errors"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MedicamentoService cobre o catálogo: criação com imagens, atualização,
// ativação/inativação e exclusão física. Mudanças de estoque não passam por
// aqui — são exclusivas do EstoqueService.
type MedicamentoService interface {
	Criar(ctx context.Context, ator Identity, req dto.MedicamentoCreateRequest, imagens []ImagemUpload) (*dto.MedicamentoResponse, error)
	Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.MedicamentoUpdateRequest, imagens []ImagemUpload) (*dto.MedicamentoResponse, error)
	AtualizarStatus(ctx context.Context, ator Identity, id uuid.UUID, ativo bool) (*dto.MedicamentoResponse, error)
	Excluir(ctx context.Context, ator Identity, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*dto.MedicamentoResponse, error)
	List(ctx context.Context, filter dto.MedicamentoFilter) (*dto.MedicamentoListResponse, error)
}

type medicamentoService struct {
	repo      repository.MedicamentoRepository
	catRepo   repository.CategoriaRepository
	vendaRepo repository.VendaRepository
	alertas   AlertaService
	imagens   ImageStore
	logs      LogService
	clock     Clock
}

func NewMedicamentoService(
	repo repository.MedicamentoRepository,
	catRepo repository.CategoriaRepository,
	vendaRepo repository.VendaRepository,
	alertas AlertaService,
	imagens ImageStore,
	logs LogService,
	clock Clock,
) MedicamentoService {
	if clock == nil {
		clock = NewClock()
	}
	return &medicamentoService{
		repo:      repo,
		catRepo:   catRepo,
		vendaRepo: vendaRepo,
		alertas:   alertas,
		imagens:   imagens,
		logs:      logs,
		clock:     clock,
	}
}

func (s *medicamentoService) Criar(ctx context.Context, ator Identity, req dto.MedicamentoCreateRequest, imagens []ImagemUpload) (*dto.MedicamentoResponse, error) {
	if len(imagens) == 0 {
		return nil, BusinessRulef("Pelo menos uma imagem é obrigatória")
	}

	validade, err := s.parseValidadeFutura(req.Validade)
	if err != nil {
		return nil, err
	}

	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, BusinessRulef("ID de categoria inválido: %s", req.CategoriaID)
	}
	if _, err := s.catRepo.FindByID(ctx, categoriaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Categoria não encontrada com ID: %s", categoriaID)
		}
		return nil, err
	}

	if existing, err := s.repo.FindByNome(ctx, req.Nome); err == nil && existing != nil {
		return nil, Conflictf("Já existe um medicamento com o nome '%s'", req.Nome)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	med := &model.Medicamento{
		Nome:              req.Nome,
		Descricao:         req.Descricao,
		Preco:             req.Preco,
		QuantidadeEstoque: req.QuantidadeEstoque,
		Validade:          &validade,
		Ativo:             true,
		CategoriaID:       categoriaID,
	}
	if err := s.repo.Create(ctx, med); err != nil {
		return nil, err
	}

	if err := s.salvarImagens(ctx, med.ID, imagens); err != nil {
		return nil, err
	}

	// O novo medicamento pode nascer abaixo do limite de estoque.
	if err := s.alertas.GerarAlertas(ctx); err != nil {
		log.Warn().Err(err).Msg("medicamento: falha na geração de alertas após criação")
	}

	s.logs.Registrar(ctx, ator, model.LogCreate, "MEDICAMENTO", &med.ID,
		"Medicamento criado: "+med.Nome,
		map[string]interface{}{"quantidade_estoque": med.QuantidadeEstoque})

	return s.FindByID(ctx, med.ID)
}

func (s *medicamentoService) Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.MedicamentoUpdateRequest, imagens []ImagemUpload) (*dto.MedicamentoResponse, error) {
	med, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	validade, err := parseValidade(req.Validade)
	if err != nil {
		return nil, err
	}

	categoriaID, err := uuid.Parse(req.CategoriaID)
	if err != nil {
		return nil, BusinessRulef("ID de categoria inválido: %s", req.CategoriaID)
	}
	if _, err := s.catRepo.FindByID(ctx, categoriaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Categoria não encontrada com ID: %s", categoriaID)
		}
		return nil, err
	}

	if req.Nome != med.Nome {
		existing, err := s.repo.FindByNome(ctx, req.Nome)
		switch {
		case err == nil && existing != nil && existing.ID != id:
			return nil, Conflictf("Já existe um medicamento com o nome '%s'", req.Nome)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	med.Nome = req.Nome
	med.Descricao = req.Descricao
	med.Preco = req.Preco
	med.Validade = &validade
	med.CategoriaID = categoriaID
	med.Categoria = nil
	med.Imagens = nil
	if err := s.repo.Update(ctx, med); err != nil {
		return nil, err
	}

	// Trocar imagens só quando o cliente enviou novas.
	if len(imagens) > 0 {
		if err := s.imagens.RemoveAll(id); err != nil {
			log.Warn().Err(err).Str("medicamento_id", id.String()).
				Msg("medicamento: falha ao remover imagens antigas")
		}
		if err := s.repo.DeleteImagens(ctx, id); err != nil {
			return nil, err
		}
		if err := s.salvarImagens(ctx, id, imagens); err != nil {
			return nil, err
		}
	}

	// A validade pode ter mudado; a mensagem dos alertas também.
	if err := s.alertas.GerarAlertas(ctx); err != nil {
		log.Warn().Err(err).Msg("medicamento: falha na geração de alertas após atualização")
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "MEDICAMENTO", &id,
		"Medicamento atualizado: "+med.Nome, nil)

	return s.FindByID(ctx, id)
}

// AtualizarStatus inativa ou reativa. Inativar marca os alertas como lidos
// (ficam no histórico); reativar apaga os alertas antigos e reavalia o estado
// atual do zero.
func (s *medicamentoService) AtualizarStatus(ctx context.Context, ator Identity, id uuid.UUID, ativo bool) (*dto.MedicamentoResponse, error) {
	med, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, ativo); err != nil {
		return nil, err
	}

	if ativo {
		if err := s.alertas.RemoverTodosDoMedicamento(ctx, id); err != nil {
			return nil, err
		}
		if err := s.alertas.GerarAlertas(ctx); err != nil {
			log.Warn().Err(err).Msg("medicamento: falha na geração de alertas após reativação")
		}
	} else {
		if err := s.alertas.MarcarTodosComoLidos(ctx, id); err != nil {
			return nil, err
		}
	}

	acao := "inativado"
	if ativo {
		acao = "reativado"
	}
	s.logs.Registrar(ctx, ator, model.LogUpdate, "MEDICAMENTO", &id,
		"Medicamento "+acao+": "+med.Nome, nil)

	return s.FindByID(ctx, id)
}

func (s *medicamentoService) Excluir(ctx context.Context, ator Identity, id uuid.UUID) error {
	med, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}

	temVendas, err := s.vendaRepo.ExistsItemPorMedicamento(ctx, id)
	if err != nil {
		return err
	}
	if temVendas {
		return BusinessRulef(
			"O medicamento '%s' possui vendas registradas e não pode ser excluído. Recomenda-se inativá-lo.",
			med.Nome)
	}

	if err := s.alertas.RemoverTodosDoMedicamento(ctx, id); err != nil {
		return err
	}
	if err := s.imagens.RemoveAll(id); err != nil {
		log.Warn().Err(err).Str("medicamento_id", id.String()).
			Msg("medicamento: falha ao remover imagens na exclusão")
	}
	if err := s.repo.DeleteImagens(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logs.Registrar(ctx, ator, model.LogDelete, "MEDICAMENTO", &id,
		"Medicamento excluído: "+med.Nome, nil)
	return nil
}

func (s *medicamentoService) FindByID(ctx context.Context, id uuid.UUID) (*dto.MedicamentoResponse, error) {
	med, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := medicamentoToResponse(med)
	return &resp, nil
}

func (s *medicamentoService) List(ctx context.Context, filter dto.MedicamentoFilter) (*dto.MedicamentoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	medicamentos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MedicamentoResponse, 0, len(medicamentos))
	for i := range medicamentos {
		data = append(data, medicamentoToResponse(&medicamentos[i]))
	}
	return &dto.MedicamentoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *medicamentoService) buscar(ctx context.Context, id uuid.UUID) (*model.Medicamento, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Medicamento não encontrado com ID: %s", id)
		}
		return nil, err
	}
	return med, nil
}

func (s *medicamentoService) salvarImagens(ctx context.Context, medicamentoID uuid.UUID, imagens []ImagemUpload) error {
	registros := make([]model.MedicamentoImagem, 0, len(imagens))
	for _, img := range imagens {
		url, err := s.imagens.Save(medicamentoID, img.Filename, img.Data)
		if err != nil {
			return err
		}
		registros = append(registros, model.MedicamentoImagem{MedicamentoID: medicamentoID, URL: url})
	}
	return s.repo.AddImagens(ctx, registros)
}

func (s *medicamentoService) parseValidadeFutura(raw string) (time.Time, error) {
	validade, err := parseValidade(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !validade.After(s.clock.Today()) {
		return time.Time{}, BusinessRulef("A data de validade deve ser uma data futura")
	}
	return validade, nil
}

func parseValidade(raw string) (time.Time, error) {
	validade, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, BusinessRulef("Data de validade inválida: %s (formato esperado: AAAA-MM-DD)", raw)
	}
	return validade, nil
}

func medicamentoToResponse(m *model.Medicamento) dto.MedicamentoResponse {
	resp := dto.MedicamentoResponse{
		ID:                m.ID.String(),
		Nome:              m.Nome,
		Descricao:         m.Descricao,
		Preco:             m.Preco,
		QuantidadeEstoque: m.QuantidadeEstoque,
		Ativo:             m.Ativo,
		CategoriaID:       m.CategoriaID.String(),
		Imagens:           make([]string, 0, len(m.Imagens)),
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
	}
	if m.Validade != nil {
		v := m.Validade.Format("2006-01-02")
		resp.Validade = &v
	}
	if m.Categoria != nil {
		resp.CategoriaNome = m.Categoria.Nome
	}
	for _, img := range m.Imagens {
		resp.Imagens = append(resp.Imagens, img.URL)
	}
	return resp
}
