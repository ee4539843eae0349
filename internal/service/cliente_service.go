package service

import (
	"context"
	"errors"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Criar(ctx context.Context, ator Identity, req dto.ClienteCreateRequest) (*dto.ClienteResponse, error)
	Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.ClienteUpdateRequest) (*dto.ClienteResponse, error)
	Excluir(ctx context.Context, ator Identity, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	List(ctx context.Context) ([]dto.ClienteResponse, error)
}

type clienteService struct {
	repo      repository.ClienteRepository
	vendaRepo repository.VendaRepository
	logs      LogService
}

func NewClienteService(repo repository.ClienteRepository, vendaRepo repository.VendaRepository, logs LogService) ClienteService {
	return &clienteService{repo: repo, vendaRepo: vendaRepo, logs: logs}
}

func (s *clienteService) Criar(ctx context.Context, ator Identity, req dto.ClienteCreateRequest) (*dto.ClienteResponse, error) {
	if existing, err := s.repo.FindByCPF(ctx, req.CPF); err == nil && existing != nil {
		return nil, Conflictf("Já existe um cliente com o CPF '%s'", req.CPF)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	nascimento, err := parseDataNascimento(req.DataNascimento)
	if err != nil {
		return nil, err
	}

	cliente := &model.Cliente{
		Nome:           req.Nome,
		CPF:            req.CPF,
		Email:          req.Email,
		Telefone:       req.Telefone,
		DataNascimento: nascimento,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}

	s.logs.Registrar(ctx, ator, model.LogCreate, "CLIENTE", &cliente.ID,
		"Cliente criado: "+cliente.Nome, nil)

	resp := clienteToResponse(cliente)
	return &resp, nil
}

func (s *clienteService) Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.ClienteUpdateRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	nascimento, err := parseDataNascimento(req.DataNascimento)
	if err != nil {
		return nil, err
	}

	cliente.Nome = req.Nome
	cliente.Email = req.Email
	cliente.Telefone = req.Telefone
	cliente.DataNascimento = nascimento
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "CLIENTE", &id,
		"Cliente atualizado: "+cliente.Nome, nil)

	resp := clienteToResponse(cliente)
	return &resp, nil
}

// Excluir falha enquanto o cliente tiver vendas: os registros de venda
// referenciam o cliente e congelam o histórico.
func (s *clienteService) Excluir(ctx context.Context, ator Identity, id uuid.UUID) error {
	cliente, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}

	vendas, err := s.vendaRepo.FindByClienteID(ctx, id)
	if err != nil {
		return err
	}
	if len(vendas) > 0 {
		return BusinessRulef("O cliente '%s' possui %d venda(s) registrada(s) e não pode ser excluído",
			cliente.Nome, len(vendas))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logs.Registrar(ctx, ator, model.LogDelete, "CLIENTE", &id,
		"Cliente excluído: "+cliente.Nome, nil)
	return nil
}

func (s *clienteService) FindByID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := clienteToResponse(cliente)
	return &resp, nil
}

func (s *clienteService) List(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		result = append(result, clienteToResponse(&clientes[i]))
	}
	return result, nil
}

func (s *clienteService) buscar(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Cliente não encontrado com ID: %s", id)
		}
		return nil, err
	}
	return cliente, nil
}

func parseDataNascimento(raw string) (time.Time, error) {
	nascimento, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, BusinessRulef("Data de nascimento inválida: %s (formato esperado: AAAA-MM-DD)", raw)
	}
	return nascimento, nil
}

func clienteToResponse(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:             c.ID.String(),
		Nome:           c.Nome,
		CPF:            c.CPF,
		Email:          c.Email,
		Telefone:       c.Telefone,
		DataNascimento: c.DataNascimento.Format("2006-01-02"),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
