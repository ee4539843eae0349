package service

import (
	"context"
	"errors"

	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for medicine categories.
type CategoriaService interface {
	Criar(ctx context.Context, ator Identity, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Excluir(ctx context.Context, ator Identity, id uuid.UUID) error
}

type categoriaService struct {
	repo    repository.CategoriaRepository
	medRepo repository.MedicamentoRepository
	logs    LogService
}

func NewCategoriaService(repo repository.CategoriaRepository, medRepo repository.MedicamentoRepository, logs LogService) CategoriaService {
	return &categoriaService{repo: repo, medRepo: medRepo, logs: logs}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:        c.ID,
		Nome:      c.Nome,
		Descricao: c.Descricao,
	}
}

func (s *categoriaService) Criar(ctx context.Context, ator Identity, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error) {
	// Check for duplicate name
	existing, err := s.repo.FindByNome(ctx, req.Nome)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, Conflictf("Já existe uma categoria com o nome '%s'", req.Nome)
	}

	c := &model.Categoria{
		Nome:      req.Nome,
		Descricao: req.Descricao,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}

	s.logs.Registrar(ctx, ator, model.LogCreate, "CATEGORIA", &c.ID,
		"Categoria criada: "+c.Nome, nil)

	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, ator Identity, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, NotFoundf("Categoria não encontrada com ID: %s", id)
		}
		return dto.CategoriaResponse{}, err
	}

	if req.Nome != nil {
		// Check uniqueness only if the name is changing
		if *req.Nome != c.Nome {
			existing, err := s.repo.FindByNome(ctx, *req.Nome)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoriaResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoriaResponse{}, Conflictf("Já existe uma categoria com o nome '%s'", *req.Nome)
			}
		}
		c.Nome = *req.Nome
	}
	if req.Descricao != nil {
		c.Descricao = req.Descricao
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}

	s.logs.Registrar(ctx, ator, model.LogUpdate, "CATEGORIA", &c.ID,
		"Categoria atualizada: "+c.Nome, nil)

	return mapCategoria(*c), nil
}

func (s *categoriaService) Excluir(ctx context.Context, ator Identity, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundf("Categoria não encontrada com ID: %s", id)
		}
		return err
	}

	total, err := s.medRepo.CountByCategoria(ctx, id)
	if err != nil {
		return err
	}
	if total > 0 {
		return BusinessRulef("A categoria '%s' possui %d medicamento(s) e não pode ser excluída", c.Nome, total)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logs.Registrar(ctx, ator, model.LogDelete, "CATEGORIA", &id,
		"Categoria excluída: "+c.Nome, nil)
	return nil
}
