package repository

import (
	"context"

	"farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimentacaoFilter defines filters for listing stock movements.
type MovimentacaoFilter struct {
	MedicamentoID *uuid.UUID
	Tipo          string
	Page          int
	Limit         int
}

// MovimentacaoEstoqueRepository escreve no livro-razão de estoque.
// O livro é append-only: não há Update nem Delete.
type MovimentacaoEstoqueRepository interface {
	Create(ctx context.Context, m *model.MovimentacaoEstoque) error
	CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error
	List(ctx context.Context, filter MovimentacaoFilter) ([]model.MovimentacaoEstoque, int64, error)
}

type movimentacaoEstoqueRepo struct{ db *gorm.DB }

func NewMovimentacaoEstoqueRepository(db *gorm.DB) MovimentacaoEstoqueRepository {
	return &movimentacaoEstoqueRepo{db: db}
}

func (r *movimentacaoEstoqueRepo) Create(ctx context.Context, m *model.MovimentacaoEstoque) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimentacaoEstoqueRepo) CreateTx(tx *gorm.DB, m *model.MovimentacaoEstoque) error {
	return tx.Create(m).Error
}

func (r *movimentacaoEstoqueRepo) List(ctx context.Context, filter MovimentacaoFilter) ([]model.MovimentacaoEstoque, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimentacaoEstoque{})
	if filter.MedicamentoID != nil {
		q = q.Where("medicamento_id = ?", *filter.MedicamentoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimentacoes []model.MovimentacaoEstoque
	err := q.Order("data DESC").Offset(offset).Limit(limit).Find(&movimentacoes).Error
	return movimentacoes, total, err
}
