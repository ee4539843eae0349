package repository

import (
	"context"

	"farmacia/internal/dto"
	"farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venda) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error)
	List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error)
	FindByClienteID(ctx context.Context, clienteID uuid.UUID) ([]model.Venda, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	// ExistsItemPorMedicamento: vendas antigas bloqueiam a exclusão física do
	// medicamento (os itens congelam o histórico).
	ExistsItemPorMedicamento(ctx context.Context, medicamentoID uuid.UUID) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type vendaRepo struct{ db *gorm.DB }

func NewVendaRepository(db *gorm.DB) VendaRepository { return &vendaRepo{db: db} }

func (r *vendaRepo) DB() *gorm.DB { return r.db }

func (r *vendaRepo) CreateTx(tx *gorm.DB, v *model.Venda) error {
	return tx.Create(v).Error
}

func (r *vendaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venda, error) {
	var v model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").First(&v, id).Error
	return &v, err
}

func (r *vendaRepo) List(ctx context.Context, filter dto.VendaFilter) ([]model.Venda, int64, error) {
	var vendas []model.Venda
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venda{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Itens").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&vendas).Error

	return vendas, total, err
}

func (r *vendaRepo) FindByClienteID(ctx context.Context, clienteID uuid.UUID) ([]model.Venda, error) {
	var vendas []model.Venda
	err := r.db.WithContext(ctx).Preload("Itens").
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&vendas).Error
	return vendas, err
}

func (r *vendaRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Venda{}).Where("id = ?", id).Update("status", status).Error
}

func (r *vendaRepo) ExistsItemPorMedicamento(ctx context.Context, medicamentoID uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.ItemVenda{}).
		Where("medicamento_id = ?", medicamentoID).
		Count(&total).Error
	return total > 0, err
}
