package repository

import (
	"context"
	"time"

	"farmacia/internal/dto"
	"farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicamentoRepository defines the data access contract for medicines.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MedicamentoRepository interface {
	Create(ctx context.Context, m *model.Medicamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Medicamento, error)
	FindByNome(ctx context.Context, nome string) (*model.Medicamento, error)
	List(ctx context.Context, filter dto.MedicamentoFilter) ([]model.Medicamento, int64, error)
	FindAtivos(ctx context.Context) ([]model.Medicamento, error)
	// FindAtivosComValidadeAte: ativos com validade não nula <= limite.
	FindAtivosComValidadeAte(ctx context.Context, limite time.Time) ([]model.Medicamento, error)
	// FindAtivosVencidos: ativos com validade não nula < hoje.
	FindAtivosVencidos(ctx context.Context, hoje time.Time) ([]model.Medicamento, error)
	Update(ctx context.Context, m *model.Medicamento) error
	UpdateStatus(ctx context.Context, id uuid.UUID, ativo bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error)
	AddImagens(ctx context.Context, imagens []model.MedicamentoImagem) error
	DeleteImagens(ctx context.Context, medicamentoID uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdateTx takes a SELECT ... FOR UPDATE row lock so that
	// concurrent adjustments on the same medicine serialize.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Medicamento, error)
	UpdateEstoqueTx(tx *gorm.DB, id uuid.UUID, novaQuantidade int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type medicamentoRepo struct{ db *gorm.DB }

func NewMedicamentoRepository(db *gorm.DB) MedicamentoRepository { return &medicamentoRepo{db: db} }

func (r *medicamentoRepo) Create(ctx context.Context, m *model.Medicamento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *medicamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Medicamento, error) {
	var m model.Medicamento
	err := r.db.WithContext(ctx).Preload("Categoria").Preload("Imagens").First(&m, id).Error
	return &m, err
}

func (r *medicamentoRepo) FindByNome(ctx context.Context, nome string) (*model.Medicamento, error) {
	var m model.Medicamento
	err := r.db.WithContext(ctx).Where("lower(nome) = lower(?)", nome).First(&m).Error
	return &m, err
}

func (r *medicamentoRepo) List(ctx context.Context, filter dto.MedicamentoFilter) ([]model.Medicamento, int64, error) {
	var medicamentos []model.Medicamento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Medicamento{})

	// Ativo filter: "false" = inativos, "all" = todos, anything else = ativos (default)
	switch filter.Ativo {
	case "false":
		q = q.Where("ativo = false")
	case "all":
		// no filter
	default:
		q = q.Where("ativo = true")
	}

	if filter.Nome != "" {
		q = q.Where("nome ILIKE ?", "%"+filter.Nome+"%")
	}
	if filter.CategoriaID != "" {
		q = q.Where("categoria_id = ?", filter.CategoriaID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Categoria").Preload("Imagens").
		Order("nome ASC").Limit(filter.Limit).Offset(offset).
		Find(&medicamentos).Error
	return medicamentos, total, err
}

func (r *medicamentoRepo) FindAtivos(ctx context.Context) ([]model.Medicamento, error) {
	var medicamentos []model.Medicamento
	err := r.db.WithContext(ctx).Where("ativo = true").Find(&medicamentos).Error
	return medicamentos, err
}

func (r *medicamentoRepo) FindAtivosComValidadeAte(ctx context.Context, limite time.Time) ([]model.Medicamento, error) {
	var medicamentos []model.Medicamento
	err := r.db.WithContext(ctx).
		Where("ativo = true AND validade IS NOT NULL AND validade <= ?", limite).
		Find(&medicamentos).Error
	return medicamentos, err
}

func (r *medicamentoRepo) FindAtivosVencidos(ctx context.Context, hoje time.Time) ([]model.Medicamento, error) {
	var medicamentos []model.Medicamento
	err := r.db.WithContext(ctx).
		Where("ativo = true AND validade IS NOT NULL AND validade < ?", hoje).
		Find(&medicamentos).Error
	return medicamentos, err
}

func (r *medicamentoRepo) Update(ctx context.Context, m *model.Medicamento) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *medicamentoRepo) UpdateStatus(ctx context.Context, id uuid.UUID, ativo bool) error {
	return r.db.WithContext(ctx).Model(&model.Medicamento{}).Where("id = ?", id).Update("ativo", ativo).Error
}

func (r *medicamentoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Medicamento{}, id).Error
}

func (r *medicamentoRepo) CountByCategoria(ctx context.Context, categoriaID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Medicamento{}).
		Where("categoria_id = ?", categoriaID).Count(&total).Error
	return total, err
}

func (r *medicamentoRepo) AddImagens(ctx context.Context, imagens []model.MedicamentoImagem) error {
	if len(imagens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&imagens).Error
}

func (r *medicamentoRepo) DeleteImagens(ctx context.Context, medicamentoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("medicamento_id = ?", medicamentoID).
		Delete(&model.MedicamentoImagem{}).Error
}

func (r *medicamentoRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Medicamento, error) {
	var m model.Medicamento
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	return &m, err
}

func (r *medicamentoRepo) UpdateEstoqueTx(tx *gorm.DB, id uuid.UUID, novaQuantidade int) error {
	return tx.Model(&model.Medicamento{}).Where("id = ?", id).
		Update("quantidade_estoque", novaQuantidade).Error
}

func (r *medicamentoRepo) DB() *gorm.DB { return r.db }
