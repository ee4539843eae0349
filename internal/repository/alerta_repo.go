package repository

import (
	"context"

	"farmacia/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	Create(ctx context.Context, a *model.Alerta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Alerta, error)
	FindAll(ctx context.Context) ([]model.Alerta, error)
	FindNaoLidos(ctx context.Context) ([]model.Alerta, error)
	// FindNaoLidosPorTipo alimenta os painéis por tipo: só alertas não lidos
	// aparecem neles.
	FindNaoLidosPorTipo(ctx context.Context, tipo string) ([]model.Alerta, error)
	// ExistsNaoLido: um alerta não lido do mesmo tipo bloqueia a criação de
	// um novo para o mesmo medicamento.
	ExistsNaoLido(ctx context.Context, medicamentoID uuid.UUID, tipo string) (bool, error)
	Update(ctx context.Context, a *model.Alerta) error
	MarcarLidosPorMedicamento(ctx context.Context, medicamentoID uuid.UUID) error
	MarcarLidosPorMedicamentoETipo(ctx context.Context, medicamentoID uuid.UUID, tipo string) error
	DeleteByMedicamento(ctx context.Context, medicamentoID uuid.UUID) error
	CountNaoLidos(ctx context.Context) (int64, error)
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) Create(ctx context.Context, a *model.Alerta) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Alerta, error) {
	var a model.Alerta
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *alertaRepo) FindAll(ctx context.Context) ([]model.Alerta, error) {
	var alertas []model.Alerta
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) FindNaoLidos(ctx context.Context) ([]model.Alerta, error) {
	var alertas []model.Alerta
	err := r.db.WithContext(ctx).Where("lido = false").Order("created_at DESC").Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) FindNaoLidosPorTipo(ctx context.Context, tipo string) ([]model.Alerta, error) {
	var alertas []model.Alerta
	err := r.db.WithContext(ctx).Where("tipo = ? AND lido = false", tipo).Order("created_at DESC").Find(&alertas).Error
	return alertas, err
}

func (r *alertaRepo) ExistsNaoLido(ctx context.Context, medicamentoID uuid.UUID, tipo string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("medicamento_id = ? AND tipo = ? AND lido = false", medicamentoID, tipo).
		Count(&total).Error
	return total > 0, err
}

func (r *alertaRepo) Update(ctx context.Context, a *model.Alerta) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *alertaRepo) MarcarLidosPorMedicamento(ctx context.Context, medicamentoID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("medicamento_id = ? AND lido = false", medicamentoID).
		Update("lido", true).Error
}

func (r *alertaRepo) MarcarLidosPorMedicamentoETipo(ctx context.Context, medicamentoID uuid.UUID, tipo string) error {
	return r.db.WithContext(ctx).Model(&model.Alerta{}).
		Where("medicamento_id = ? AND tipo = ? AND lido = false", medicamentoID, tipo).
		Update("lido", true).Error
}

func (r *alertaRepo) DeleteByMedicamento(ctx context.Context, medicamentoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("medicamento_id = ?", medicamentoID).
		Delete(&model.Alerta{}).Error
}

func (r *alertaRepo) CountNaoLidos(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Alerta{}).Where("lido = false").Count(&total).Error
	return total, err
}
