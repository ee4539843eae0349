package repository

import (
	"context"

	"farmacia/internal/dto"
	"farmacia/internal/model"

	"gorm.io/gorm"
)

type LogRepository interface {
	Create(ctx context.Context, l *model.Log) error
	List(ctx context.Context, filter dto.LogFilter) ([]model.Log, int64, error)
}

type logRepo struct{ db *gorm.DB }

func NewLogRepository(db *gorm.DB) LogRepository { return &logRepo{db: db} }

func (r *logRepo) Create(ctx context.Context, l *model.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *logRepo) List(ctx context.Context, filter dto.LogFilter) ([]model.Log, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Log{})
	if filter.TipoOperacao != "" {
		q = q.Where("tipo_operacao = ?", filter.TipoOperacao)
	}
	if filter.TipoEntidade != "" {
		q = q.Where("tipo_entidade = ?", filter.TipoEntidade)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var logs []model.Log
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&logs).Error
	return logs, total, err
}
