package repository

import (
	"context"

	"tgshop/internal/domain/model"
	repo "tgshop/internal/repository"

	"gorm.io/gorm"
)

type aiLogGormRepository struct {
	db *gorm.DB
}

func NewAiLogGormRepository(db *gorm.DB) repo.AiLogRepository {
	return &aiLogGormRepository{db: db}
}

func (r *aiLogGormRepository) Create(ctx context.Context, log model.AiLog) error {
	if err := r.db.WithContext(ctx).Create(&log).Error; err != nil {
		return err
	}
	return nil
}

func (r *aiLogGormRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AiLog, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var logs []model.AiLog
	if err := q.Find(&logs).Error; err != nil {
		return []model.AiLog{}, err
	}
	return logs, nil
}
