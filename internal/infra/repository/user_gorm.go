package repository

import (
	"context"

	"tgshop/internal/domain/model"
	domainrepo "tgshop/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// chat idでユーザーを1件取得
func (r *userGormRepository) FindByExternalID(ctx context.Context, externalID int64) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&u).Error

	if err != nil {
		return nil, mapError(err)
	}

	return &u, nil
}

// 表示名を更新。
func (r *userGormRepository) UpdateDisplayName(ctx context.Context, userID int64, name string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("display_name", name)

	if res.Error != nil {
		return res.Error
	}

	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}
