package repository

import (
	"context"

	"tgshop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（external_id重複はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	//chat idからユーザーを一件取得する。
	FindByExternalID(ctx context.Context, externalID int64) (*model.User, error)
	//表示名だけ更新
	UpdateDisplayName(ctx context.Context, userID int64, name string) error
}
