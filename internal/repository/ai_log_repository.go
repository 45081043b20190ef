package repository

import (
	"context"

	"tgshop/internal/domain/model"
)

// AIログの保存・一覧取得の約束。
type AiLogRepository interface {
	//1件追記
	Create(ctx context.Context, log model.AiLog) error

	//ユーザーの直近ログ（新しい順）
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.AiLog, error)
}
