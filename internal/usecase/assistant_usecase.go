package usecase

import (
	"context"
	"errors"

	"tgshop/internal/assistant"
	"tgshop/internal/domain/model"
	repo "tgshop/internal/repository"
)

type AssistantUsecase struct {
	users       repo.UserRepository
	products    repo.ProductRepository
	aiLogs      repo.AiLogRepository
	suggestions int
}

func NewAssistantUsecase(users repo.UserRepository, products repo.ProductRepository, aiLogs repo.AiLogRepository, suggestions int) *AssistantUsecase {
	if suggestions < 1 {
		suggestions = 3
	}
	return &AssistantUsecase{users: users, products: products, aiLogs: aiLogs, suggestions: suggestions}
}

// HandleAIRequest answers with a canned reply and appends one AiLog.
func (u *AssistantUsecase) HandleAIRequest(ctx context.Context, externalID int64, inputText string) (string, error) {
	user, err := u.users.FindByExternalID(ctx, externalID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrUnknownUser
	}
	if err != nil {
		return "", storageErr(err)
	}

	products, err := u.products.ListActive(ctx, u.suggestions)
	if err != nil {
		return "", storageErr(err)
	}

	out := assistant.Reply(inputText, products)

	//ログは必ず1件残す
	if err := u.aiLogs.Create(ctx, model.AiLog{
		UserID:     user.ID,
		InputText:  inputText,
		OutputText: out,
	}); err != nil {
		return "", storageErr(err)
	}
	return out, nil
}

func (u *AssistantUsecase) RecentLogs(ctx context.Context, externalID int64, limit int) ([]model.AiLog, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	user, err := u.users.FindByExternalID(ctx, externalID)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.AiLog{}, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}

	logs, err := u.aiLogs.ListByUserID(ctx, user.ID, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return logs, nil
}
