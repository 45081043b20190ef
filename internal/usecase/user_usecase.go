package usecase

import (
	"context"
	"errors"
	"strings"

	"tgshop/internal/domain/model"
	repo "tgshop/internal/repository"
)

type UserUsecase struct {
	users repo.UserRepository
}

// DI
func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

// EnsureUser registers externalID on first contact and returns the stored user.
// A non-empty displayName that differs from the stored one replaces it.
func (u *UserUsecase) EnsureUser(ctx context.Context, externalID int64, displayName string) (model.User, error) {
	if externalID == 0 {
		return model.User{}, invalidInput("external id is required")
	}
	name := strings.TrimSpace(displayName)

	existing, err := u.users.FindByExternalID(ctx, externalID)
	if err == nil {
		return u.refreshName(ctx, *existing, name)
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.User{}, storageErr(err)
	}

	created := &model.User{ExternalID: externalID, DisplayName: name}
	err = u.users.Create(ctx, created)
	if errors.Is(err, repo.ErrDuplicate) {
		//同時に/startされた：勝った方を読み直す
		again, err := u.users.FindByExternalID(ctx, externalID)
		if err != nil {
			return model.User{}, storageErr(err)
		}
		return u.refreshName(ctx, *again, name)
	}
	if err != nil {
		return model.User{}, storageErr(err)
	}
	return *created, nil
}

func (u *UserUsecase) refreshName(ctx context.Context, user model.User, name string) (model.User, error) {
	if name == "" || name == user.DisplayName {
		return user, nil
	}
	if err := u.users.UpdateDisplayName(ctx, user.ID, name); err != nil {
		return model.User{}, storageErr(err)
	}
	user.DisplayName = name
	return user, nil
}
