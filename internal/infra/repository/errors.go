package repository

import (
	"errors"
	"strings"

	repo "tgshop/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres unique_violation
const pgUniqueViolation = "23505"

// ドライバごとの一意制約違反をまとめて判定する
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	// sqlite（TranslateError無効時）
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// gormのエラーをrepositoryのエラーに寄せる
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case isDuplicateKey(err):
		return repo.ErrDuplicate
	default:
		return err
	}
}
