package usecase

import (
	"errors"
	"fmt"
)

// フロント（bot/web）がerrors.Isで判定するエラー
var (
	ErrUnknownUser       = errors.New("unknown user")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorage           = errors.New("storage error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateSKU      = errors.New("duplicate sku")
)

var domainErrors = []error{
	ErrUnknownUser,
	ErrUnknownProduct,
	ErrInvalidQuantity,
	ErrInsufficientStock,
	ErrStorage,
	ErrNotFound,
	ErrInvalidInput,
	ErrDuplicateSKU,
}

// DBの生エラーをErrStorageで包む（原因はメッセージに残す）
func storageErr(err error) error {
	if err == nil || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

// Tx内から返ってきたエラーを分類する。知らないものはすべてErrStorage
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return err
		}
	}
	return storageErr(err)
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
