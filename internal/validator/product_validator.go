package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"tgshop/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// 管理画面の商品フォーム（旧フォームのname/price_rubも受ける）
type ProductForm struct {
	SKU         string `form:"sku" validate:"required,max=32,sku"`
	Title       string `form:"title" validate:"required,max=120"`
	Name        string `form:"name" validate:"-"`
	Description string `form:"description" validate:"max=2000"`
	Price       string `form:"price" validate:"required"`
	PriceRub    string `form:"price_rub" validate:"-"`
	Stock       string `form:"stock"`
	IsActive    string `form:"is_active"`
}

// 入力エラーをまとめて返す（画面にそのまま出す）
type FormError struct {
	Messages []string
}

func (e *FormError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *FormError) Unwrap() error {
	return usecase.ErrInvalidInput
}

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type ProductValidator struct {
	v *validator.Validate
}

func NewProductValidator() *ProductValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// エラーのフィールド名はformタグ名で出す
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("sku", func(fl validator.FieldLevel) bool {
		return skuPattern.MatchString(fl.Field().String())
	})
	return &ProductValidator{v: v}
}

// Validate normalizes the form and converts it to a usecase input.
// When requireSKU is false (edits) the sku field is ignored.
func (pv *ProductValidator) Validate(form ProductForm, requireSKU bool) (usecase.ProductInput, error) {
	form.SKU = strings.TrimSpace(form.SKU)
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		form.Title = strings.TrimSpace(form.Name)
	}
	form.Price = strings.TrimSpace(form.Price)
	if form.Price == "" {
		form.Price = strings.TrimSpace(form.PriceRub)
	}

	var err error
	if requireSKU {
		err = pv.v.Struct(form)
	} else {
		err = pv.v.StructExcept(form, "SKU")
	}

	var msgs []string
	if ves, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ves {
			msgs = append(msgs, fieldMessage(fe))
		}
	} else if err != nil {
		return usecase.ProductInput{}, err
	}

	price, perr := ParsePrice(form.Price)
	if perr != nil && form.Price != "" {
		msgs = append(msgs, perr.Error())
	}
	stock, serr := ParseStock(form.Stock)
	if serr != nil {
		msgs = append(msgs, serr.Error())
	}

	if len(msgs) > 0 {
		return usecase.ProductInput{}, &FormError{Messages: msgs}
	}

	return usecase.ProductInput{
		SKU:         form.SKU,
		Title:       form.Title,
		Description: strings.TrimSpace(form.Description),
		Price:       price,
		Stock:       stock,
		IsActive:    ParseCheckbox(form.IsActive),
	}, nil
}

// "1 299,50" のような入力も受ける。負数と小数3桁以上は不可
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price: must be a number")
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price: must be >= 0")
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, fmt.Errorf("price: at most 2 decimal places")
	}
	return d.Round(2), nil
}

// 空なら在庫管理しない（nil）
func ParseStock(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("stock: must be a whole number")
	}
	if n < 0 {
		return nil, fmt.Errorf("stock: must be >= 0")
	}
	return &n, nil
}

func ParseCheckbox(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "1", "true", "yes":
		return true
	default:
		return false
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + ": required"
	case "max":
		return fmt.Sprintf("%s: at most %s characters", fe.Field(), fe.Param())
	case "sku":
		return fe.Field() + ": only letters, digits, '-' and '_'"
	default:
		return fe.Field() + ": invalid value"
	}
}
