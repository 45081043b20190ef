package usecase_test

import (
	"testing"

	"tgshop/internal/infra/db/dbtest"
	infraRepo "tgshop/internal/infra/repository"
	"tgshop/internal/usecase"

	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	users     *usecase.UserUsecase
	catalog   *usecase.CatalogUsecase
	orders    *usecase.OrderUsecase
	assistant *usecase.AssistantUsecase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.Open(t)

	userRepo := infraRepo.NewUserGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)

	return fixture{
		db:      gdb,
		users:   usecase.NewUserUsecase(userRepo),
		catalog: usecase.NewCatalogUsecase(productRepo, 20),
		orders: usecase.NewOrderUsecase(
			infraRepo.NewTxManagerGorm(gdb),
			userRepo,
			infraRepo.NewOrderGormRepository(gdb),
			infraRepo.NewOrderItemGormRepository(gdb),
			5,
		),
		assistant: usecase.NewAssistantUsecase(userRepo, productRepo, infraRepo.NewAiLogGormRepository(gdb), 3),
	}
}

func count(t *testing.T, gdb *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := gdb.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
