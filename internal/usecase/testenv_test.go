package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sklad/internal/domain/model"
	"sklad/internal/infra/db"
	infraRepo "sklad/internal/infra/repository"
)

type testEnv struct {
	db          *gorm.DB
	items       *infraRepo.ItemGormRepository
	stock       *infraRepo.StockGormRepository
	users       *infraRepo.UserGormRepository
	workshops   *infraRepo.WorkshopGormRepository
	assignments *infraRepo.AssignmentGormRepository
	tx          *infraRepo.TxManagerGorm
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "sklad_test.db") + "?_pragma=busy_timeout(10000)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	return &testEnv{
		db:          gdb,
		items:       infraRepo.NewItemGormRepository(gdb),
		stock:       infraRepo.NewStockGormRepository(gdb),
		users:       infraRepo.NewUserGormRepository(gdb),
		workshops:   infraRepo.NewWorkshopGormRepository(gdb),
		assignments: infraRepo.NewAssignmentGormRepository(gdb),
		tx:          infraRepo.NewTxManagerGorm(gdb),
	}
}

func (e *testEnv) seedItem(t *testing.T, workshopID *uuid.UUID, name string, price string) model.Item {
	t.Helper()
	var p *decimal.Decimal
	if price != "" {
		d := decimal.RequireFromString(price)
		p = &d
	}
	item, err := e.items.Create(context.Background(), model.Item{
		WorkshopID: workshopID,
		Name:       name,
		Price:      p,
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) seedStock(t *testing.T, itemID uuid.UUID, sizeLabel string, qty int64) model.SizeQuantity {
	t.Helper()
	ctx := context.Background()
	size, err := e.stock.GetOrCreateSize(ctx, itemID, sizeLabel)
	require.NoError(t, err)
	if qty != 0 {
		size, err = e.stock.AdjustQuantity(ctx, size.ID, qty)
		require.NoError(t, err)
	}
	return size
}

func (e *testEnv) quantity(t *testing.T, itemID uuid.UUID, sizeID uuid.UUID) int64 {
	t.Helper()
	size, err := e.stock.FindSize(context.Background(), itemID, sizeID)
	require.NoError(t, err)
	return size.Quantity
}

func httpCode(t *testing.T, err error) string {
	t.Helper()
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected *HTTPError, got %v", err)
	return he.Code
}
