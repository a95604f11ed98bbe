package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

func createTestItem(t *testing.T, items *ItemGormRepository, workshopID *uuid.UUID, name string) model.Item {
	t.Helper()
	item, err := items.Create(context.Background(), model.Item{
		WorkshopID: workshopID,
		Name:       name,
	})
	require.NoError(t, err)
	return item
}

func TestGetOrCreateSize(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")

	first, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.Quantity)

	// 既存行がそのまま返る
	again, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := stock.GetOrCreateSize(ctx, item.ID, "L")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestGetOrCreateSizeConcurrent(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			size, err := stock.GetOrCreateSize(ctx, item.ID, "M")
			if assert.NoError(t, err) {
				ids[i] = size.ID
			}
		}(i)
	}
	wg.Wait()

	// 同時に作りに来ても行は1つだけ
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	sizes, err := stock.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, sizes, 1)
}

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")
	size, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)

	got, err := stock.AdjustQuantity(ctx, size.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)

	got, err = stock.AdjustQuantity(ctx, size.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)

	// マイナスに振り切っても0で止まる
	got, err = stock.AdjustQuantity(ctx, size.ID, -100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	_, err = stock.AdjustQuantity(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDecrementIfEnough(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")
	size, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)
	_, err = stock.AdjustQuantity(ctx, size.ID, 3)
	require.NoError(t, err)

	ok, err := stock.DecrementIfEnough(ctx, size.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	// 0からはもう引けない。在庫もそのまま。
	ok, err = stock.DecrementIfEnough(ctx, size.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := stock.FindSize(ctx, item.ID, size.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
}

func TestFindByBarcodeScoped(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	workshopID := uuid.New()
	scoped := createTestItem(t, items, &workshopID, "шапка A")
	unassigned := createTestItem(t, items, nil, "шапка B")

	code := "4601234567890"
	size, err := stock.GetOrCreateSize(ctx, scoped.ID, "M")
	require.NoError(t, err)
	size.Barcode = &code
	require.NoError(t, stock.SaveSize(ctx, size))

	got, err := stock.FindByBarcode(ctx, model.ScopeForWorkshop(workshopID), code)
	require.NoError(t, err)
	assert.Equal(t, size.ID, got.ID)

	// 別スコープからは見えない
	_, err = stock.FindByBarcode(ctx, model.UnassignedScope(), code)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 同じコードが同一スコープに2行あれば整合性エラー
	other := createTestItem(t, items, &workshopID, "шапка C")
	dupe, err := stock.GetOrCreateSize(ctx, other.ID, "L")
	require.NoError(t, err)
	dupe.Barcode = &code
	require.NoError(t, stock.SaveSize(ctx, dupe))

	_, err = stock.FindByBarcode(ctx, model.ScopeForWorkshop(workshopID), code)
	assert.ErrorIs(t, err, repo.ErrConflict)

	// 未割当スコープの同じコードは工房側と衝突しない
	free, err := stock.GetOrCreateSize(ctx, unassigned.ID, "S")
	require.NoError(t, err)
	free.Barcode = &code
	require.NoError(t, stock.SaveSize(ctx, free))

	got, err = stock.FindByBarcode(ctx, model.UnassignedScope(), code)
	require.NoError(t, err)
	assert.Equal(t, free.ID, got.ID)
}

func TestBarcodeInUse(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")
	code := "4600000000001"

	size, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)
	size.Barcode = &code
	require.NoError(t, stock.SaveSize(ctx, size))

	// 自分自身は除外される
	used, err := stock.BarcodeInUse(ctx, model.UnassignedScope(), code, size.ID)
	require.NoError(t, err)
	assert.False(t, used)

	other, err := stock.GetOrCreateSize(ctx, item.ID, "L")
	require.NoError(t, err)
	used, err = stock.BarcodeInUse(ctx, model.UnassignedScope(), code, other.ID)
	require.NoError(t, err)
	assert.True(t, used)
}

func TestDeleteSize(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	stock := NewStockGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")
	size, err := stock.GetOrCreateSize(ctx, item.ID, "M")
	require.NoError(t, err)

	require.NoError(t, stock.DeleteSize(ctx, size.ID))
	assert.ErrorIs(t, stock.DeleteSize(ctx, size.ID), repo.ErrNotFound)
}
