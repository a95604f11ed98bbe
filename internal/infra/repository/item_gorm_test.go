package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

func TestItemScopeIsolation(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	ctx := context.Background()

	workshopID := uuid.New()
	scoped := createTestItem(t, items, &workshopID, "шапка A")
	unassigned := createTestItem(t, items, nil, "шапка B")

	// 未割当スコープは IS NULL の行だけ。全件ではない。
	got, err := items.ListInScope(ctx, model.UnassignedScope())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, unassigned.ID, got[0].ID)

	got, err = items.ListInScope(ctx, model.ScopeForWorkshop(workshopID))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, scoped.ID, got[0].ID)

	// 別スコープのIDは存在しない扱い
	_, err = items.FindInScope(ctx, model.UnassignedScope(), scoped.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestItemListPublic(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	ctx := context.Background()

	workshopID := uuid.New()
	createTestItem(t, items, &workshopID, "шапка A")
	createTestItem(t, items, nil, "шапка B")

	// 公開カタログは指定が無ければ全パーティション
	all, err := items.ListPublic(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	only, err := items.ListPublic(ctx, &workshopID)
	require.NoError(t, err)
	assert.Len(t, only, 1)
}

func TestItemUpdateAndDeleteScoped(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	ctx := context.Background()

	workshopID := uuid.New()
	item := createTestItem(t, items, &workshopID, "шапка")
	scope := model.ScopeForWorkshop(workshopID)

	err := items.Update(ctx, scope, item.ID, map[string]interface{}{"name": "шапка зимняя"})
	require.NoError(t, err)

	got, err := items.FindInScope(ctx, scope, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "шапка зимняя", got.Name)

	// よそのスコープからは更新も削除もできない
	err = items.Update(ctx, model.UnassignedScope(), item.ID, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, repo.ErrNotFound)
	err = items.Delete(ctx, model.UnassignedScope(), item.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, items.Delete(ctx, scope, item.ID))
	_, err = items.FindInScope(ctx, scope, item.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestItemTouchUpdatedAt(t *testing.T) {
	gdb := newTestDB(t)
	items := NewItemGormRepository(gdb)
	ctx := context.Background()

	item := createTestItem(t, items, nil, "шапка")
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, items.TouchUpdatedAt(ctx, item.ID, at))

	got, err := items.FindInScope(ctx, model.UnassignedScope(), item.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(at))
}
