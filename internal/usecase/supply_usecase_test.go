package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/domain/model"
)

func TestSupplyCreateIn(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	workshopID := uuid.New()
	scope := model.ScopeForWorkshop(workshopID)
	item := env.seedItem(t, &workshopID, "шапка", "1500.50")

	out, err := uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type: "in",
		Lines: []SupplyLineInput{
			{ItemID: item.ID, SizeLabel: "M", Quantity: 5},
			{ItemID: item.ID, SizeLabel: "L", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Number)
	assert.Equal(t, "in", out.Type)
	require.Len(t, out.LineItems, 2)
	assert.Equal(t, "шапка", out.LineItems[0].ItemName)

	// サイズ行が無ければ作られ、数量が積まれている
	sizes, err := env.stock.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.Equal(t, int64(2), sizes[0].Quantity) // L
	assert.Equal(t, int64(5), sizes[1].Quantity) // M
}

func TestSupplyCreateOut(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	size := env.seedStock(t, item.ID, "M", 5)

	out, err := uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "out",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "out", out.Type)
	assert.Equal(t, int64(2), env.quantity(t, item.ID, size.ID))
}

func TestSupplyCreateOutInsufficientRollsBack(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	sizeM := env.seedStock(t, item.ID, "M", 5)
	sizeL := env.seedStock(t, item.ID, "L", 1)

	// 2行目で足りない。1行目の減算ごと巻き戻る。
	_, err := uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type: "out",
		Lines: []SupplyLineInput{
			{ItemID: item.ID, SizeLabel: "M", Quantity: 3},
			{ItemID: item.ID, SizeLabel: "L", Quantity: 2},
		},
	})
	require.Error(t, err)
	assert.Equal(t, "insufficient_stock", httpCode(t, err))

	he, _ := AsHTTPError(err)
	assert.Equal(t, "L", he.Details["size_label"])
	assert.Equal(t, int64(1), he.Details["available"])
	assert.Equal(t, int64(2), he.Details["requested"])

	assert.Equal(t, int64(5), env.quantity(t, item.ID, sizeM.ID))
	assert.Equal(t, int64(1), env.quantity(t, item.ID, sizeL.ID))

	// 記録も残らない
	outs, err := uc.List(ctx, scope, nil)
	require.NoError(t, err)
	assert.Empty(t, outs)

	// 失敗したバッチは番号を消費しない（次の成功が1番）
	next, err := uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), next.Number)
}

func TestSupplyCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()
	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")

	_, err := uc.Create(ctx, scope, nil, CreateSupplyInput{Type: "in"})
	assert.Equal(t, "empty_batch", httpCode(t, err))

	_, err = uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "sideways",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 1}},
	})
	assert.Equal(t, "validation_error", httpCode(t, err))

	_, err = uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 0}},
	})
	assert.Equal(t, "validation_error", httpCode(t, err))

	_, err = uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "  ", Quantity: 1}},
	})
	assert.Equal(t, "validation_error", httpCode(t, err))
}

func TestSupplyCreateForeignItem(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	workshopID := uuid.New()
	foreign := env.seedItem(t, &workshopID, "чужая шапка", "")

	// 他工房の商品は動かせない
	_, err := uc.Create(ctx, model.UnassignedScope(), nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: foreign.ID, SizeLabel: "M", Quantity: 1}},
	})
	assert.Equal(t, "item_not_found", httpCode(t, err))
}

func TestSupplyNumberingSequence(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	workshopID := uuid.New()
	scopeA := model.ScopeForWorkshop(workshopID)
	scopeB := model.UnassignedScope()
	itemA := env.seedItem(t, &workshopID, "шапка A", "")
	itemB := env.seedItem(t, nil, "шапка B", "")

	for want := int64(1); want <= 3; want++ {
		out, err := uc.Create(ctx, scopeA, nil, CreateSupplyInput{
			Type:  "in",
			Lines: []SupplyLineInput{{ItemID: itemA.ID, SizeLabel: "M", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, want, out.Number)
	}

	// 別スコープの採番は独立
	out, err := uc.Create(ctx, scopeB, nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: itemB.ID, SizeLabel: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Number)
}

func TestSupplyCreatedByUsername(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	usr, err := env.users.Create(ctx, model.User{Username: "masha", PasswordHash: "x", IsActive: true})
	require.NoError(t, err)
	item := env.seedItem(t, nil, "шапка", "")

	out, err := uc.Create(ctx, model.UnassignedScope(), &usr.ID, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, out.CreatedByUsername)
	assert.Equal(t, "masha", *out.CreatedByUsername)

	got, err := uc.Detail(ctx, model.UnassignedScope(), out.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CreatedByUsername)
	assert.Equal(t, "masha", *got.CreatedByUsername)
}

func TestSupplyDetailScoped(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	item := env.seedItem(t, nil, "шапка", "")
	out, err := uc.Create(ctx, model.UnassignedScope(), nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = uc.Detail(ctx, model.ScopeForWorkshop(uuid.New()), out.ID)
	assert.Equal(t, "not_found", httpCode(t, err))
}

func TestSupplyItemRenameReflected(t *testing.T) {
	env := newTestEnv(t)
	uc := NewSupplyUsecase(env.tx, env.users)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	out, err := uc.Create(ctx, scope, nil, CreateSupplyInput{
		Type:  "in",
		Lines: []SupplyLineInput{{ItemID: item.ID, SizeLabel: "M", Quantity: 1}},
	})
	require.NoError(t, err)

	// 改名後の読み出しは現在の商品名を返す
	require.NoError(t, env.items.Update(ctx, scope, item.ID, map[string]interface{}{"name": "шапка зимняя"}))

	got, err := uc.Detail(ctx, scope, out.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "шапка зимняя", got.LineItems[0].ItemName)

	// 商品が消えたら作成時の名前に落ちる
	require.NoError(t, env.items.Delete(ctx, scope, item.ID))
	got, err = uc.Detail(ctx, scope, out.ID)
	require.NoError(t, err)
	assert.Equal(t, "шапка", got.LineItems[0].ItemName)
}
