package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

func TestAddSize(t *testing.T) {
	env := newTestEnv(t)
	uc := NewStockUsecase(env.items, env.stock, env.tx)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	code := "4601234567890"

	size, err := uc.AddSize(ctx, scope, item.ID, "M", &code)
	require.NoError(t, err)
	assert.Equal(t, "M", size.SizeLabel)
	require.NotNil(t, size.Barcode)
	assert.Equal(t, code, *size.Barcode)

	// 使用中のバーコードは別の行に付けられない
	other := env.seedItem(t, nil, "шарф", "")
	_, err = uc.AddSize(ctx, scope, other.ID, "one size", &code)
	assert.Equal(t, "barcode_conflict", httpCode(t, err))

	// 同じラベルをもう一度追加しても同じ行。quantityは触らない。
	env.seedStock(t, item.ID, "M", 4)
	again, err := uc.AddSize(ctx, scope, item.ID, "M", &code)
	require.NoError(t, err)
	assert.Equal(t, size.ID, again.ID)
	assert.Equal(t, int64(4), env.quantity(t, item.ID, size.ID))

	_, err = uc.AddSize(ctx, scope, item.ID, "   ", nil)
	assert.Equal(t, "validation_error", httpCode(t, err))

	_, err = uc.AddSize(ctx, scope, uuid.New(), "M", nil)
	assert.Equal(t, "not_found", httpCode(t, err))
}

func TestPatchSize(t *testing.T) {
	env := newTestEnv(t)
	uc := NewStockUsecase(env.items, env.stock, env.tx)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	sizeM := env.seedStock(t, item.ID, "M", 3)
	env.seedStock(t, item.ID, "L", 1)

	// 数量は差分で台帳を通して設定される
	qty := int64(10)
	got, err := uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	neg := int64(-1)
	_, err = uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{Quantity: &neg})
	assert.Equal(t, "validation_error", httpCode(t, err))

	// 既存ラベルへの変更は衝突
	dupe := "L"
	_, err = uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{SizeLabel: &dupe})
	assert.Equal(t, "size_label_conflict", httpCode(t, err))

	fresh := "XL"
	got, err = uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{SizeLabel: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "XL", got.SizeLabel)
	assert.Equal(t, int64(10), got.Quantity)

	// 空文字のバーコードは外す操作
	code := "4600000000001"
	got, err = uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{Barcode: &code})
	require.NoError(t, err)
	require.NotNil(t, got.Barcode)
	empty := ""
	got, err = uc.PatchSize(ctx, scope, item.ID, sizeM.ID, PatchSizeInput{Barcode: &empty})
	require.NoError(t, err)
	assert.Nil(t, got.Barcode)
}

// AdjustQuantityだけを失敗させ、同一トランザクション内の他の書き込みが巻き戻ることを見る足場。
type adjustFailTx struct {
	inner repo.TransactionManager
}

func (m adjustFailTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(adjustFailRepos{TxRepos: r})
	})
}

type adjustFailRepos struct {
	repo.TxRepos
}

func (r adjustFailRepos) Stock() repo.StockRepository {
	return adjustFailStock{StockRepository: r.TxRepos.Stock()}
}

type adjustFailStock struct {
	repo.StockRepository
}

func (s adjustFailStock) AdjustQuantity(ctx context.Context, sizeID uuid.UUID, delta int64) (model.SizeQuantity, error) {
	return model.SizeQuantity{}, errors.New("adjust failed")
}

func TestPatchSizeRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	uc := NewStockUsecase(env.items, env.stock, adjustFailTx{inner: env.tx})
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	size := env.seedStock(t, item.ID, "M", 3)

	label := "XL"
	qty := int64(10)
	_, err := uc.PatchSize(ctx, scope, item.ID, size.ID, PatchSizeInput{SizeLabel: &label, Quantity: &qty})
	assert.Equal(t, "db_error", httpCode(t, err))

	// 数量更新が失敗したらラベル変更も残らない
	got, err := env.stock.FindSize(ctx, item.ID, size.ID)
	require.NoError(t, err)
	assert.Equal(t, "M", got.SizeLabel)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestFindByBarcode(t *testing.T) {
	env := newTestEnv(t)
	uc := NewStockUsecase(env.items, env.stock, env.tx)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	code := "4601234567890"
	_, err := uc.AddSize(ctx, scope, item.ID, "M", &code)
	require.NoError(t, err)

	hit, err := uc.FindByBarcode(ctx, scope, code)
	require.NoError(t, err)
	assert.Equal(t, item.ID, hit.ItemID)
	assert.Equal(t, "M", hit.SizeLabel)

	_, err = uc.FindByBarcode(ctx, scope, "0000000000000")
	assert.Equal(t, "not_found", httpCode(t, err))

	_, err = uc.FindByBarcode(ctx, scope, "  ")
	assert.Equal(t, "validation_error", httpCode(t, err))

	// 別スコープからは見えない
	_, err = uc.FindByBarcode(ctx, model.ScopeForWorkshop(uuid.New()), code)
	assert.Equal(t, "not_found", httpCode(t, err))
}

func TestDeleteSizeUsecase(t *testing.T) {
	env := newTestEnv(t)
	uc := NewStockUsecase(env.items, env.stock, env.tx)
	ctx := context.Background()

	scope := model.UnassignedScope()
	item := env.seedItem(t, nil, "шапка", "")
	size := env.seedStock(t, item.ID, "M", 1)

	require.NoError(t, uc.DeleteSize(ctx, scope, item.ID, size.ID))
	err := uc.DeleteSize(ctx, scope, item.ID, size.ID)
	assert.Equal(t, "not_found", httpCode(t, err))
}
