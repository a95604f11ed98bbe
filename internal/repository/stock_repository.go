package repository

import (
	"context"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
)

// 在庫台帳。SizeQuantityの行と、その唯一の安全な変更プリミティブを約束する。
type StockRepository interface {
	// (item_id, size_label) の行を返す。無ければ quantity=0 で作る。
	// 同時の初回作成でも行は1つしかできない（一意制約＋衝突時再読込）。
	GetOrCreateSize(ctx context.Context, itemID uuid.UUID, sizeLabel string) (model.SizeQuantity, error)

	ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.SizeQuantity, error)
	FindSize(ctx context.Context, itemID uuid.UUID, sizeID uuid.UUID) (model.SizeQuantity, error)

	// quantity = max(0, quantity + delta)。エラーにはならず、0で止まるだけ。
	// 在庫不足の検証は呼び出し側の責務。
	AdjustQuantity(ctx context.Context, sizeID uuid.UUID, delta int64) (model.SizeQuantity, error)

	// 足りるときだけ減算（quantity >= qty の行だけUPDATE）。足りなければfalse。
	DecrementIfEnough(ctx context.Context, sizeID uuid.UUID, qty int64) (bool, error)

	// スコープ内のバーコード完全一致。0件はErrNotFound、2件以上はErrConflict。
	FindByBarcode(ctx context.Context, scope model.Scope, barcode string) (model.SizeQuantity, error)

	// バーコードがスコープ内の他の行で使われていないか
	BarcodeInUse(ctx context.Context, scope model.Scope, barcode string, excludeSizeID uuid.UUID) (bool, error)

	// size_label / barcode の更新（quantityはここでは触らない）
	SaveSize(ctx context.Context, size model.SizeQuantity) error
	DeleteSize(ctx context.Context, sizeID uuid.UUID) error
}
