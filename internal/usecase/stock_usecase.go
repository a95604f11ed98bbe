package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

// 台帳プリミティブをそのまま使うサイズ管理エンドポイントの背後。
type StockUsecase struct {
	items repo.ItemRepository
	stock repo.StockRepository
	tx    repo.TransactionManager
}

func NewStockUsecase(items repo.ItemRepository, stock repo.StockRepository, tx repo.TransactionManager) *StockUsecase {
	return &StockUsecase{items: items, stock: stock, tx: tx}
}

type PatchSizeInput struct {
	SizeLabel *string
	Quantity  *int64
	Barcode   *string
}

type BarcodeHit struct {
	ItemID    uuid.UUID `json:"item_id"`
	SizeLabel string    `json:"size_label"`
}

func (u *StockUsecase) ListSizes(ctx context.Context, scope model.Scope, itemID uuid.UUID) ([]model.SizeQuantity, error) {
	if _, err := findScopedItem(ctx, u.items, scope, itemID); err != nil {
		return nil, err
	}
	sizes, err := u.stock.ListByItem(ctx, itemID)
	if err != nil {
		return nil, errDB()
	}
	return sizes, nil
}

// サイズ行の追加。既にあればその行を返す（quantityはいじらない）。
func (u *StockUsecase) AddSize(ctx context.Context, scope model.Scope, itemID uuid.UUID, sizeLabel string, barcode *string) (model.SizeQuantity, error) {
	label := strings.TrimSpace(sizeLabel)
	if label == "" {
		return model.SizeQuantity{}, errValidation("size_label is required")
	}

	var out model.SizeQuantity
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findScopedItem(ctx, r.Items(), scope, itemID); err != nil {
			return err
		}
		size, err := r.Stock().GetOrCreateSize(ctx, itemID, label)
		if err != nil {
			return errDB()
		}

		if barcode != nil && strings.TrimSpace(*barcode) != "" {
			code := strings.TrimSpace(*barcode)
			if err := ensureBarcodeFree(ctx, r.Stock(), scope, code, size.ID); err != nil {
				return err
			}
			size.Barcode = &code
		} else {
			size.Barcode = nil
		}
		if err := r.Stock().SaveSize(ctx, size); err != nil {
			return errDB()
		}
		out = size
		return nil
	})
	if err != nil {
		return model.SizeQuantity{}, err
	}
	return out, nil
}

// ラベル・バーコード・数量の更新をひとつのトランザクションで行う。
// 途中で失敗したら部分的に書き換わった行を残さない。
func (u *StockUsecase) PatchSize(ctx context.Context, scope model.Scope, itemID uuid.UUID, sizeID uuid.UUID, in PatchSizeInput) (model.SizeQuantity, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return model.SizeQuantity{}, errValidation("quantity must be >= 0")
	}

	var out model.SizeQuantity
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := findScopedItem(ctx, r.Items(), scope, itemID); err != nil {
			return err
		}
		size, err := r.Stock().FindSize(ctx, itemID, sizeID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		if in.SizeLabel != nil {
			label := strings.TrimSpace(*in.SizeLabel)
			if label == "" {
				return errValidation("size_label must not be empty")
			}
			if label != size.SizeLabel {
				// (item, size_label) は一意。別の行が同じラベルならエラー。
				siblings, err := r.Stock().ListByItem(ctx, itemID)
				if err != nil {
					return errDB()
				}
				for _, s := range siblings {
					if s.ID != size.ID && s.SizeLabel == label {
						return NewHTTPError(http.StatusConflict, "size_label_conflict", "size already exists for this item")
					}
				}
				size.SizeLabel = label
			}
		}

		if in.Barcode != nil {
			code := strings.TrimSpace(*in.Barcode)
			if code == "" {
				size.Barcode = nil
			} else {
				if err := ensureBarcodeFree(ctx, r.Stock(), scope, code, size.ID); err != nil {
					return err
				}
				size.Barcode = &code
			}
		}

		if err := r.Stock().SaveSize(ctx, size); err != nil {
			return errDB()
		}

		// 数量の変更も差分をclampプリミティブに通す。直接代入はしない。
		if in.Quantity != nil {
			if _, err := r.Stock().AdjustQuantity(ctx, size.ID, *in.Quantity-size.Quantity); err != nil {
				return errDB()
			}
		}

		got, err := r.Stock().FindSize(ctx, itemID, size.ID)
		if err != nil {
			return errDB()
		}
		out = got
		return nil
	})
	if err != nil {
		return model.SizeQuantity{}, err
	}
	return out, nil
}

func (u *StockUsecase) DeleteSize(ctx context.Context, scope model.Scope, itemID uuid.UUID, sizeID uuid.UUID) error {
	if _, err := findScopedItem(ctx, u.items, scope, itemID); err != nil {
		return err
	}
	err := u.stock.DeleteSize(ctx, sizeID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound()
	}
	if err != nil {
		return errDB()
	}
	return nil
}

// バーコード検索。曖昧（スコープ内で2件以上）は拾わず整合性エラーにする。
func (u *StockUsecase) FindByBarcode(ctx context.Context, scope model.Scope, barcode string) (BarcodeHit, error) {
	code := strings.TrimSpace(barcode)
	if code == "" {
		return BarcodeHit{}, errValidation("barcode is required")
	}
	size, err := u.stock.FindByBarcode(ctx, scope, code)
	if errors.Is(err, repo.ErrNotFound) {
		return BarcodeHit{}, errNotFound()
	}
	if errors.Is(err, repo.ErrConflict) {
		return BarcodeHit{}, errBarcodeConflict(code)
	}
	if err != nil {
		return BarcodeHit{}, errDB()
	}
	return BarcodeHit{ItemID: size.ItemID, SizeLabel: size.SizeLabel}, nil
}

func findScopedItem(ctx context.Context, items repo.ItemRepository, scope model.Scope, itemID uuid.UUID) (model.Item, error) {
	item, err := items.FindInScope(ctx, scope, itemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, errNotFound()
	}
	if err != nil {
		return model.Item{}, errDB()
	}
	return item, nil
}

func ensureBarcodeFree(ctx context.Context, stock repo.StockRepository, scope model.Scope, code string, excludeSizeID uuid.UUID) error {
	used, err := stock.BarcodeInUse(ctx, scope, code, excludeSizeID)
	if err != nil {
		return errDB()
	}
	if used {
		return errBarcodeConflict(code)
	}
	return nil
}
