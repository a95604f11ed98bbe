package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type StockGormRepository struct {
	db *gorm.DB
}

// DI
func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

// (item_id, size_label) の行を返す。無ければ quantity=0 で作る。
// 同時に作りに来ても一意制約とDO NOTHINGで行は1つに収まる。
func (r *StockGormRepository) GetOrCreateSize(ctx context.Context, itemID uuid.UUID, sizeLabel string) (model.SizeQuantity, error) {
	size := model.SizeQuantity{
		ID:        uuid.New(),
		ItemID:    itemID,
		SizeLabel: sizeLabel,
		Quantity:  0,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "size_label"}},
			DoNothing: true,
		}).
		Create(&size).Error
	if err != nil {
		return model.SizeQuantity{}, err
	}

	// 衝突で挿入されなかった場合も含め、確定した行を読み直す
	var got model.SizeQuantity
	err = r.db.WithContext(ctx).
		Where("item_id = ? AND size_label = ?", itemID, sizeLabel).
		First(&got).Error
	if err != nil {
		return model.SizeQuantity{}, err
	}
	return got, nil
}

func (r *StockGormRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]model.SizeQuantity, error) {
	var sizes []model.SizeQuantity
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("size_label asc").
		Find(&sizes).Error
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

func (r *StockGormRepository) FindSize(ctx context.Context, itemID uuid.UUID, sizeID uuid.UUID) (model.SizeQuantity, error) {
	var size model.SizeQuantity
	err := r.db.WithContext(ctx).
		Where("id = ? AND item_id = ?", sizeID, itemID).
		First(&size).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SizeQuantity{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SizeQuantity{}, err
	}
	return size, nil
}

// quantity = max(0, quantity + delta) を1文のUPDATEで行う。
// マイナスに振っても0で止まるだけでエラーにはしない。
func (r *StockGormRepository) AdjustQuantity(ctx context.Context, sizeID uuid.UUID, delta int64) (model.SizeQuantity, error) {
	res := r.db.WithContext(ctx).Model(&model.SizeQuantity{}).
		Where("id = ?", sizeID).
		Update("quantity", gorm.Expr(
			"CASE WHEN quantity + ? < 0 THEN 0 ELSE quantity + ? END", delta, delta,
		))
	if res.Error != nil {
		return model.SizeQuantity{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.SizeQuantity{}, repo.ErrNotFound
	}

	var size model.SizeQuantity
	if err := r.db.WithContext(ctx).First(&size, "id = ?", sizeID).Error; err != nil {
		return model.SizeQuantity{}, err
	}
	return size, nil
}

// 足りるときだけ減算。足りなければ何も変えずfalse。
func (r *StockGormRepository) DecrementIfEnough(ctx context.Context, sizeID uuid.UUID, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.SizeQuantity{}).
		Where("id = ? AND quantity >= ?", sizeID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// スコープ内のバーコード完全一致。2件以上は整合性エラー扱い。
func (r *StockGormRepository) FindByBarcode(ctx context.Context, scope model.Scope, barcode string) (model.SizeQuantity, error) {
	var sizes []model.SizeQuantity
	tx := r.db.WithContext(ctx).Model(&model.SizeQuantity{}).
		Joins("JOIN items ON items.id = size_quantities.item_id").
		Where("size_quantities.barcode = ?", barcode)
	tx = scopeWhere(tx, "items.workshop_id", scope)
	if err := tx.Limit(2).Find(&sizes).Error; err != nil {
		return model.SizeQuantity{}, err
	}
	switch len(sizes) {
	case 0:
		return model.SizeQuantity{}, repo.ErrNotFound
	case 1:
		return sizes[0], nil
	default:
		return model.SizeQuantity{}, repo.ErrConflict
	}
}

func (r *StockGormRepository) BarcodeInUse(ctx context.Context, scope model.Scope, barcode string, excludeSizeID uuid.UUID) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.SizeQuantity{}).
		Joins("JOIN items ON items.id = size_quantities.item_id").
		Where("size_quantities.barcode = ?", barcode).
		Where("size_quantities.id <> ?", excludeSizeID)
	tx = scopeWhere(tx, "items.workshop_id", scope)
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *StockGormRepository) SaveSize(ctx context.Context, size model.SizeQuantity) error {
	res := r.db.WithContext(ctx).Model(&model.SizeQuantity{}).
		Where("id = ?", size.ID).
		Updates(map[string]interface{}{
			"size_label": size.SizeLabel,
			"barcode":    size.Barcode,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *StockGormRepository) DeleteSize(ctx context.Context, sizeID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.SizeQuantity{}, "id = ?", sizeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
