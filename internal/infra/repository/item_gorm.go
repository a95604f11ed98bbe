package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type ItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// スコープ内の商品をサイズ付きで古い順に返す
func (r *ItemGormRepository) ListInScope(ctx context.Context, scope model.Scope) ([]model.Item, error) {
	var items []model.Item
	tx := scopeWhere(r.db.WithContext(ctx).Model(&model.Item{}), "workshop_id", scope)
	if err := tx.Preload("Sizes").Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemGormRepository) FindInScope(ctx context.Context, scope model.Scope, id uuid.UUID) (model.Item, error) {
	var item model.Item
	tx := scopeWhere(r.db.WithContext(ctx), "workshop_id", scope)
	err := tx.Preload("Sizes").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// 公開カタログ。workshopID指定が無ければ全パーティション（読み取りのみ）。
func (r *ItemGormRepository) ListPublic(ctx context.Context, workshopID *uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	tx := r.db.WithContext(ctx).Model(&model.Item{})
	if workshopID != nil {
		tx = tx.Where("workshop_id = ?", *workshopID)
	}
	if err := tx.Preload("Sizes").Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemGormRepository) FindPublic(ctx context.Context, id uuid.UUID) (model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).Preload("Sizes").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (r *ItemGormRepository) Create(ctx context.Context, item model.Item) (model.Item, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.Item{}, err
	}
	return item, nil
}

func (r *ItemGormRepository) Update(ctx context.Context, scope model.Scope, id uuid.UUID, fields map[string]interface{}) error {
	tx := scopeWhere(r.db.WithContext(ctx).Model(&model.Item{}), "workshop_id", scope)
	res := tx.Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ItemGormRepository) Delete(ctx context.Context, scope model.Scope, id uuid.UUID) error {
	tx := scopeWhere(r.db.WithContext(ctx), "workshop_id", scope)
	res := tx.Where("id = ?", id).Delete(&model.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// updated_at を入出荷日時に合わせる（autoUpdateTimeを通さない）
func (r *ItemGormRepository) TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}
