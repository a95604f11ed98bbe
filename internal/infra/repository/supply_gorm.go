package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type SupplyGormRepository struct {
	db *gorm.DB
}

// DI
func NewSupplyGormRepository(db *gorm.DB) *SupplyGormRepository {
	return &SupplyGormRepository{db: db}
}

// スコープごとの採番。カウンタ行のupsertを1文で行い、その行ロックが
// 同一スコープの同時作成を直列化する。番号は重複も欠番もしない。
func (r *SupplyGormRepository) NextNumber(ctx context.Context, counterKey uuid.UUID) (int64, error) {
	var number int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO supply_counters (workshop_key, last_number) VALUES (?, 1)
		 ON CONFLICT (workshop_key) DO UPDATE SET last_number = supply_counters.last_number + 1
		 RETURNING last_number`,
		counterKey,
	).Scan(&number).Error
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *SupplyGormRepository) Create(ctx context.Context, supply model.Supply) (model.Supply, error) {
	if err := r.db.WithContext(ctx).Create(&supply).Error; err != nil {
		return model.Supply{}, err
	}
	return supply, nil
}

func (r *SupplyGormRepository) CreateLine(ctx context.Context, line model.SupplyLineItem) (model.SupplyLineItem, error) {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return model.SupplyLineItem{}, err
	}
	return line, nil
}

func (r *SupplyGormRepository) ListInScope(ctx context.Context, scope model.Scope, itemID *uuid.UUID, limit int) ([]model.Supply, error) {
	var supplies []model.Supply
	tx := scopeWhere(r.db.WithContext(ctx).Model(&model.Supply{}), "supplies.workshop_id", scope)
	if itemID != nil {
		tx = tx.Joins("JOIN supply_line_items ON supply_line_items.supply_id = supplies.id").
			Where("supply_line_items.item_id = ?", *itemID).
			Distinct("supplies.*")
	}
	if err := tx.Preload("LineItems.Item").Order("supplies.date desc").Limit(limit).Find(&supplies).Error; err != nil {
		return nil, err
	}
	return supplies, nil
}

func (r *SupplyGormRepository) FindInScope(ctx context.Context, scope model.Scope, id uuid.UUID) (model.Supply, error) {
	var supply model.Supply
	tx := scopeWhere(r.db.WithContext(ctx), "workshop_id", scope)
	err := tx.Preload("LineItems.Item").First(&supply, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Supply{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Supply{}, err
	}
	return supply, nil
}
