package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderGormRepository) CreateLine(ctx context.Context, line model.OrderLineItem) (model.OrderLineItem, error) {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return model.OrderLineItem{}, err
	}
	return line, nil
}

func (r *OrderGormRepository) ListInScope(ctx context.Context, scope model.Scope, itemID *uuid.UUID, limit int) ([]model.Order, error) {
	var orders []model.Order
	tx := scopeWhere(r.db.WithContext(ctx).Model(&model.Order{}), "orders.workshop_id", scope)
	if itemID != nil {
		tx = tx.Joins("JOIN order_line_items ON order_line_items.order_id = orders.id").
			Where("order_line_items.item_id = ?", *itemID).
			Distinct("orders.*")
	}
	if err := tx.Preload("LineItems.Item").Order("orders.created_at desc").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderGormRepository) FindInScope(ctx context.Context, scope model.Scope, id int64) (model.Order, error) {
	var order model.Order
	tx := scopeWhere(r.db.WithContext(ctx), "workshop_id", scope)
	err := tx.Preload("LineItems.Item").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

func (r *OrderGormRepository) ListLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	var lines []model.OrderLineItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *OrderGormRepository) UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("total", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付き遷移。二重キャンセルが競合しても在庫を戻す権利を得るのは1回だけ。
func (r *OrderGormRepository) MarkCancelled(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status <> ?", orderID, model.OrderStatusCancelled).
		Update("status", model.OrderStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderGormRepository) UpdateFields(ctx context.Context, scope model.Scope, id int64, fields map[string]interface{}) error {
	tx := scopeWhere(r.db.WithContext(ctx).Model(&model.Order{}), "workshop_id", scope)
	res := tx.Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
