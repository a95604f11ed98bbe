package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sklad/internal/domain/model"
)

// 注文の永続化。statusと自由記述フィールド以外は作成後に変えない。
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	CreateLine(ctx context.Context, line model.OrderLineItem) (model.OrderLineItem, error)

	ListInScope(ctx context.Context, scope model.Scope, itemID *uuid.UUID, limit int) ([]model.Order, error)
	FindInScope(ctx context.Context, scope model.Scope, id int64) (model.Order, error)
	ListLines(ctx context.Context, orderID int64) ([]model.OrderLineItem, error)

	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// MarkCancelled はまだcancelledでない行だけを遷移させ、勝敗を返す。
	MarkCancelled(ctx context.Context, orderID int64) (bool, error)
	UpdateFields(ctx context.Context, scope model.Scope, id int64, fields map[string]interface{}) error
}
