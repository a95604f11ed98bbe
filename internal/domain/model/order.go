package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusShipped, OrderStatusInTransit,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order は注文。作成時に在庫を引き当て、cancelled への遷移で戻す。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkshopID      *uuid.UUID      `gorm:"type:uuid;index" json:"workshop_id"`
	Source          string          `gorm:"type:varchar(500)" json:"source"`
	DeliveryAddress string          `gorm:"type:text" json:"delivery_address"`
	ClientPhone     string          `gorm:"type:varchar(50)" json:"client_phone"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items"`
}

type OrderLineItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"-"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName  string    `gorm:"type:varchar(255);not null" json:"item_name"`
	SizeLabel string    `gorm:"type:varchar(50);not null" json:"size_label"`
	Quantity  int64     `gorm:"not null" json:"quantity"`

	Item *Item `gorm:"foreignKey:ItemID;constraint:-" json:"-"`
}

// SupplyLineItemと同じ規約。現在名優先、消えた商品はスナップショット。
func (l OrderLineItem) CurrentItemName() string {
	if l.Item != nil {
		return l.Item.Name
	}
	return l.ItemName
}
