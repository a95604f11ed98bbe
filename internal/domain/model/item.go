package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item は商品。ちょうど1つのスコープ（工房 or 未割当）に属する。
type Item struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	WorkshopID  *uuid.UUID       `gorm:"type:uuid;index" json:"workshop_id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Photo       string           `gorm:"type:varchar(500)" json:"photo"`
	Description string           `gorm:"type:text" json:"item_description"`
	Price       *decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	WBURL       string           `gorm:"column:wb_url;type:varchar(500)" json:"wb_url"`
	OzonURL     string           `gorm:"column:ozon_url;type:varchar(500)" json:"ozon_url"`
	CreatedAt   time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Sizes []SizeQuantity `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"sizes"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// SizeQuantity はサイズごとの在庫行。(item_id, size_label) で一意。
// Quantity は常に 0 以上。直接代入ではなく台帳プリミティブ経由でしか動かさない。
type SizeQuantity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_size_item_label" json:"item_id"`
	SizeLabel string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_size_item_label" json:"size_label"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	Barcode   *string   `gorm:"type:varchar(100);index" json:"barcode"`
}

func (s *SizeQuantity) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
