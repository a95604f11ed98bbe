package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplyType string

const (
	SupplyTypeIn  SupplyType = "in"  // 入荷
	SupplyTypeOut SupplyType = "out" // 出荷
)

func (t SupplyType) Valid() bool {
	return t == SupplyTypeIn || t == SupplyTypeOut
}

// Supply は入出荷の記録。作成後は不変。
// Number はスコープ内で1から欠番なしに増える。
type Supply struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkshopID  *uuid.UUID `gorm:"type:uuid;index" json:"workshop_id"`
	Number      int64      `gorm:"not null;index" json:"number"`
	Date        time.Time  `gorm:"not null;autoCreateTime" json:"date"`
	Type        SupplyType `gorm:"type:varchar(10);not null" json:"type"`
	CreatedByID *int64     `gorm:"index" json:"-"`

	LineItems []SupplyLineItem `gorm:"foreignKey:SupplyID;constraint:OnDelete:CASCADE" json:"line_items"`
}

func (s *Supply) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SupplyLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SupplyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName  string    `gorm:"type:varchar(255);not null" json:"item_name"`
	SizeLabel string    `gorm:"type:varchar(50);not null" json:"size_label"`
	Quantity  int64     `gorm:"not null" json:"quantity"`

	// 履歴行は商品が消えても残すのでFKは張らない
	Item *Item `gorm:"foreignKey:ItemID;constraint:-" json:"-"`
}

// 表示する商品名。改名が追従するよう現在名を優先し、
// 商品が消えていたら作成時のスナップショットに落ちる。
func (l SupplyLineItem) CurrentItemName() string {
	if l.Item != nil {
		return l.Item.Name
	}
	return l.ItemName
}

func (l *SupplyLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// SupplyCounter はスコープごとの採番カウンタ。
// 未割当スコープはゼロUUIDの行を使う。
type SupplyCounter struct {
	WorkshopKey uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastNumber  int64     `gorm:"not null"`
}
