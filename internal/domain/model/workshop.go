package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workshop は工房（цех/склад）。他の全エンティティを区切る単位。
type Workshop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (w *Workshop) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkshopAssignment はユーザーと工房の紐付け。1ユーザーにつき1つ。
// WorkshopID が NULL のユーザーは未割当スコープで作業する。
type WorkshopAssignment struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	WorkshopID *uuid.UUID `gorm:"type:uuid;index" json:"workshop_id"`
}
