package repository

import (
	"gorm.io/gorm"

	"sklad/internal/domain/model"
)

// スコープでの絞り込み。未割当スコープは IS NULL であって「条件なし」ではない。
func scopeWhere(tx *gorm.DB, column string, scope model.Scope) *gorm.DB {
	if scope.WorkshopID == nil {
		return tx.Where(column + " IS NULL")
	}
	return tx.Where(column+" = ?", *scope.WorkshopID)
}
