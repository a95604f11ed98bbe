package model

import "github.com/google/uuid"

// Scope は在庫・入出荷・注文を区切るパーティション。
// 特定の工房（цех）か、工房未割当のレガシー領域のどちらか。
type Scope struct {
	WorkshopID *uuid.UUID
}

// 特定の工房スコープ
func ScopeForWorkshop(id uuid.UUID) Scope {
	return Scope{WorkshopID: &id}
}

// 工房未割当スコープ（workshop_id IS NULL の領域。フィルタ無しとは別物）
func UnassignedScope() Scope {
	return Scope{}
}

func (s Scope) IsUnassigned() bool {
	return s.WorkshopID == nil
}

// 採番カウンタのキー。未割当スコープはゼロUUIDで代表する。
func (s Scope) CounterKey() uuid.UUID {
	if s.WorkshopID == nil {
		return uuid.Nil
	}
	return *s.WorkshopID
}
