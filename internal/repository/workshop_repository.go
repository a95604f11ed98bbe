package repository

import (
	"context"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
)

type WorkshopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (model.Workshop, error)
	GetOrCreateByName(ctx context.Context, name string) (model.Workshop, error)
}

// 認証済みユーザー → 工房の紐付け。紐付け無しはエラーではなく未割当スコープ。
type AssignmentRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.WorkshopAssignment, error)
	Upsert(ctx context.Context, userID int64, workshopID *uuid.UUID) error
}
