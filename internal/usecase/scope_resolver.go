package usecase

import (
	"context"
	"errors"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

// ScopeResolver は認証済みユーザーをちょうど1つのスコープに写像する。
// 紐付けが無いのはエラーではなく未割当スコープ。
type ScopeResolver struct {
	assignments repo.AssignmentRepository
}

func NewScopeResolver(assignments repo.AssignmentRepository) *ScopeResolver {
	return &ScopeResolver{assignments: assignments}
}

func (r *ScopeResolver) Resolve(ctx context.Context, userID int64) (model.Scope, error) {
	a, err := r.assignments.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.UnassignedScope(), nil
	}
	if err != nil {
		return model.Scope{}, errDB()
	}
	if a.WorkshopID == nil {
		return model.UnassignedScope(), nil
	}
	return model.ScopeForWorkshop(*a.WorkshopID), nil
}
