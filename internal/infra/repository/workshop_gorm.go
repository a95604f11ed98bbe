package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type WorkshopGormRepository struct {
	db *gorm.DB
}

// DI
func NewWorkshopGormRepository(db *gorm.DB) *WorkshopGormRepository {
	return &WorkshopGormRepository{db: db}
}

func (r *WorkshopGormRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Workshop, error) {
	var w model.Workshop
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Workshop{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Workshop{}, err
	}
	return w, nil
}

func (r *WorkshopGormRepository) GetOrCreateByName(ctx context.Context, name string) (model.Workshop, error) {
	var w model.Workshop
	err := r.db.WithContext(ctx).First(&w, "name = ?", name).Error
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Workshop{}, err
	}
	w = model.Workshop{Name: name}
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return model.Workshop{}, err
	}
	return w, nil
}

type AssignmentGormRepository struct {
	db *gorm.DB
}

// DI
func NewAssignmentGormRepository(db *gorm.DB) *AssignmentGormRepository {
	return &AssignmentGormRepository{db: db}
}

func (r *AssignmentGormRepository) FindByUserID(ctx context.Context, userID int64) (model.WorkshopAssignment, error) {
	var a model.WorkshopAssignment
	err := r.db.WithContext(ctx).First(&a, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WorkshopAssignment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.WorkshopAssignment{}, err
	}
	return a, nil
}

func (r *AssignmentGormRepository) Upsert(ctx context.Context, userID int64, workshopID *uuid.UUID) error {
	a := model.WorkshopAssignment{UserID: userID, WorkshopID: workshopID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"workshop_id"}),
		}).
		Create(&a).Error
}
