package repository

import (
	"context"

	"sklad/internal/domain/model"
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Save(ctx context.Context, u model.User) (model.User, error)
}
