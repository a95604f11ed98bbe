package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約などとぶつかったとき
var ErrConflict = errors.New("conflict")

// 商品の永続化（保存・取得）だけを約束。読み書きは必ずScopeで絞る。
type ItemRepository interface {
	ListInScope(ctx context.Context, scope model.Scope) ([]model.Item, error)
	FindInScope(ctx context.Context, scope model.Scope, id uuid.UUID) (model.Item, error)

	// 公開カタログ。workshopIDがnilなら全パーティション（読み取り専用の例外）。
	ListPublic(ctx context.Context, workshopID *uuid.UUID) ([]model.Item, error)
	FindPublic(ctx context.Context, id uuid.UUID) (model.Item, error)

	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, scope model.Scope, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, scope model.Scope, id uuid.UUID) error

	// 在庫を動かした操作が updated_at を入出荷日時に合わせる
	TouchUpdatedAt(ctx context.Context, id uuid.UUID, at time.Time) error
}
