package repository

import (
	"context"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
)

// 入出荷の永続化。Supplyは作成後に更新しない。
type SupplyRepository interface {
	// スコープごとの次の番号をアトミックに採る（カウンタ行をupsert）。
	// 同時作成でも番号は重複しない。
	NextNumber(ctx context.Context, counterKey uuid.UUID) (int64, error)

	Create(ctx context.Context, supply model.Supply) (model.Supply, error)
	CreateLine(ctx context.Context, line model.SupplyLineItem) (model.SupplyLineItem, error)

	// 新しい順。itemIDがあれば該当商品を含むものだけ。
	ListInScope(ctx context.Context, scope model.Scope, itemID *uuid.UUID, limit int) ([]model.Supply, error)
	FindInScope(ctx context.Context, scope model.Scope, id uuid.UUID) (model.Supply, error)
}
