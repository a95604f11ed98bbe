package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

// 公開カタログのキャッシュ。Redisが無い構成では全メソッドが素通りする実装を渡す。
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{})
	Invalidate(ctx context.Context)
}

type ItemUsecase struct {
	items repo.ItemRepository
	cache CatalogCache
}

func NewItemUsecase(items repo.ItemRepository, cache CatalogCache) *ItemUsecase {
	return &ItemUsecase{items: items, cache: cache}
}

type ItemInput struct {
	Name        string
	Photo       string
	Description string
	Price       *decimal.Decimal
	WBURL       string
	OzonURL     string
}

type PatchItemInput struct {
	Name        *string
	Photo       *string
	Description *string
	Price       *decimal.Decimal
	WBURL       *string
	OzonURL     *string
}

func (u *ItemUsecase) List(ctx context.Context, scope model.Scope) ([]model.Item, error) {
	items, err := u.items.ListInScope(ctx, scope)
	if err != nil {
		return nil, errDB()
	}
	return items, nil
}

func (u *ItemUsecase) Detail(ctx context.Context, scope model.Scope, id uuid.UUID) (model.Item, error) {
	item, err := u.items.FindInScope(ctx, scope, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, errNotFound()
	}
	if err != nil {
		return model.Item{}, errDB()
	}
	return item, nil
}

func (u *ItemUsecase) Create(ctx context.Context, scope model.Scope, in ItemInput) (model.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Item{}, errValidation("name is required")
	}

	item, err := u.items.Create(ctx, model.Item{
		WorkshopID:  scope.WorkshopID,
		Name:        strings.TrimSpace(in.Name),
		Photo:       in.Photo,
		Description: in.Description,
		Price:       in.Price,
		WBURL:       in.WBURL,
		OzonURL:     in.OzonURL,
	})
	if err != nil {
		return model.Item{}, errDB()
	}

	u.cache.Invalidate(ctx)
	return item, nil
}

// 全フィールド更新（PUT）
func (u *ItemUsecase) Update(ctx context.Context, scope model.Scope, id uuid.UUID, in ItemInput) (model.Item, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Item{}, errValidation("name is required")
	}

	err := u.items.Update(ctx, scope, id, map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"photo":       in.Photo,
		"description": in.Description,
		"price":       in.Price,
		"wb_url":      in.WBURL,
		"ozon_url":    in.OzonURL,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, errNotFound()
	}
	if err != nil {
		return model.Item{}, errDB()
	}

	u.cache.Invalidate(ctx)
	return u.Detail(ctx, scope, id)
}

// 渡されたフィールドだけ更新（PATCH）
func (u *ItemUsecase) Patch(ctx context.Context, scope model.Scope, id uuid.UUID, in PatchItemInput) (model.Item, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return model.Item{}, errValidation("name must not be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Photo != nil {
		fields["photo"] = *in.Photo
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = *in.Price
	}
	if in.WBURL != nil {
		fields["wb_url"] = *in.WBURL
	}
	if in.OzonURL != nil {
		fields["ozon_url"] = *in.OzonURL
	}

	if len(fields) > 0 {
		err := u.items.Update(ctx, scope, id, fields)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Item{}, errNotFound()
		}
		if err != nil {
			return model.Item{}, errDB()
		}
		u.cache.Invalidate(ctx)
	}

	return u.Detail(ctx, scope, id)
}

func (u *ItemUsecase) Delete(ctx context.Context, scope model.Scope, id uuid.UUID) error {
	err := u.items.Delete(ctx, scope, id)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound()
	}
	if err != nil {
		return errDB()
	}
	u.cache.Invalidate(ctx)
	return nil
}

// 公開カタログ。認証なし・読み取り専用なのでパーティション横断を許す。
func (u *ItemUsecase) PublicList(ctx context.Context, workshopID *uuid.UUID) ([]model.Item, error) {
	key := "catalog:items:all"
	if workshopID != nil {
		key = "catalog:items:" + workshopID.String()
	}

	var cached []model.Item
	if u.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	items, err := u.items.ListPublic(ctx, workshopID)
	if err != nil {
		return nil, errDB()
	}
	u.cache.SetJSON(ctx, key, items)
	return items, nil
}

func (u *ItemUsecase) PublicDetail(ctx context.Context, id uuid.UUID) (model.Item, error) {
	key := "catalog:item:" + id.String()

	var cached model.Item
	if u.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	item, err := u.items.FindPublic(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, errNotFound()
	}
	if err != nil {
		return model.Item{}, errDB()
	}
	u.cache.SetJSON(ctx, key, item)
	return item, nil
}
