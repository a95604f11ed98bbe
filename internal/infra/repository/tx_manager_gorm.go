package repository

import (
	"context"

	"gorm.io/gorm"

	repo "sklad/internal/repository"
)

type txReposGorm struct {
	items    repo.ItemRepository
	stock    repo.StockRepository
	supplies repo.SupplyRepository
	orders   repo.OrderRepository
}

func (r *txReposGorm) Items() repo.ItemRepository      { return r.items }
func (r *txReposGorm) Stock() repo.StockRepository     { return r.stock }
func (r *txReposGorm) Supplies() repo.SupplyRepository { return r.supplies }
func (r *txReposGorm) Orders() repo.OrderRepository    { return r.orders }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			items:    NewItemGormRepository(tx),
			stock:    NewStockGormRepository(tx),
			supplies: NewSupplyGormRepository(tx),
			orders:   NewOrderGormRepository(tx),
		}
		return fn(r)
	})
}
