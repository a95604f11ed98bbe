package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type SupplyUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewSupplyUsecase(tx repo.TransactionManager, users repo.UserRepository) *SupplyUsecase {
	return &SupplyUsecase{tx: tx, users: users}
}

type SupplyLineInput struct {
	ItemID    uuid.UUID
	SizeLabel string
	Quantity  int64
}

type CreateSupplyInput struct {
	Type  string
	Lines []SupplyLineInput
}

type SupplyLineOutput struct {
	ID        uuid.UUID `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	SizeLabel string    `json:"size_label"`
	Quantity  int64     `json:"quantity"`
}

type SupplyOutput struct {
	ID                uuid.UUID          `json:"id"`
	Number            int64              `json:"number"`
	Date              time.Time          `json:"date"`
	Type              string             `json:"type"`
	LineItems         []SupplyLineOutput `json:"line_items"`
	CreatedByUsername *string            `json:"created_by_username"`
}

// 入出荷をひとつのトランザクションで記録する。
// どこかの行で失敗したらバッチ全体が巻き戻り、途中の在庫変更は残らない。
func (u *SupplyUsecase) Create(ctx context.Context, scope model.Scope, actorID *int64, in CreateSupplyInput) (SupplyOutput, error) {
	supplyType := model.SupplyType(in.Type)
	if !supplyType.Valid() {
		return SupplyOutput{}, errValidation("type must be \"in\" or \"out\"")
	}
	if len(in.Lines) == 0 {
		return SupplyOutput{}, errEmptyBatch()
	}
	for _, l := range in.Lines {
		if l.Quantity < 1 {
			return SupplyOutput{}, errValidation("quantity must be >= 1")
		}
		if strings.TrimSpace(l.SizeLabel) == "" {
			return SupplyOutput{}, errValidation("size_label is required")
		}
	}

	var out SupplyOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// スコープ内で一意な番号を採る（同時作成でも重複しない）
		number, err := r.Supplies().NextNumber(ctx, scope.CounterKey())
		if err != nil {
			return errDB()
		}

		supply, err := r.Supplies().Create(ctx, model.Supply{
			WorkshopID:  scope.WorkshopID,
			Number:      number,
			Type:        supplyType,
			CreatedByID: actorID,
		})
		if err != nil {
			return errDB()
		}

		lineOuts := make([]SupplyLineOutput, 0, len(in.Lines))
		for _, l := range in.Lines {
			// 自分のスコープの商品しか動かせない
			item, err := r.Items().FindInScope(ctx, scope, l.ItemID)
			if errors.Is(err, repo.ErrNotFound) {
				return errItemNotFound(l.ItemID)
			}
			if err != nil {
				return errDB()
			}

			size, err := r.Stock().GetOrCreateSize(ctx, item.ID, strings.TrimSpace(l.SizeLabel))
			if err != nil {
				return errDB()
			}

			if supplyType == model.SupplyTypeOut {
				// 足りるときだけ減算。足りなければバッチごと失敗。
				ok, err := r.Stock().DecrementIfEnough(ctx, size.ID, l.Quantity)
				if err != nil {
					return errDB()
				}
				if !ok {
					current, err := r.Stock().FindSize(ctx, item.ID, size.ID)
					if err != nil {
						return errDB()
					}
					return errInsufficientStock(item.ID, item.Name, size.SizeLabel, current.Quantity, l.Quantity)
				}
			} else {
				if _, err := r.Stock().AdjustQuantity(ctx, size.ID, l.Quantity); err != nil {
					return errDB()
				}
			}

			line, err := r.Supplies().CreateLine(ctx, model.SupplyLineItem{
				SupplyID:  supply.ID,
				ItemID:    item.ID,
				ItemName:  item.Name,
				SizeLabel: size.SizeLabel,
				Quantity:  l.Quantity,
			})
			if err != nil {
				return errDB()
			}

			// 在庫を動かした商品のupdated_atは入出荷日時に揃える
			if err := r.Items().TouchUpdatedAt(ctx, item.ID, supply.Date); err != nil {
				return errDB()
			}

			lineOuts = append(lineOuts, SupplyLineOutput{
				ID:        line.ID,
				ItemID:    line.ItemID,
				ItemName:  line.ItemName,
				SizeLabel: line.SizeLabel,
				Quantity:  line.Quantity,
			})
		}

		out = SupplyOutput{
			ID:        supply.ID,
			Number:    supply.Number,
			Date:      supply.Date,
			Type:      string(supply.Type),
			LineItems: lineOuts,
		}
		return nil
	})
	if err != nil {
		return SupplyOutput{}, err
	}

	out.CreatedByUsername = u.lookupUsername(ctx, actorID)
	return out, nil
}

func (u *SupplyUsecase) List(ctx context.Context, scope model.Scope, itemID *uuid.UUID) ([]SupplyOutput, error) {
	var outs []SupplyOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		supplies, err := r.Supplies().ListInScope(ctx, scope, itemID, 100)
		if err != nil {
			return errDB()
		}
		outs = make([]SupplyOutput, 0, len(supplies))
		for _, s := range supplies {
			outs = append(outs, u.toOutput(ctx, s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *SupplyUsecase) Detail(ctx context.Context, scope model.Scope, id uuid.UUID) (SupplyOutput, error) {
	var out SupplyOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Supplies().FindInScope(ctx, scope, id)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}
		out = u.toOutput(ctx, s)
		return nil
	})
	if err != nil {
		return SupplyOutput{}, err
	}
	return out, nil
}

func (u *SupplyUsecase) toOutput(ctx context.Context, s model.Supply) SupplyOutput {
	lines := make([]SupplyLineOutput, 0, len(s.LineItems))
	for _, l := range s.LineItems {
		lines = append(lines, SupplyLineOutput{
			ID:        l.ID,
			ItemID:    l.ItemID,
			ItemName:  l.CurrentItemName(),
			SizeLabel: l.SizeLabel,
			Quantity:  l.Quantity,
		})
	}
	return SupplyOutput{
		ID:                s.ID,
		Number:            s.Number,
		Date:              s.Date,
		Type:              string(s.Type),
		LineItems:         lines,
		CreatedByUsername: u.lookupUsername(ctx, s.CreatedByID),
	}
}

func (u *SupplyUsecase) lookupUsername(ctx context.Context, userID *int64) *string {
	if userID == nil {
		return nil
	}
	usr, err := u.users.FindByID(ctx, *userID)
	if err != nil {
		return nil
	}
	return &usr.Username
}
