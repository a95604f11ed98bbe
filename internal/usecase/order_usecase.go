package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sklad/internal/domain/model"
	repo "sklad/internal/repository"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineInput struct {
	ItemID    uuid.UUID
	SizeLabel string
	Quantity  int64
}

type CreateOrderInput struct {
	Source          string
	DeliveryAddress string
	ClientPhone     string
	Lines           []OrderLineInput
}

type PatchOrderInput struct {
	Source          *string
	DeliveryAddress *string
	ClientPhone     *string
	Status          *string
}

type OrderLineOutput struct {
	ID        int64     `json:"id"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	SizeLabel string    `json:"size_label"`
	Quantity  int64     `json:"quantity"`
}

type OrderOutput struct {
	ID              int64             `json:"id"`
	Source          string            `json:"source"`
	DeliveryAddress string            `json:"delivery_address"`
	ClientPhone     string            `json:"client_phone"`
	Total           decimal.Decimal   `json:"total"`
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	LineItems       []OrderLineOutput `json:"line_items"`
}

// 注文をひとつのトランザクションで作る。
// 先に全行を検証してから一括で在庫を引き当てるので、失敗した注文は痕跡を残さない。
func (u *OrderUsecase) Create(ctx context.Context, scope model.Scope, in CreateOrderInput) (OrderOutput, error) {
	if len(in.Lines) == 0 {
		return OrderOutput{}, errEmptyBatch()
	}
	for _, l := range in.Lines {
		if l.Quantity < 1 {
			return OrderOutput{}, errValidation("quantity must be >= 1")
		}
		if strings.TrimSpace(l.SizeLabel) == "" {
			return OrderOutput{}, errValidation("size_label is required")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 検証パス：全行の商品とサイズ行を解決して在庫を確かめる
		type resolved struct {
			item model.Item
			size model.SizeQuantity
			qty  int64
		}
		lines := make([]resolved, 0, len(in.Lines))
		for _, l := range in.Lines {
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
			if size.Quantity < l.Quantity {
				return errInsufficientStock(item.ID, item.Name, size.SizeLabel, size.Quantity, l.Quantity)
			}
			lines = append(lines, resolved{item: item, size: size, qty: l.Quantity})
		}

		order, err := r.Orders().Create(ctx, model.Order{
			WorkshopID:      scope.WorkshopID,
			Source:          in.Source,
			DeliveryAddress: in.DeliveryAddress,
			ClientPhone:     in.ClientPhone,
			Total:           decimal.Zero,
			Status:          model.OrderStatusNew,
		})
		if err != nil {
			return errDB()
		}

		// 反映パス：明細を作り、条件付き減算で引き当て、合計を積む
		total := decimal.Zero
		lineOuts := make([]OrderLineOutput, 0, len(lines))
		for _, l := range lines {
			line, err := r.Orders().CreateLine(ctx, model.OrderLineItem{
				OrderID:   order.ID,
				ItemID:    l.item.ID,
				ItemName:  l.item.Name,
				SizeLabel: l.size.SizeLabel,
				Quantity:  l.qty,
			})
			if err != nil {
				return errDB()
			}

			// 検証と反映の間に他の操作が在庫を減らしていても、
			// ここで黙って0に張り付くことはなく在庫不足として失敗する
			ok, err := r.Stock().DecrementIfEnough(ctx, l.size.ID, l.qty)
			if err != nil {
				return errDB()
			}
			if !ok {
				current, err := r.Stock().FindSize(ctx, l.item.ID, l.size.ID)
				if err != nil {
					return errDB()
				}
				return errInsufficientStock(l.item.ID, l.item.Name, l.size.SizeLabel, current.Quantity, l.qty)
			}

			if l.item.Price != nil {
				total = total.Add(l.item.Price.Mul(decimal.NewFromInt(l.qty)))
			}

			lineOuts = append(lineOuts, OrderLineOutput{
				ID:        line.ID,
				ItemID:    line.ItemID,
				ItemName:  line.ItemName,
				SizeLabel: line.SizeLabel,
				Quantity:  line.Quantity,
			})
		}

		if err := r.Orders().UpdateTotal(ctx, order.ID, total); err != nil {
			return errDB()
		}

		out = OrderOutput{
			ID:              order.ID,
			Source:          order.Source,
			DeliveryAddress: order.DeliveryAddress,
			ClientPhone:     order.ClientPhone,
			Total:           total,
			Status:          string(order.Status),
			CreatedAt:       order.CreatedAt,
			LineItems:       lineOuts,
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス遷移。制約はひとつだけ：cancelled以外→cancelled のときに在庫を戻す。
// 戻すのは一度きり（条件付きUPDATEの勝者だけが戻す）。cancelledからの復帰で再引当はしない。
func (u *OrderUsecase) SetStatus(ctx context.Context, scope model.Scope, orderID int64, status string) (OrderOutput, error) {
	newStatus := model.OrderStatus(status)
	if !newStatus.Valid() {
		return OrderOutput{}, errValidation("invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindInScope(ctx, scope, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		if newStatus == model.OrderStatusCancelled {
			// 条件付きUPDATEで遷移した側だけが在庫を戻す。
			// 競合して負けた再キャンセルは何もしないで成功する。
			won, err := r.Orders().MarkCancelled(ctx, o.ID)
			if err != nil {
				return errDB()
			}
			if won {
				if err := restoreOrderStock(ctx, r, o); err != nil {
					return err
				}
			}
		} else {
			if err := r.Orders().UpdateStatus(ctx, o.ID, newStatus); err != nil {
				return errDB()
			}
		}

		o.Status = newStatus
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// PATCH相当。自由記述フィールドの更新と、statusが来たときの遷移を1トランザクションで行う。
func (u *OrderUsecase) Patch(ctx context.Context, scope model.Scope, orderID int64, in PatchOrderInput) (OrderOutput, error) {
	if in.Status != nil && !model.OrderStatus(*in.Status).Valid() {
		return OrderOutput{}, errValidation("invalid status")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindInScope(ctx, scope, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}

		fields := map[string]interface{}{}
		if in.Source != nil {
			fields["source"] = *in.Source
			o.Source = *in.Source
		}
		if in.DeliveryAddress != nil {
			fields["delivery_address"] = *in.DeliveryAddress
			o.DeliveryAddress = *in.DeliveryAddress
		}
		if in.ClientPhone != nil {
			fields["client_phone"] = *in.ClientPhone
			o.ClientPhone = *in.ClientPhone
		}
		if in.Status != nil {
			newStatus := model.OrderStatus(*in.Status)
			if newStatus == model.OrderStatusCancelled {
				won, err := r.Orders().MarkCancelled(ctx, o.ID)
				if err != nil {
					return errDB()
				}
				if won {
					if err := restoreOrderStock(ctx, r, o); err != nil {
						return err
					}
				}
			} else {
				fields["status"] = newStatus
			}
			o.Status = newStatus
		}

		if len(fields) > 0 {
			if err := r.Orders().UpdateFields(ctx, scope, o.ID, fields); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return errNotFound()
				}
				return errDB()
			}
		}

		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) List(ctx context.Context, scope model.Scope, itemID *uuid.UUID) ([]OrderOutput, error) {
	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListInScope(ctx, scope, itemID, 100)
		if err != nil {
			return errDB()
		}
		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			outs = append(outs, toOrderOutput(o))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *OrderUsecase) Detail(ctx context.Context, scope model.Scope, orderID int64) (OrderOutput, error) {
	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindInScope(ctx, scope, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// キャンセルによる在庫復元。サイズ行が消えていても作り直して戻す。
func restoreOrderStock(ctx context.Context, r repo.TxRepos, o model.Order) error {
	lines := o.LineItems
	if len(lines) == 0 {
		got, err := r.Orders().ListLines(ctx, o.ID)
		if err != nil {
			return errDB()
		}
		lines = got
	}
	for _, l := range lines {
		size, err := r.Stock().GetOrCreateSize(ctx, l.ItemID, l.SizeLabel)
		if err != nil {
			return errDB()
		}
		if _, err := r.Stock().AdjustQuantity(ctx, size.ID, l.Quantity); err != nil {
			return errDB()
		}
	}
	return nil
}

func toOrderOutput(o model.Order) OrderOutput {
	lines := make([]OrderLineOutput, 0, len(o.LineItems))
	for _, l := range o.LineItems {
		lines = append(lines, OrderLineOutput{
			ID:        l.ID,
			ItemID:    l.ItemID,
			ItemName:  l.CurrentItemName(),
			SizeLabel: l.SizeLabel,
			Quantity:  l.Quantity,
		})
	}
	return OrderOutput{
		ID:              o.ID,
		Source:          o.Source,
		DeliveryAddress: o.DeliveryAddress,
		ClientPhone:     o.ClientPhone,
		Total:           o.Total,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		LineItems:       lines,
	}
}
