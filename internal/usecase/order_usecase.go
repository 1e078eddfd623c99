package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/pricing"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidOrderID = errors.New("invalid order id")
	ErrOrderTerminal  = errors.New("order is in a terminal state")
)

// CreateOrderInput is the cart + logistics command that becomes an order.
//
// IdempotencyKey is optional. When supplied it becomes the order id, so a
// retried create resolves to the already-created order instead of a
// duplicate.
type CreateOrderInput struct {
	Client         entities.ClientSnapshot
	Lines          []entities.CartLine
	Logistics      entities.LogisticsInfo
	QuoteAccepted  bool
	IdempotencyKey string
}

// IOrderUseCase exposes order lifecycle operations outside the payment
// ledger: creation (the pricing & snapshot build), reads, cancellation and
// soft deletion.

type IOrderUseCase interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error)
	GetOrder(ctx context.Context, id string) (entities.Order, error)
	ListOrders(ctx context.Context) ([]entities.Order, error)
	CancelOrder(ctx context.Context, id string) (entities.Order, error)
	DeleteOrder(ctx context.Context, id string) (entities.Order, error)
}

type OrderUseCase struct {
	repo  interfaces.IOrderRepository
	rates pricing.Rates
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, rates pricing.Rates) *OrderUseCase {
	return &OrderUseCase{repo: repo, rates: rates}
}

// CreateOrder freezes the cart into a priced order. The snapshot is computed
// once, here; the order never re-reads catalog prices or rates afterwards.
// Validation failures leave the store untouched.
func (u *OrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, error) {
	lines, logistics, financials, err := pricing.Build(in.Client, in.Lines, in.Logistics, u.rates)
	if err != nil {
		return entities.Order{}, err
	}

	id := strings.TrimSpace(in.IdempotencyKey)
	fromKey := id != ""
	if !fromKey {
		id = uuid.NewString()
	}

	status := entities.OrderStatusDraft
	if in.QuoteAccepted {
		status = entities.OrderStatusPendingPayment
	}

	now := time.Now().UTC()
	o := entities.Order{
		ID:         id,
		HumanID:    newHumanID(now),
		Client:     in.Client,
		Lines:      lines,
		Logistics:  logistics,
		Financials: financials,
		Payments:   []entities.PaymentRecord{},
		Status:     status,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := u.repo.Create(ctx, o)
	if err != nil {
		if fromKey && errors.Is(err, interfaces.ErrOrderAlreadyExists) {
			// Retried request: the order was already created under this key.
			existing, getErr := u.repo.GetByID(ctx, id)
			if getErr != nil {
				return entities.Order{}, getErr
			}
			if existing.ID == "" {
				return entities.Order{}, err
			}
			return existing, nil
		}
		return entities.Order{}, err
	}
	return created, nil
}

func (u *OrderUseCase) GetOrder(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Order{}, err
	}
	if o.ID == "" || o.Deleted {
		return entities.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func (u *OrderUseCase) ListOrders(ctx context.Context) ([]entities.Order, error) {
	return u.repo.ListActive(ctx)
}

// CancelOrder moves any non-terminal order to cancelled.
func (u *OrderUseCase) CancelOrder(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	return applyVersioned(ctx, u.repo, id, func(o *entities.Order) error {
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: status %s", ErrOrderTerminal, o.Status)
		}
		o.Status = entities.OrderStatusCancelled
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// DeleteOrder is a soft delete: the document stays, payment ledger included,
// as an audit trail. Deleted orders disappear from reads.
func (u *OrderUseCase) DeleteOrder(ctx context.Context, id string) (entities.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	return applyVersioned(ctx, u.repo, id, func(o *entities.Order) error {
		o.Deleted = true
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func newHumanID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("GD-%s-%s", now.Format("20060102"), suffix)
}
