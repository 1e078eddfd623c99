package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

var (
	ErrInvalidPaymentAmount    = errors.New("invalid payment amount")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrMissingCheckDetails     = errors.New("missing check details")
	ErrNotReadyForInstallation = errors.New("order has not been paid")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrMissingInstallerRef     = errors.New("missing installer ref")
	ErrInvalidGatewayPayload   = errors.New("invalid gateway payload")
	ErrGatewayNotConfigured    = errors.New("payment gateway not configured")
	ErrGatewayRejected         = errors.New("payment gateway rejected the charge")
)

// PaymentInput is a payment to append to an order's ledger.
type PaymentInput struct {
	Method       entities.PaymentMethod
	Amount       decimal.Decimal
	ValueDate    time.Time
	Reference    string
	CheckDetails *entities.CheckDetails
}

// PaymentResult is the outcome of a ledger write. Overpayment is an
// annotation, not an error: the payment is recorded either way and the caller
// decides how to surface it.
type PaymentResult struct {
	Order       entities.Order
	Payment     entities.PaymentRecord
	Overpayment bool
}

// ILedgerUseCase is the only writer of payments, amount_paid, balance_due and
// payment-driven status transitions after order creation. It also owns the
// explicit operational transitions, which ride the same transaction
// primitive.

type ILedgerUseCase interface {
	AddPayment(ctx context.Context, orderID string, in PaymentInput) (PaymentResult, error)
	AddCardPaymentOnline(ctx context.Context, orderID string, amount decimal.Decimal, gatewayPayload json.RawMessage) (PaymentResult, error)
	ScheduleInstallation(ctx context.Context, orderID, installerRef string) (entities.Order, error)
	MarkInstalled(ctx context.Context, orderID string) (entities.Order, error)
	CloseOrder(ctx context.Context, orderID string) (entities.Order, error)
}

type LedgerUseCase struct {
	repo    interfaces.IOrderRepository
	gateway interfaces.IPaymentGateway
}

var _ ILedgerUseCase = (*LedgerUseCase)(nil)

func NewLedgerUseCase(repo interfaces.IOrderRepository, gateway interfaces.IPaymentGateway) *LedgerUseCase {
	return &LedgerUseCase{repo: repo, gateway: gateway}
}

// AddPayment appends a payment record and recomputes the running balance and
// payment status inside one atomic read-modify-write. The input is validated
// before any store access; a malformed payment never touches the document.
//
// An overpayment (new balance below zero) is recorded, not rejected: a
// received payment is never lost over a rounding disagreement. The result
// carries the flag for the caller to surface.
func (u *LedgerUseCase) AddPayment(ctx context.Context, orderID string, in PaymentInput) (PaymentResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return PaymentResult{}, ErrInvalidOrderID
	}
	if err := validatePayment(in); err != nil {
		return PaymentResult{}, err
	}

	now := time.Now().UTC()
	valueDate := in.ValueDate
	if valueDate.IsZero() {
		valueDate = now
	}
	record := entities.PaymentRecord{
		ID:           uuid.NewString(),
		Method:       in.Method,
		Amount:       in.Amount.Round(2),
		ValueDate:    valueDate,
		Reference:    strings.TrimSpace(in.Reference),
		CheckDetails: in.CheckDetails,
		RecordedAt:   now,
	}

	saved, err := applyVersioned(ctx, u.repo, orderID, func(o *entities.Order) error {
		if o.Status.IsTerminal() {
			return fmt.Errorf("%w: status %s", ErrOrderTerminal, o.Status)
		}
		o.Payments = append(o.Payments, record)
		o.Financials.AmountPaid = o.Financials.AmountPaid.Add(record.Amount).Round(2)
		o.Financials.BalanceDue = o.Financials.TotalDue.Sub(o.Financials.AmountPaid).Round(2)
		o.Status = entities.DerivePaymentStatus(o.Status, o.Financials.AmountPaid, o.Financials.TotalDue)
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}

	return PaymentResult{
		Order:       saved,
		Payment:     record,
		Overpayment: saved.Financials.BalanceDue.IsNegative(),
	}, nil
}

// AddCardPaymentOnline charges the client's card through the payment gateway
// and, only on an approved charge, records it as a card payment whose
// reference is the provider payment id. A gateway failure records nothing.
//
// A non-positive amount means "charge the outstanding balance".
func (u *LedgerUseCase) AddCardPaymentOnline(ctx context.Context, orderID string, amount decimal.Decimal, gatewayPayload json.RawMessage) (PaymentResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return PaymentResult{}, ErrInvalidOrderID
	}
	if u.gateway == nil {
		return PaymentResult{}, ErrGatewayNotConfigured
	}

	o, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return PaymentResult{}, err
	}
	if o.ID == "" || o.Deleted {
		return PaymentResult{}, ErrOrderNotFound
	}
	if o.Status.IsTerminal() {
		return PaymentResult{}, fmt.Errorf("%w: status %s", ErrOrderTerminal, o.Status)
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		amount = o.Financials.BalanceDue
	}
	amount = amount.Round(2)
	if amount.LessThanOrEqual(decimal.Zero) {
		return PaymentResult{}, fmt.Errorf("%w: nothing to charge", ErrInvalidPaymentAmount)
	}

	payload, err := enrichGatewayPayload(gatewayPayload, o, amount)
	if err != nil {
		return PaymentResult{}, err
	}

	providerPaymentID, providerStatus, _, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		log.Printf("[ledger][usecase] gateway charge failed order_id=%s err=%v", orderID, err)
		return PaymentResult{}, err
	}
	if providerStatus != "approved" {
		return PaymentResult{}, fmt.Errorf("%w: provider status %s", ErrGatewayRejected, providerStatus)
	}

	return u.AddPayment(ctx, orderID, PaymentInput{
		Method:    entities.PaymentMethodCard,
		Amount:    amount,
		Reference: providerPaymentID,
	})
}

// ScheduleInstallation moves a paid order onto the operational axis.
func (u *LedgerUseCase) ScheduleInstallation(ctx context.Context, orderID, installerRef string) (entities.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	installerRef = strings.TrimSpace(installerRef)
	if installerRef == "" {
		return entities.Order{}, ErrMissingInstallerRef
	}

	return applyVersioned(ctx, u.repo, orderID, func(o *entities.Order) error {
		if !o.Status.ReachedPaid() {
			return fmt.Errorf("%w: status %s", ErrNotReadyForInstallation, o.Status)
		}
		if o.Status != entities.OrderStatusPaid && o.Status != entities.OrderStatusInstallScheduled {
			return fmt.Errorf("%w: cannot schedule from %s", ErrInvalidTransition, o.Status)
		}
		o.Status = entities.OrderStatusInstallScheduled
		o.InstallerRef = installerRef
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (u *LedgerUseCase) MarkInstalled(ctx context.Context, orderID string) (entities.Order, error) {
	return u.advanceOperational(ctx, orderID, entities.OrderStatusInstallScheduled, entities.OrderStatusInstalled)
}

func (u *LedgerUseCase) CloseOrder(ctx context.Context, orderID string) (entities.Order, error) {
	return u.advanceOperational(ctx, orderID, entities.OrderStatusInstalled, entities.OrderStatusClosed)
}

func (u *LedgerUseCase) advanceOperational(ctx context.Context, orderID string, from, to entities.OrderStatus) (entities.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}

	return applyVersioned(ctx, u.repo, orderID, func(o *entities.Order) error {
		if o.Status != from {
			return fmt.Errorf("%w: cannot move %s -> %s", ErrInvalidTransition, o.Status, to)
		}
		o.Status = to
		o.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func validatePayment(in PaymentInput) error {
	if !in.Method.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.Method)
	}

	if in.Method == entities.PaymentMethodAdjustment {
		// Adjustments are signed corrections; only a zero amount is malformed.
		if in.Amount.IsZero() {
			return fmt.Errorf("%w: adjustment amount must be non-zero", ErrInvalidPaymentAmount)
		}
	} else if in.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidPaymentAmount)
	}

	if in.Method == entities.PaymentMethodCheck {
		if in.CheckDetails == nil {
			return fmt.Errorf("%w: check_details is required for check payments", ErrMissingCheckDetails)
		}
		if strings.TrimSpace(in.CheckDetails.BankName) == "" {
			return fmt.Errorf("%w: bank_name is required", ErrMissingCheckDetails)
		}
		if in.CheckDetails.ClearingDate.IsZero() {
			return fmt.Errorf("%w: clearing_date is required", ErrMissingCheckDetails)
		}
	} else if in.CheckDetails != nil {
		return fmt.Errorf("%w: check_details only allowed for check payments", ErrInvalidPaymentMethod)
	}

	return nil
}

func enrichGatewayPayload(raw json.RawMessage, o entities.Order, amount decimal.Decimal) (json.RawMessage, error) {
	payload := map[string]any{}
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return nil, ErrInvalidGatewayPayload
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
	}

	if _, ok := payload["external_reference"]; !ok {
		payload["external_reference"] = o.ID
	}
	if _, ok := payload["description"]; !ok {
		payload["description"] = fmt.Sprintf("Order %s", o.HumanID)
	}
	// The source of truth for the charge amount is the order document.
	payload["transaction_amount"] = amount.InexactFloat64()

	return json.Marshal(payload)
}
