package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle of a priced order.
//
// Domain notes:
//   - The payment axis (draft -> pending_payment -> partial_payment -> paid)
//     is derived from amount_paid vs total_due, never set directly.
//   - The operational axis (installation_scheduled -> installed -> closed) is
//     advanced only by explicit calls and requires the payment axis to have
//     reached paid first.
//   - cancelled is reachable from any non-terminal state.

type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusPendingPayment   OrderStatus = "pending_payment"
	OrderStatusPartialPayment   OrderStatus = "partial_payment"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusInstallScheduled OrderStatus = "installation_scheduled"
	OrderStatusInstalled        OrderStatus = "installed"
	OrderStatusClosed           OrderStatus = "closed"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	OrderStatusDraft:            0,
	OrderStatusPendingPayment:   1,
	OrderStatusPartialPayment:   2,
	OrderStatusPaid:             3,
	OrderStatusInstallScheduled: 4,
	OrderStatusInstalled:        5,
	OrderStatusClosed:           6,
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusClosed || s == OrderStatusCancelled
}

// IsOperational reports whether the order entered the operational axis.
func (s OrderStatus) IsOperational() bool {
	return s == OrderStatusInstallScheduled || s == OrderStatusInstalled || s == OrderStatusClosed
}

// ReachedPaid reports whether the payment axis reached paid at least once.
func (s OrderStatus) ReachedPaid() bool {
	return s == OrderStatusPaid || s.IsOperational()
}

// PaymentTolerance absorbs rounding disagreements when comparing amount_paid
// against total_due: one cent.
var PaymentTolerance = decimal.New(1, -2)

// DerivePaymentStatus recomputes the payment-axis status for an order that
// currently has status current and the given running totals.
//
// The function is idempotent and monotone: it only ever advances status
// forward along the payment axis. Operational and terminal states are
// returned unchanged, so a late adjustment payment on an installed order
// never moves it.
func DerivePaymentStatus(current OrderStatus, amountPaid, totalDue decimal.Decimal) OrderStatus {
	if current == OrderStatusCancelled || current.IsOperational() {
		return current
	}

	candidate := current
	switch {
	case amountPaid.GreaterThanOrEqual(totalDue.Sub(PaymentTolerance)):
		candidate = OrderStatusPaid
	case amountPaid.GreaterThan(decimal.Zero):
		candidate = OrderStatusPartialPayment
	}

	if statusRank[candidate] > statusRank[current] {
		return candidate
	}
	return current
}

// PaymentMethod enumerates how a payment entered the ledger.
//
// adjustment is the only correction mechanism: a signed amount appended as a
// new record. Committed records are never edited or removed.

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodTransfer     PaymentMethod = "transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileWallet PaymentMethod = "mobile_wallet"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodAdjustment   PaymentMethod = "adjustment"
)

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard,
		PaymentMethodMobileWallet, PaymentMethodCheck, PaymentMethodAdjustment:
		return true
	}
	return false
}

// CheckDetails describes a deferred bank check. ClearingDate is recorded, not
// enforced; actual bank clearing is an external operational concern.
type CheckDetails struct {
	BankName     string    `json:"bank_name"`
	Branch       string    `json:"branch,omitempty"`
	CheckNumber  string    `json:"check_number,omitempty"`
	ClearingDate time.Time `json:"clearing_date"`
}

// PaymentRecord is one append-only ledger entry. Once committed it is never
// edited or deleted; corrections are new adjustment records.
type PaymentRecord struct {
	ID           string          `json:"id"`
	Method       PaymentMethod   `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	ValueDate    time.Time       `json:"value_date"`
	Reference    string          `json:"reference,omitempty"`
	CheckDetails *CheckDetails   `json:"check_details,omitempty"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

// OrderLineSnapshot is a cart line frozen at order creation. Unit price and
// line total never track the live catalog afterwards.
type OrderLineSnapshot struct {
	ProductRef          string            `json:"product_ref"`
	Name                string            `json:"name"`
	UnitPriceAtCreation decimal.Decimal   `json:"unit_price_at_creation"`
	Quantity            int               `json:"quantity"`
	LineTotal           decimal.Decimal   `json:"line_total"`
	Specs               map[string]string `json:"specs,omitempty"`
	RoomLabel           string            `json:"room_label,omitempty"`
}

// LogisticsInfo carries the delivery parameters and the delivery cost derived
// from them at creation time.
type LogisticsInfo struct {
	Zone         string          `json:"zone"`
	FloorNumber  int             `json:"floor_number"`
	HasElevator  bool            `json:"has_elevator"`
	DeliveryCost decimal.Decimal `json:"delivery_cost"`
}

// FinancialSummary is the frozen monetary breakdown of an order. Only
// AmountPaid and BalanceDue mutate after creation, and only through the
// ledger. BalanceDue may go negative to represent an overpayment.
type FinancialSummary struct {
	SubTotal      decimal.Decimal `json:"sub_total"`
	LogisticsCost decimal.Decimal `json:"logistics_cost"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	TotalDue      decimal.Decimal `json:"total_due"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
}

// ClientSnapshot is the contact info copied onto the order at creation.
// Opaque to the ledger beyond presence of name and phone.
type ClientSnapshot struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is the aggregate persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - the whole aggregate, payments array included, lives in one item so a
//     single conditional PutItem gives atomic read-modify-write
//
// Concurrency:
//   - Version is the optimistic-concurrency counter; every ledger write is
//     conditional on the stored version and bumps it by one.
//
// Deletion:
//   - Deleted is a soft flag; the payment ledger is an audit trail and is
//     never physically removed.

type Order struct {
	ID           string              `json:"id"`
	HumanID      string              `json:"human_id"`
	Client       ClientSnapshot      `json:"client"`
	Lines        []OrderLineSnapshot `json:"lines"`
	Logistics    LogisticsInfo       `json:"logistics"`
	Financials   FinancialSummary    `json:"financials"`
	Payments     []PaymentRecord     `json:"payments"`
	Status       OrderStatus         `json:"status"`
	InstallerRef string              `json:"installer_ref,omitempty"`
	Version      int64               `json:"version"`
	Deleted      bool                `json:"deleted"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}
