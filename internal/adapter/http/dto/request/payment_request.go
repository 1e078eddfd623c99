package request

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
)

type CheckDetailsRequest struct {
	BankName     string    `json:"bank_name"`
	Branch       string    `json:"branch"`
	CheckNumber  string    `json:"check_number"`
	ClearingDate time.Time `json:"clearing_date"`
}

// PaymentRequest records a manually collected payment (cash, transfer, a
// deferred check...). Validation of the business rules (amount sign, check
// fields) belongs to the ledger; this type only gets the payload across.
type PaymentRequest struct {
	Method       string               `json:"method" binding:"required"`
	Amount       string               `json:"amount" binding:"required"`
	ValueDate    *time.Time           `json:"value_date"`
	Reference    string               `json:"reference"`
	CheckDetails *CheckDetailsRequest `json:"check_details"`
}

func (r PaymentRequest) ResolveInput() (usecase.PaymentInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.PaymentInput{}, fmt.Errorf("%w: %q", ErrInvalidAmount, r.Amount)
	}

	in := usecase.PaymentInput{
		Method:    entities.PaymentMethod(r.Method),
		Amount:    amount,
		Reference: r.Reference,
	}
	if r.ValueDate != nil {
		in.ValueDate = *r.ValueDate
	}
	if r.CheckDetails != nil {
		in.CheckDetails = &entities.CheckDetails{
			BankName:     r.CheckDetails.BankName,
			Branch:       r.CheckDetails.Branch,
			CheckNumber:  r.CheckDetails.CheckNumber,
			ClearingDate: r.CheckDetails.ClearingDate,
		}
	}
	return in, nil
}

// CardPaymentRequest is the online card flow payload. An empty amount means
// "charge the outstanding balance". GatewayPayload is passed through to the
// provider untouched except for enrichment.
type CardPaymentRequest struct {
	Amount         string          `json:"amount"`
	GatewayPayload json.RawMessage `json:"gateway_payload"`
}

func (r CardPaymentRequest) ResolveAmount() (decimal.Decimal, error) {
	if r.Amount == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, r.Amount)
	}
	return amount, nil
}

// ScheduleInstallationRequest carries the opaque installer reference.
type ScheduleInstallationRequest struct {
	InstallerRef string `json:"installer_ref" binding:"required"`
}
