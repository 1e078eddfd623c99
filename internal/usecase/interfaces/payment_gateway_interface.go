package interfaces

import (
	"context"
	"encoding/json"
)

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// The ledger uses it only for the online card flow: create/process a charge
// and keep the provider response payload for traceability. Manually recorded
// payments (cash, transfer, check...) never touch it.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error)
}
