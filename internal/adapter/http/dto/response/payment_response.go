package response

import (
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
)

// PaymentResponse is what a ledger write returns: the appended record, the
// order as it now stands, and the overpayment annotation the UI surfaces as
// a warning rather than an error.
type PaymentResponse struct {
	Payment     PaymentRecordResponse `json:"payment"`
	Order       OrderResponse         `json:"order"`
	Overpayment bool                  `json:"overpayment"`
}

func FromPaymentResult(r usecase.PaymentResult) PaymentResponse {
	return PaymentResponse{
		Payment:     FromPaymentRecord(r.Payment),
		Order:       FromOrder(r.Order),
		Overpayment: r.Overpayment,
	}
}
