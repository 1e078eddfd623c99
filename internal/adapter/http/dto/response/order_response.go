package response

import (
	"time"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
)

type ClientResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type OrderLineResponse struct {
	ProductRef          string            `json:"product_ref"`
	Name                string            `json:"name"`
	UnitPriceAtCreation string            `json:"unit_price_at_creation"`
	Quantity            int               `json:"quantity"`
	LineTotal           string            `json:"line_total"`
	Specs               map[string]string `json:"specs,omitempty"`
	RoomLabel           string            `json:"room_label,omitempty"`
}

type LogisticsResponse struct {
	Zone         string `json:"zone"`
	FloorNumber  int    `json:"floor_number"`
	HasElevator  bool   `json:"has_elevator"`
	DeliveryCost string `json:"delivery_cost"`
}

type FinancialsResponse struct {
	SubTotal      string `json:"sub_total"`
	LogisticsCost string `json:"logistics_cost"`
	VATRate       string `json:"vat_rate"`
	VATAmount     string `json:"vat_amount"`
	TotalDue      string `json:"total_due"`
	AmountPaid    string `json:"amount_paid"`
	BalanceDue    string `json:"balance_due"`
}

type CheckDetailsResponse struct {
	BankName     string    `json:"bank_name"`
	Branch       string    `json:"branch,omitempty"`
	CheckNumber  string    `json:"check_number,omitempty"`
	ClearingDate time.Time `json:"clearing_date"`
}

type PaymentRecordResponse struct {
	ID           string                `json:"id"`
	Method       string                `json:"method"`
	Amount       string                `json:"amount"`
	ValueDate    time.Time             `json:"value_date"`
	Reference    string                `json:"reference,omitempty"`
	CheckDetails *CheckDetailsResponse `json:"check_details,omitempty"`
	RecordedAt   time.Time             `json:"recorded_at"`
}

// OrderResponse is the wire representation of an order. Monetary values are
// rendered as fixed 2-decimal strings.
type OrderResponse struct {
	ID           string                  `json:"id"`
	HumanID      string                  `json:"human_id"`
	Client       ClientResponse          `json:"client"`
	Lines        []OrderLineResponse     `json:"lines"`
	Logistics    LogisticsResponse       `json:"logistics"`
	Financials   FinancialsResponse      `json:"financials"`
	Payments     []PaymentRecordResponse `json:"payments"`
	Status       string                  `json:"status"`
	InstallerRef string                  `json:"installer_ref,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func FromOrder(o entities.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductRef:          l.ProductRef,
			Name:                l.Name,
			UnitPriceAtCreation: l.UnitPriceAtCreation.StringFixed(2),
			Quantity:            l.Quantity,
			LineTotal:           l.LineTotal.StringFixed(2),
			Specs:               l.Specs,
			RoomLabel:           l.RoomLabel,
		})
	}

	payments := make([]PaymentRecordResponse, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, FromPaymentRecord(p))
	}

	return OrderResponse{
		ID:      o.ID,
		HumanID: o.HumanID,
		Client: ClientResponse{
			Name:    o.Client.Name,
			Phone:   o.Client.Phone,
			Email:   o.Client.Email,
			Address: o.Client.Address,
		},
		Lines: lines,
		Logistics: LogisticsResponse{
			Zone:         o.Logistics.Zone,
			FloorNumber:  o.Logistics.FloorNumber,
			HasElevator:  o.Logistics.HasElevator,
			DeliveryCost: o.Logistics.DeliveryCost.StringFixed(2),
		},
		Financials: FinancialsResponse{
			SubTotal:      o.Financials.SubTotal.StringFixed(2),
			LogisticsCost: o.Financials.LogisticsCost.StringFixed(2),
			VATRate:       o.Financials.VATRate.String(),
			VATAmount:     o.Financials.VATAmount.StringFixed(2),
			TotalDue:      o.Financials.TotalDue.StringFixed(2),
			AmountPaid:    o.Financials.AmountPaid.StringFixed(2),
			BalanceDue:    o.Financials.BalanceDue.StringFixed(2),
		},
		Payments:     payments,
		Status:       string(o.Status),
		InstallerRef: o.InstallerRef,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}

func FromPaymentRecord(p entities.PaymentRecord) PaymentRecordResponse {
	res := PaymentRecordResponse{
		ID:         p.ID,
		Method:     string(p.Method),
		Amount:     p.Amount.StringFixed(2),
		ValueDate:  p.ValueDate,
		Reference:  p.Reference,
		RecordedAt: p.RecordedAt,
	}
	if p.CheckDetails != nil {
		res.CheckDetails = &CheckDetailsResponse{
			BankName:     p.CheckDetails.BankName,
			Branch:       p.CheckDetails.Branch,
			CheckNumber:  p.CheckDetails.CheckNumber,
			ClearingDate: p.CheckDetails.ClearingDate,
		}
	}
	return res
}
