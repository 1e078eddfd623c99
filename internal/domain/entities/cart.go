package entities

import "github.com/shopspring/decimal"

// CartLine is a transient cart entry owned by the UI. It is never persisted
// as-is: order creation freezes it into an OrderLineSnapshot with a
// recomputed line total.
type CartLine struct {
	ProductRef string            `json:"product_ref"`
	Name       string            `json:"name"`
	UnitPrice  decimal.Decimal   `json:"unit_price"`
	Quantity   int               `json:"quantity"`
	Specs      map[string]string `json:"specs,omitempty"`
	RoomLabel  string            `json:"room_label,omitempty"`
}
