package request

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
)

var ErrInvalidAmount = errors.New("invalid amount")

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type CartLineRequest struct {
	ProductRef string            `json:"product_ref" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	UnitPrice  string            `json:"unit_price" binding:"required"`
	Quantity   int               `json:"quantity" binding:"required"`
	Specs      map[string]string `json:"specs"`
	RoomLabel  string            `json:"room_label"`
}

type LogisticsRequest struct {
	Zone        string `json:"zone"`
	FloorNumber int    `json:"floor_number"`
	HasElevator bool   `json:"has_elevator"`
}

// CreateOrderRequest is the cart payload the admin console posts. Monetary
// amounts travel as strings and are parsed into decimals, never floats.
type CreateOrderRequest struct {
	Client         ClientRequest     `json:"client" binding:"required"`
	Lines          []CartLineRequest `json:"lines" binding:"required"`
	Logistics      LogisticsRequest  `json:"logistics"`
	QuoteAccepted  bool              `json:"quote_accepted"`
	IdempotencyKey string            `json:"idempotency_key"`
}

func (r CreateOrderRequest) ResolveClient() entities.ClientSnapshot {
	return entities.ClientSnapshot{
		Name:    r.Client.Name,
		Phone:   r.Client.Phone,
		Email:   r.Client.Email,
		Address: r.Client.Address,
	}
}

func (r CreateOrderRequest) ResolveLines() ([]entities.CartLine, error) {
	lines := make([]entities.CartLine, 0, len(r.Lines))
	for i, l := range r.Lines {
		unitPrice, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d unit_price %q", ErrInvalidAmount, i, l.UnitPrice)
		}
		lines = append(lines, entities.CartLine{
			ProductRef: l.ProductRef,
			Name:       l.Name,
			UnitPrice:  unitPrice,
			Quantity:   l.Quantity,
			Specs:      l.Specs,
			RoomLabel:  l.RoomLabel,
		})
	}
	return lines, nil
}

func (r CreateOrderRequest) ResolveLogistics() entities.LogisticsInfo {
	return entities.LogisticsInfo{
		Zone:        r.Logistics.Zone,
		FloorNumber: r.Logistics.FloorNumber,
		HasElevator: r.Logistics.HasElevator,
	}
}
