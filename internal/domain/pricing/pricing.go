package pricing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
)

var (
	ErrEmptyCart        = errors.New("cart has no lines")
	ErrInvalidQuantity  = errors.New("invalid line quantity")
	ErrInvalidUnitPrice = errors.New("invalid line unit price")
	ErrInvalidClient    = errors.New("invalid client snapshot")
	ErrInvalidLogistics = errors.New("invalid logistics info")
)

const (
	defaultBaseDeliveryCost = "250"
	defaultFloorSurcharge   = "50"
	defaultVATRate          = "0.17"

	// Floors above this threshold attract the per-floor surcharge when there
	// is no elevator.
	surchargeFreeFloors = 2
)

// Rates are the pricing inputs that are not part of the cart: delivery fees
// and the flat VAT rate. They are read once at startup; orders snapshot the
// resulting amounts so later rate changes never touch existing orders.
type Rates struct {
	BaseDeliveryCost decimal.Decimal
	FloorSurcharge   decimal.Decimal
	VATRate          decimal.Decimal
}

// RatesFromEnv loads Rates from environment variables with business defaults.
//
// Supported env vars:
//   - BASE_DELIVERY_COST (default: 250)
//   - FLOOR_SURCHARGE (default: 50, per floor above the 2nd without elevator)
//   - VAT_RATE (default: 0.17)
func RatesFromEnv() Rates {
	return Rates{
		BaseDeliveryCost: decimalFromEnv("BASE_DELIVERY_COST", defaultBaseDeliveryCost),
		FloorSurcharge:   decimalFromEnv("FLOOR_SURCHARGE", defaultFloorSurcharge),
		VATRate:          decimalFromEnv("VAT_RATE", defaultVATRate),
	}
}

func decimalFromEnv(key, def string) decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		d, _ = decimal.NewFromString(def)
	}
	return d
}

// DeliveryCost derives the delivery fee for the given logistics parameters:
// the base fee, plus a per-floor surcharge applied only when the delivery
// floor is above the surcharge-free threshold and there is no elevator.
func DeliveryCost(floorNumber int, hasElevator bool, rates Rates) decimal.Decimal {
	cost := rates.BaseDeliveryCost
	if floorNumber > surchargeFreeFloors && !hasElevator {
		extra := rates.FloorSurcharge.Mul(decimal.NewFromInt(int64(floorNumber - surchargeFreeFloors)))
		cost = cost.Add(extra)
	}
	return cost.Round(2)
}

// Build freezes a cart into order line snapshots, priced logistics and a
// financial summary.
//
// The computation order is fixed: line totals, items total, delivery cost,
// sub total, VAT amount, total due. Every monetary value is rounded to 2
// places at the point it is computed so repeated reads can never drift.
//
// Validation runs before any computation and Build has no side effects, so a
// failed call leaves nothing behind.
func Build(client entities.ClientSnapshot, lines []entities.CartLine, logistics entities.LogisticsInfo, rates Rates) ([]entities.OrderLineSnapshot, entities.LogisticsInfo, entities.FinancialSummary, error) {
	if err := validate(client, lines, logistics); err != nil {
		return nil, entities.LogisticsInfo{}, entities.FinancialSummary{}, err
	}

	snapshots := make([]entities.OrderLineSnapshot, 0, len(lines))
	itemsTotal := decimal.Zero
	for _, line := range lines {
		unitPrice := line.UnitPrice.Round(2)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		itemsTotal = itemsTotal.Add(lineTotal)

		snapshots = append(snapshots, entities.OrderLineSnapshot{
			ProductRef:          line.ProductRef,
			Name:                line.Name,
			UnitPriceAtCreation: unitPrice,
			Quantity:            line.Quantity,
			LineTotal:           lineTotal,
			Specs:               line.Specs,
			RoomLabel:           line.RoomLabel,
		})
	}
	itemsTotal = itemsTotal.Round(2)

	logistics.DeliveryCost = DeliveryCost(logistics.FloorNumber, logistics.HasElevator, rates)

	subTotal := itemsTotal.Add(logistics.DeliveryCost).Round(2)
	vatAmount := subTotal.Mul(rates.VATRate).Round(2)
	totalDue := subTotal.Add(vatAmount).Round(2)

	financials := entities.FinancialSummary{
		SubTotal:      subTotal,
		LogisticsCost: logistics.DeliveryCost,
		VATRate:       rates.VATRate,
		VATAmount:     vatAmount,
		TotalDue:      totalDue,
		AmountPaid:    decimal.Zero,
		BalanceDue:    totalDue,
	}
	return snapshots, logistics, financials, nil
}

func validate(client entities.ClientSnapshot, lines []entities.CartLine, logistics entities.LogisticsInfo) error {
	if strings.TrimSpace(client.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidClient)
	}
	if strings.TrimSpace(client.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidClient)
	}
	if len(lines) == 0 {
		return ErrEmptyCart
	}
	for i, line := range lines {
		if line.Quantity < 1 {
			return fmt.Errorf("%w: line %d quantity must be >= 1", ErrInvalidQuantity, i)
		}
		if line.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d unit price must be >= 0", ErrInvalidUnitPrice, i)
		}
	}
	if logistics.FloorNumber < 0 {
		return fmt.Errorf("%w: floor number must be >= 0", ErrInvalidLogistics)
	}
	return nil
}
