package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultOrdersTableName = "orders"

type checkDetailsItem struct {
	BankName     string `dynamodbav:"bank_name"`
	Branch       string `dynamodbav:"branch,omitempty"`
	CheckNumber  string `dynamodbav:"check_number,omitempty"`
	ClearingDate string `dynamodbav:"clearing_date"`
}

type paymentRecordItem struct {
	ID           string            `dynamodbav:"id"`
	Method       string            `dynamodbav:"method"`
	Amount       string            `dynamodbav:"amount"`
	ValueDate    string            `dynamodbav:"value_date"`
	Reference    string            `dynamodbav:"reference,omitempty"`
	CheckDetails *checkDetailsItem `dynamodbav:"check_details,omitempty"`
	RecordedAt   string            `dynamodbav:"recorded_at"`
}

type orderLineItem struct {
	ProductRef string            `dynamodbav:"product_ref"`
	Name       string            `dynamodbav:"name"`
	UnitPrice  string            `dynamodbav:"unit_price_at_creation"`
	Quantity   int               `dynamodbav:"quantity"`
	LineTotal  string            `dynamodbav:"line_total"`
	Specs      map[string]string `dynamodbav:"specs,omitempty"`
	RoomLabel  string            `dynamodbav:"room_label,omitempty"`
}

type logisticsItem struct {
	Zone         string `dynamodbav:"zone"`
	FloorNumber  int    `dynamodbav:"floor_number"`
	HasElevator  bool   `dynamodbav:"has_elevator"`
	DeliveryCost string `dynamodbav:"delivery_cost"`
}

type financialsItem struct {
	SubTotal      string `dynamodbav:"sub_total"`
	LogisticsCost string `dynamodbav:"logistics_cost"`
	VATRate       string `dynamodbav:"vat_rate"`
	VATAmount     string `dynamodbav:"vat_amount"`
	TotalDue      string `dynamodbav:"total_due"`
	AmountPaid    string `dynamodbav:"amount_paid"`
	BalanceDue    string `dynamodbav:"balance_due"`
}

type clientItem struct {
	Name    string `dynamodbav:"name"`
	Phone   string `dynamodbav:"phone"`
	Email   string `dynamodbav:"email,omitempty"`
	Address string `dynamodbav:"address,omitempty"`
}

type orderItem struct {
	ID           string              `dynamodbav:"id"`
	HumanID      string              `dynamodbav:"human_id"`
	Client       clientItem          `dynamodbav:"client"`
	Lines        []orderLineItem     `dynamodbav:"lines"`
	Logistics    logisticsItem       `dynamodbav:"logistics"`
	Financials   financialsItem      `dynamodbav:"financials"`
	Payments     []paymentRecordItem `dynamodbav:"payments"`
	Status       string              `dynamodbav:"status"`
	InstallerRef string              `dynamodbav:"installer_ref,omitempty"`
	Version      int64               `dynamodbav:"version"`
	Deleted      bool                `dynamodbav:"deleted"`
	CreatedAt    string              `dynamodbav:"created_at"`
	UpdatedAt    string              `dynamodbav:"updated_at"`
}

// OrderDynamoRepository persists the Order aggregate in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// The whole aggregate, payments array included, lives in one item: a single
// conditional PutItem is the atomic read-modify-write the ledger needs, and
// the array gives ordered append for free.
//
// Monetary values are stored as strings so DynamoDB never renegotiates the
// decimal representation.

type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client) *OrderDynamoRepository {
	return &OrderDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ORDERS_TABLE", defaultOrdersTableName),
	}
}

// Create writes the order once, failing with ErrOrderAlreadyExists if the id
// is taken. With an idempotency-key id that failure means "already created".
func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, interfaces.ErrOrderAlreadyExists
		}
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

// SaveVersioned replaces the whole document, conditional on the stored
// version still being expectedVersion, and bumps the version. A conditional
// check failure surfaces as ErrVersionConflict so the usecase can re-read
// and reapply instead of clobbering a concurrent write.
func (r *OrderDynamoRepository) SaveVersioned(ctx context.Context, o entities.Order, expectedVersion int64) (entities.Order, error) {
	o.Version = expectedVersion + 1

	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_exists(#id) AND #version = :expected"),
		ExpressionAttributeNames: map[string]string{
			"#id":      "id",
			"#version": "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Order{}, interfaces.ErrVersionConflict
		}
		return entities.Order{}, err
	}
	return o, nil
}

// ListActive scans the table for non-deleted orders. This feeds listings and
// the dashboard read side only; ledger writes never depend on it.
func (r *OrderDynamoRepository) ListActive(ctx context.Context) ([]entities.Order, error) {
	orders := []entities.Order{}

	var startKey map[string]types.AttributeValue
	for {
		out, err := r.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.tableName),
			FilterExpression: aws.String("#deleted = :false"),
			ExpressionAttributeNames: map[string]string{
				"#deleted": "deleted",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":false": &types.AttributeValueMemberBOOL{Value: false},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}

		var items []orderItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, err
		}
		for _, it := range items {
			orders = append(orders, fromOrderItem(it))
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return orders, nil
}

func toOrderItem(o entities.Order) orderItem {
	lines := make([]orderLineItem, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineItem{
			ProductRef: l.ProductRef,
			Name:       l.Name,
			UnitPrice:  l.UnitPriceAtCreation.String(),
			Quantity:   l.Quantity,
			LineTotal:  l.LineTotal.String(),
			Specs:      l.Specs,
			RoomLabel:  l.RoomLabel,
		})
	}

	payments := make([]paymentRecordItem, 0, len(o.Payments))
	for _, p := range o.Payments {
		payments = append(payments, toPaymentRecordItem(p))
	}

	return orderItem{
		ID:      o.ID,
		HumanID: o.HumanID,
		Client: clientItem{
			Name:    o.Client.Name,
			Phone:   o.Client.Phone,
			Email:   o.Client.Email,
			Address: o.Client.Address,
		},
		Lines: lines,
		Logistics: logisticsItem{
			Zone:         o.Logistics.Zone,
			FloorNumber:  o.Logistics.FloorNumber,
			HasElevator:  o.Logistics.HasElevator,
			DeliveryCost: o.Logistics.DeliveryCost.String(),
		},
		Financials: financialsItem{
			SubTotal:      o.Financials.SubTotal.String(),
			LogisticsCost: o.Financials.LogisticsCost.String(),
			VATRate:       o.Financials.VATRate.String(),
			VATAmount:     o.Financials.VATAmount.String(),
			TotalDue:      o.Financials.TotalDue.String(),
			AmountPaid:    o.Financials.AmountPaid.String(),
			BalanceDue:    o.Financials.BalanceDue.String(),
		},
		Payments:     payments,
		Status:       string(o.Status),
		InstallerRef: o.InstallerRef,
		Version:      o.Version,
		Deleted:      o.Deleted,
		CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    o.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	lines := make([]entities.OrderLineSnapshot, 0, len(it.Lines))
	for _, l := range it.Lines {
		lines = append(lines, entities.OrderLineSnapshot{
			ProductRef:          l.ProductRef,
			Name:                l.Name,
			UnitPriceAtCreation: decimalFromString(l.UnitPrice),
			Quantity:            l.Quantity,
			LineTotal:           decimalFromString(l.LineTotal),
			Specs:               l.Specs,
			RoomLabel:           l.RoomLabel,
		})
	}

	payments := make([]entities.PaymentRecord, 0, len(it.Payments))
	for _, p := range it.Payments {
		payments = append(payments, fromPaymentRecordItem(p))
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)

	return entities.Order{
		ID:      it.ID,
		HumanID: it.HumanID,
		Client: entities.ClientSnapshot{
			Name:    it.Client.Name,
			Phone:   it.Client.Phone,
			Email:   it.Client.Email,
			Address: it.Client.Address,
		},
		Lines: lines,
		Logistics: entities.LogisticsInfo{
			Zone:         it.Logistics.Zone,
			FloorNumber:  it.Logistics.FloorNumber,
			HasElevator:  it.Logistics.HasElevator,
			DeliveryCost: decimalFromString(it.Logistics.DeliveryCost),
		},
		Financials: entities.FinancialSummary{
			SubTotal:      decimalFromString(it.Financials.SubTotal),
			LogisticsCost: decimalFromString(it.Financials.LogisticsCost),
			VATRate:       decimalFromString(it.Financials.VATRate),
			VATAmount:     decimalFromString(it.Financials.VATAmount),
			TotalDue:      decimalFromString(it.Financials.TotalDue),
			AmountPaid:    decimalFromString(it.Financials.AmountPaid),
			BalanceDue:    decimalFromString(it.Financials.BalanceDue),
		},
		Payments:     payments,
		Status:       entities.OrderStatus(it.Status),
		InstallerRef: it.InstallerRef,
		Version:      it.Version,
		Deleted:      it.Deleted,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func toPaymentRecordItem(p entities.PaymentRecord) paymentRecordItem {
	it := paymentRecordItem{
		ID:         p.ID,
		Method:     string(p.Method),
		Amount:     p.Amount.String(),
		ValueDate:  p.ValueDate.UTC().Format(time.RFC3339Nano),
		Reference:  p.Reference,
		RecordedAt: p.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
	if p.CheckDetails != nil {
		it.CheckDetails = &checkDetailsItem{
			BankName:     p.CheckDetails.BankName,
			Branch:       p.CheckDetails.Branch,
			CheckNumber:  p.CheckDetails.CheckNumber,
			ClearingDate: p.CheckDetails.ClearingDate.UTC().Format(time.RFC3339Nano),
		}
	}
	return it
}

func fromPaymentRecordItem(it paymentRecordItem) entities.PaymentRecord {
	valueDate, _ := time.Parse(time.RFC3339Nano, it.ValueDate)
	recordedAt, _ := time.Parse(time.RFC3339Nano, it.RecordedAt)

	p := entities.PaymentRecord{
		ID:         it.ID,
		Method:     entities.PaymentMethod(it.Method),
		Amount:     decimalFromString(it.Amount),
		ValueDate:  valueDate,
		Reference:  it.Reference,
		RecordedAt: recordedAt,
	}
	if it.CheckDetails != nil {
		clearingDate, _ := time.Parse(time.RFC3339Nano, it.CheckDetails.ClearingDate)
		p.CheckDetails = &entities.CheckDetails{
			BankName:     it.CheckDetails.BankName,
			Branch:       it.CheckDetails.Branch,
			CheckNumber:  it.CheckDetails.CheckNumber,
			ClearingDate: clearingDate,
		}
	}
	return p
}

func decimalFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
