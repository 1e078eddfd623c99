package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/handlers/mocks"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/pricing"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

const createOrderBody = `{
	"client": {"name": "Dana Levi", "phone": "050-1234567"},
	"lines": [{"product_ref": "door-interior-80", "name": "Interior door 80cm", "unit_price": "1000.00", "quantity": 1}],
	"logistics": {"floor_number": 4, "has_elevator": false},
	"quote_accepted": true
}`

func sampleOrder(status entities.OrderStatus) entities.Order {
	now := time.Now().UTC()
	totalDue := decimal.RequireFromString("1579.50")
	return entities.Order{
		ID:      "o-1",
		HumanID: "GD-20260830-AB12CD",
		Client:  entities.ClientSnapshot{Name: "Dana Levi", Phone: "050-1234567"},
		Financials: entities.FinancialSummary{
			TotalDue:   totalDue,
			AmountPaid: decimal.Zero,
			BalanceDue: totalDue,
		},
		Payments:  []entities.PaymentRecord{},
		Status:    status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unparseable unit price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)

		body := `{"client":{"name":"Dana","phone":"050"},"lines":[{"product_ref":"d","name":"d","unit_price":"a lot","quantity":1}]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("pricing error maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)

		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.Order{}, pricing.ErrInvalidQuantity)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(createOrderBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("duplicate without key maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)

		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(entities.Order{}, interfaces.ErrOrderAlreadyExists)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(createOrderBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders", h.CreateOrder)

		uc.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in usecase.CreateOrderInput) (entities.Order, error) {
				if in.Client.Name != "Dana Levi" || len(in.Lines) != 1 || !in.QuoteAccepted {
					t.Fatalf("payload not resolved: %+v", in)
				}
				return sampleOrder(entities.OrderStatusPendingPayment), nil
			},
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(createOrderBody))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "o-1" || body["status"] != "pending_payment" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		financials, _ := body["financials"].(map[string]any)
		if financials["total_due"] != "1579.50" {
			t.Fatalf("expected total_due 1579.50, got %v", financials["total_due"])
		}
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.GET("/v1/orders/:order_id", h.GetOrder)

		uc.EXPECT().GetOrder(gomock.Any(), "missing").Return(entities.Order{}, usecase.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/missing", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.GET("/v1/orders/:order_id", h.GetOrder)

		uc.EXPECT().GetOrder(gomock.Any(), "o-1").Return(sampleOrder(entities.OrderStatusPaid), nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/o-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["human_id"] != "GD-20260830-AB12CD" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIOrderUseCase(ctrl)
	h := NewOrderHandler(uc)

	r := gin.New()
	r.GET("/v1/orders", h.ListOrders)

	uc.EXPECT().ListOrders(gomock.Any()).Return([]entities.Order{
		sampleOrder(entities.OrderStatusPaid),
		sampleOrder(entities.OrderStatusPendingPayment),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected a json array: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(body))
	}
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("terminal order maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/cancel", h.CancelOrder)

		uc.EXPECT().CancelOrder(gomock.Any(), "o-1").Return(entities.Order{}, usecase.ErrOrderTerminal)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/cancel", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/cancel", h.CancelOrder)

		uc.EXPECT().CancelOrder(gomock.Any(), "o-1").Return(sampleOrder(entities.OrderStatusCancelled), nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/cancel", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "cancelled" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("write conflict maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.DELETE("/v1/orders/:order_id", h.DeleteOrder)

		uc.EXPECT().DeleteOrder(gomock.Any(), "o-1").Return(entities.Order{}, usecase.ErrWriteConflict)

		req := httptest.NewRequest(http.MethodDelete, "/v1/orders/o-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.DELETE("/v1/orders/:order_id", h.DeleteOrder)

		uc.EXPECT().DeleteOrder(gomock.Any(), "o-1").Return(entities.Order{}, errors.New("dynamo exploded"))

		req := httptest.NewRequest(http.MethodDelete, "/v1/orders/o-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIOrderUseCase(ctrl)
		h := NewOrderHandler(uc)

		r := gin.New()
		r.DELETE("/v1/orders/:order_id", h.DeleteOrder)

		uc.EXPECT().DeleteOrder(gomock.Any(), "o-1").Return(sampleOrder(entities.OrderStatusPaid), nil)

		req := httptest.NewRequest(http.MethodDelete, "/v1/orders/o-1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}
