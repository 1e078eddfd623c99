package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/adapter/http/handlers/mocks"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase"
)

func samplePaymentResult(status entities.OrderStatus, amount, balance string, overpayment bool) usecase.PaymentResult {
	order := sampleOrder(status)
	order.Financials.AmountPaid = decimal.RequireFromString(amount)
	order.Financials.BalanceDue = decimal.RequireFromString(balance)
	payment := entities.PaymentRecord{
		ID:     "p-1",
		Method: entities.PaymentMethodCash,
		Amount: decimal.RequireFromString(amount),
	}
	order.Payments = append(order.Payments, payment)
	return usecase.PaymentResult{Order: order, Payment: payment, Overpayment: overpayment}
}

func TestLedgerHandler_AddPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments", h.AddPayment)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unparseable amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments", h.AddPayment)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments", bytes.NewBufferString(`{"method":"cash","amount":"lots"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("domain validation maps to 400", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments", h.AddPayment)

		uc.EXPECT().AddPayment(gomock.Any(), "o-1", gomock.Any()).Return(usecase.PaymentResult{}, usecase.ErrMissingCheckDetails)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments", bytes.NewBufferString(`{"method":"check","amount":"500"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("terminal order maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments", h.AddPayment)

		uc.EXPECT().AddPayment(gomock.Any(), "o-1", gomock.Any()).Return(usecase.PaymentResult{}, usecase.ErrOrderTerminal)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments", bytes.NewBufferString(`{"method":"cash","amount":"100"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success with overpayment flag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments", h.AddPayment)

		uc.EXPECT().AddPayment(gomock.Any(), "o-1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, in usecase.PaymentInput) (usecase.PaymentResult, error) {
				if in.Method != entities.PaymentMethodCash || !in.Amount.Equal(decimal.RequireFromString("1600")) {
					t.Fatalf("payload not resolved: %+v", in)
				}
				return samplePaymentResult(entities.OrderStatusPaid, "1600.00", "-20.50", true), nil
			},
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments", bytes.NewBufferString(`{"method":"cash","amount":"1600"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["overpayment"] != true {
			t.Fatalf("expected overpayment flag, got %s", w.Body.String())
		}
		payment, _ := body["payment"].(map[string]any)
		if payment["id"] != "p-1" {
			t.Fatalf("unexpected payment: %s", w.Body.String())
		}
	})
}

func TestLedgerHandler_AddCardPayment(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("gateway not configured maps to 503", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments/card", h.AddCardPayment)

		uc.EXPECT().AddCardPaymentOnline(gomock.Any(), "o-1", gomock.Any(), gomock.Any()).Return(usecase.PaymentResult{}, usecase.ErrGatewayNotConfigured)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments/card", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})

	t.Run("rejected charge maps to 422", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments/card", h.AddCardPayment)

		uc.EXPECT().AddCardPaymentOnline(gomock.Any(), "o-1", gomock.Any(), gomock.Any()).Return(usecase.PaymentResult{}, usecase.ErrGatewayRejected)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments/card", bytes.NewBufferString(`{"gateway_payload":{"payment_method_id":"visa"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
	})

	t.Run("empty amount charges the balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/payments/card", h.AddCardPayment)

		uc.EXPECT().AddCardPaymentOnline(gomock.Any(), "o-1", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, _ string, amount decimal.Decimal, _ json.RawMessage) (usecase.PaymentResult, error) {
				if !amount.IsZero() {
					t.Fatalf("expected zero amount, got %s", amount)
				}
				return samplePaymentResult(entities.OrderStatusPaid, "1579.50", "0.00", false), nil
			},
		)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/payments/card", bytes.NewBufferString(`{"gateway_payload":{"payment_method_id":"visa"}}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})
}

func TestLedgerHandler_OperationalTransitions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("schedule requires installer ref", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/schedule-installation", h.ScheduleInstallation)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/schedule-installation", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("schedule before paid maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/schedule-installation", h.ScheduleInstallation)

		uc.EXPECT().ScheduleInstallation(gomock.Any(), "o-1", "installer-7").Return(entities.Order{}, usecase.ErrNotReadyForInstallation)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/schedule-installation", bytes.NewBufferString(`{"installer_ref":"installer-7"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("schedule success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/schedule-installation", h.ScheduleInstallation)

		scheduled := sampleOrder(entities.OrderStatusInstallScheduled)
		scheduled.InstallerRef = "installer-7"
		uc.EXPECT().ScheduleInstallation(gomock.Any(), "o-1", "installer-7").Return(scheduled, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/schedule-installation", bytes.NewBufferString(`{"installer_ref":"installer-7"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "installation_scheduled" || body["installer_ref"] != "installer-7" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("mark installed invalid transition maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/mark-installed", h.MarkInstalled)

		uc.EXPECT().MarkInstalled(gomock.Any(), "o-1").Return(entities.Order{}, usecase.ErrInvalidTransition)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/mark-installed", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("close success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockILedgerUseCase(ctrl)
		h := NewLedgerHandler(uc)

		r := gin.New()
		r.POST("/v1/orders/:order_id/close", h.CloseOrder)

		uc.EXPECT().CloseOrder(gomock.Any(), "o-1").Return(sampleOrder(entities.OrderStatusClosed), nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o-1/close", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "closed" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
