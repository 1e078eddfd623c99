package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	mock_interfaces "github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces/mocks"
)

func summaryOrder(status entities.OrderStatus, totalDue, amountPaid string) entities.Order {
	total := decimal.RequireFromString(totalDue)
	paid := decimal.RequireFromString(amountPaid)
	return entities.Order{
		ID:     "o-" + string(status),
		Status: status,
		Financials: entities.FinancialSummary{
			TotalDue:   total,
			AmountPaid: paid,
			BalanceDue: total.Sub(paid),
		},
	}
}

func TestDashboardUseCase_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("computes totals without a cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewDashboardUseCase(repo, nil, 0)

		repo.EXPECT().ListActive(gomock.Any()).Return([]entities.Order{
			summaryOrder(entities.OrderStatusPendingPayment, "1000.00", "0"),
			summaryOrder(entities.OrderStatusPartialPayment, "2000.00", "500.00"),
			summaryOrder(entities.OrderStatusPaid, "1579.50", "1579.50"),
			summaryOrder(entities.OrderStatusCancelled, "999.00", "0"),
		}, nil)

		s, err := uc.Summary(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Orders != 4 {
			t.Fatalf("expected 4 orders, got %d", s.Orders)
		}
		// Cancelled orders count in by_status but not in the money totals.
		if !s.TotalBilled.Equal(decimal.RequireFromString("4579.50")) {
			t.Fatalf("expected billed 4579.50, got %s", s.TotalBilled)
		}
		if !s.TotalCollected.Equal(decimal.RequireFromString("2079.50")) {
			t.Fatalf("expected collected 2079.50, got %s", s.TotalCollected)
		}
		if !s.TotalOutstanding.Equal(decimal.RequireFromString("2500.00")) {
			t.Fatalf("expected outstanding 2500.00, got %s", s.TotalOutstanding)
		}
		if s.ByStatus["cancelled"] != 1 || s.ByStatus["paid"] != 1 {
			t.Fatalf("unexpected status counts: %+v", s.ByStatus)
		}
	})

	t.Run("cache hit skips the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		cache := mock_interfaces.NewMockICache(ctrl)
		uc := NewDashboardUseCase(repo, cache, time.Minute)

		cache.EXPECT().GenerateKey("dashboard", "summary").Return("gaddoors:dashboard:summary")
		cache.EXPECT().Get(gomock.Any(), "gaddoors:dashboard:summary").
			Return(`{"orders":7,"total_billed":"100","total_collected":"40","total_outstanding":"60","by_status":{"paid":7}}`, nil)

		s, err := uc.Summary(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Orders != 7 || !s.TotalOutstanding.Equal(decimal.RequireFromString("60")) {
			t.Fatalf("expected the cached summary, got %+v", s)
		}
	})

	t.Run("cache miss recomputes and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		cache := mock_interfaces.NewMockICache(ctrl)
		uc := NewDashboardUseCase(repo, cache, time.Minute)

		cache.EXPECT().GenerateKey("dashboard", "summary").Return("gaddoors:dashboard:summary")
		cache.EXPECT().Get(gomock.Any(), "gaddoors:dashboard:summary").Return("", nil)
		repo.EXPECT().ListActive(gomock.Any()).Return([]entities.Order{
			summaryOrder(entities.OrderStatusPaid, "1579.50", "1579.50"),
		}, nil)
		cache.EXPECT().Set(gomock.Any(), "gaddoors:dashboard:summary", gomock.Any(), time.Minute).Return(nil)

		s, err := uc.Summary(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Orders != 1 || !s.TotalBilled.Equal(decimal.RequireFromString("1579.50")) {
			t.Fatalf("unexpected summary: %+v", s)
		}
	})

	t.Run("cache failures are not fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		cache := mock_interfaces.NewMockICache(ctrl)
		uc := NewDashboardUseCase(repo, cache, time.Minute)

		cache.EXPECT().GenerateKey("dashboard", "summary").Return("gaddoors:dashboard:summary")
		cache.EXPECT().Get(gomock.Any(), "gaddoors:dashboard:summary").Return("", errors.New("redis down"))
		repo.EXPECT().ListActive(gomock.Any()).Return([]entities.Order{}, nil)
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		s, err := uc.Summary(ctx)
		if err != nil {
			t.Fatalf("expected a degraded summary, got error: %v", err)
		}
		if s.Orders != 0 {
			t.Fatalf("expected an empty summary, got %+v", s)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIOrderRepository(ctrl)
		uc := NewDashboardUseCase(repo, nil, 0)

		wantErr := errors.New("scan failed")
		repo.EXPECT().ListActive(gomock.Any()).Return(nil, wantErr)

		if _, err := uc.Summary(ctx); !errors.Is(err, wantErr) {
			t.Fatalf("expected the store error, got %v", err)
		}
	})
}
