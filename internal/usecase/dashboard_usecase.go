package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

// DefaultSummaryTTL is the staleness window accepted for dashboard numbers.
const DefaultSummaryTTL = 60 * time.Second

// DashboardSummary aggregates the active (non-deleted) orders. It is a
// read-side view: computed by scanning the table, cached, and explicitly
// allowed to lag ledger writes by up to the cache TTL. Cancelled orders stay
// in the status counts but are excluded from the money totals.
type DashboardSummary struct {
	Orders           int             `json:"orders"`
	TotalBilled      decimal.Decimal `json:"total_billed"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	ByStatus         map[string]int  `json:"by_status"`
	ComputedAt       time.Time       `json:"computed_at"`
}

type IDashboardUseCase interface {
	Summary(ctx context.Context) (DashboardSummary, error)
}

type DashboardUseCase struct {
	repo  interfaces.IOrderRepository
	cache interfaces.ICache
	ttl   time.Duration
}

var _ IDashboardUseCase = (*DashboardUseCase)(nil)

// NewDashboardUseCase builds the dashboard read side. cache may be nil, in
// which case every call recomputes from the store.
func NewDashboardUseCase(repo interfaces.IOrderRepository, cache interfaces.ICache, ttl time.Duration) *DashboardUseCase {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &DashboardUseCase{repo: repo, cache: cache, ttl: ttl}
}

func (u *DashboardUseCase) Summary(ctx context.Context) (DashboardSummary, error) {
	var cacheKey string
	if u.cache != nil {
		cacheKey = u.cache.GenerateKey("dashboard", "summary")
		if cached, err := u.cache.Get(ctx, cacheKey); err != nil {
			log.Printf("[dashboard][usecase] cache get failed key=%s err=%v", cacheKey, err)
		} else if cached != "" {
			var s DashboardSummary
			if err := json.Unmarshal([]byte(cached), &s); err == nil {
				return s, nil
			}
			log.Printf("[dashboard][usecase] discarding unreadable cache entry key=%s", cacheKey)
		}
	}

	orders, err := u.repo.ListActive(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	s := DashboardSummary{
		Orders:           len(orders),
		TotalBilled:      decimal.Zero,
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		ByStatus:         map[string]int{},
		ComputedAt:       time.Now().UTC(),
	}
	for _, o := range orders {
		s.ByStatus[string(o.Status)]++
		if o.Status == entities.OrderStatusCancelled {
			continue
		}
		s.TotalBilled = s.TotalBilled.Add(o.Financials.TotalDue)
		s.TotalCollected = s.TotalCollected.Add(o.Financials.AmountPaid)
		s.TotalOutstanding = s.TotalOutstanding.Add(o.Financials.BalanceDue)
	}

	if u.cache != nil {
		if b, err := json.Marshal(s); err == nil {
			if err := u.cache.Set(ctx, cacheKey, string(b), u.ttl); err != nil {
				log.Printf("[dashboard][usecase] cache set failed key=%s err=%v", cacheKey, err)
			}
		}
	}
	return s, nil
}
