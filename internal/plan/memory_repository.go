package plan

import (
	"context"
	"sort"
	"sync"

	"github.com/pawroute/pawroute/internal/safety"
)

// InMemoryRepository is an in-memory implementation of Repository.
// Used in tests and when the API runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	plans   map[string]*Plan
	logs    map[string]*RecommendationLog
	coupons map[string]*Coupon
}

// NewInMemoryRepository creates a new in-memory plan repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		plans:   make(map[string]*Plan),
		logs:    make(map[string]*RecommendationLog),
		coupons: make(map[string]*Coupon),
	}
}

// CreatePlan stores a new plan.
func (r *InMemoryRepository) CreatePlan(_ context.Context, p *Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[p.ID] = copyPlan(p)
	return nil
}

// GetPlan retrieves a plan by user ID and plan ID.
func (r *InMemoryRepository) GetPlan(_ context.Context, userID, planID string) (*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[planID]
	if !ok || p.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return copyPlan(p), nil
}

// ListPlans retrieves a user's plans, newest first.
func (r *InMemoryRepository) ListPlans(_ context.Context, userID string, opts ListOptions) ([]*Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*Plan
	for _, p := range r.plans {
		if p.UserID == userID {
			plans = append(plans, copyPlan(p))
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return truncate(plans, opts.Limit), nil
}

// CountPlans returns the total number of stored plans.
func (r *InMemoryRepository) CountPlans(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plans), nil
}

// CreateLog stores a recommendation log entry.
func (r *InMemoryRepository) CreateLog(_ context.Context, l *RecommendationLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs[l.ID] = copyLog(l)
	return nil
}

// GetLog retrieves a log entry by user ID and log ID.
func (r *InMemoryRepository) GetLog(_ context.Context, userID, logID string) (*RecommendationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.logs[logID]
	if !ok || l.UserID != userID {
		return nil, ErrLogNotFound
	}
	return copyLog(l), nil
}

// ListLogs retrieves a user's log entries, newest first.
func (r *InMemoryRepository) ListLogs(_ context.Context, userID string, opts ListOptions) ([]*RecommendationLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []*RecommendationLog
	for _, l := range r.logs {
		if l.UserID == userID {
			logs = append(logs, copyLog(l))
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	return truncate(logs, opts.Limit), nil
}

// CreateCoupon stores an issued coupon.
func (r *InMemoryRepository) CreateCoupon(_ context.Context, c *Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.coupons[c.Code] = copyCoupon(c)
	return nil
}

// GetCouponByCode retrieves a coupon by its code.
func (r *InMemoryRepository) GetCouponByCode(_ context.Context, code string) (*Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return copyCoupon(c), nil
}

// UpdateCoupon replaces a stored coupon.
func (r *InMemoryRepository) UpdateCoupon(_ context.Context, c *Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[c.Code]; !ok {
		return ErrCouponNotFound
	}
	r.coupons[c.Code] = copyCoupon(c)
	return nil
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func copyPlan(p *Plan) *Plan {
	if p == nil {
		return nil
	}
	planCopy := *p
	planCopy.Windows = append([]safety.Window(nil), p.Windows...)
	return &planCopy
}

func copyLog(l *RecommendationLog) *RecommendationLog {
	if l == nil {
		return nil
	}
	logCopy := *l
	logCopy.Params = append([]byte(nil), l.Params...)
	logCopy.Result = append([]byte(nil), l.Result...)
	logCopy.Routes = append([]byte(nil), l.Routes...)
	return &logCopy
}

func copyCoupon(c *Coupon) *Coupon {
	if c == nil {
		return nil
	}
	couponCopy := *c
	if c.RedeemedAt != nil {
		t := *c.RedeemedAt
		couponCopy.RedeemedAt = &t
	}
	return &couponCopy
}
