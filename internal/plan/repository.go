package plan

import "context"

// ListOptions contains options for listing plans or logs.
type ListOptions struct {
	Limit int
}

// Repository defines the interface for plan persistence.
type Repository interface {
	// CreatePlan stores a new plan.
	CreatePlan(ctx context.Context, p *Plan) error

	// GetPlan retrieves a plan by user ID and plan ID.
	// Returns ErrPlanNotFound if the plan doesn't exist or belongs to
	// another user.
	GetPlan(ctx context.Context, userID, planID string) (*Plan, error)

	// ListPlans retrieves a user's plans, newest first.
	ListPlans(ctx context.Context, userID string, opts ListOptions) ([]*Plan, error)

	// CountPlans returns the total number of stored plans.
	CountPlans(ctx context.Context) (int, error)

	// CreateLog stores a recommendation log entry.
	CreateLog(ctx context.Context, l *RecommendationLog) error

	// GetLog retrieves a log entry by user ID and log ID.
	GetLog(ctx context.Context, userID, logID string) (*RecommendationLog, error)

	// ListLogs retrieves a user's log entries, newest first.
	ListLogs(ctx context.Context, userID string, opts ListOptions) ([]*RecommendationLog, error)

	// CreateCoupon stores an issued coupon.
	CreateCoupon(ctx context.Context, c *Coupon) error

	// GetCouponByCode retrieves a coupon by its code.
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)

	// UpdateCoupon replaces a stored coupon.
	UpdateCoupon(ctx context.Context, c *Coupon) error
}
