package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawroute/pawroute/pkg/polyline"
)

const defaultListLimit = 50

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL plan repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreatePlan stores a new plan.
func (r *PostgresRepository) CreatePlan(ctx context.Context, p *Plan) error {
	windowsJSON, err := json.Marshal(p.Windows)
	if err != nil {
		return fmt.Errorf("marshal windows: %w", err)
	}

	query := `
		INSERT INTO walk_plans (
			id, user_id,
			origin_lat, origin_lon, dest_lat, dest_lon,
			polyline, windows_json, score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Origin.Lat,
		p.Origin.Lon,
		p.Destination.Lat,
		p.Destination.Lon,
		p.Polyline,
		windowsJSON,
		p.Score,
		p.CreatedAt,
	)
	return err
}

// GetPlan retrieves a plan by user ID and plan ID.
func (r *PostgresRepository) GetPlan(ctx context.Context, userID, planID string) (*Plan, error) {
	query := `
		SELECT
			id, user_id,
			origin_lat, origin_lon, dest_lat, dest_lon,
			polyline, windows_json, score, created_at
		FROM walk_plans
		WHERE id = $1 AND user_id = $2
	`

	p, err := scanPlan(r.pool.QueryRow(ctx, query, planID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPlans retrieves a user's plans, newest first.
func (r *PostgresRepository) ListPlans(ctx context.Context, userID string, opts ListOptions) ([]*Plan, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT
			id, user_id,
			origin_lat, origin_lon, dest_lat, dest_lon,
			polyline, windows_json, score, created_at
		FROM walk_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// CountPlans returns the total number of stored plans.
func (r *PostgresRepository) CountPlans(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM walk_plans`).Scan(&count)
	return count, err
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var (
		p           Plan
		windowsJSON []byte
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Origin.Lat,
		&p.Origin.Lon,
		&p.Destination.Lat,
		&p.Destination.Lon,
		&p.Polyline,
		&windowsJSON,
		&p.Score,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(windowsJSON) > 0 {
		if err := json.Unmarshal(windowsJSON, &p.Windows); err != nil {
			return nil, fmt.Errorf("unmarshal windows: %w", err)
		}
	}
	return &p, nil
}

// CreateLog stores a recommendation log entry.
func (r *PostgresRepository) CreateLog(ctx context.Context, l *RecommendationLog) error {
	var originLat, originLon *float64
	if l.Origin != nil {
		originLat = &l.Origin.Lat
		originLon = &l.Origin.Lon
	}

	query := `
		INSERT INTO walk_reco_log (
			id, user_id, origin_lat, origin_lon,
			params_json, result_json, routes_json,
			model_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.UserID,
		originLat,
		originLon,
		[]byte(l.Params),
		[]byte(l.Result),
		[]byte(l.Routes),
		l.ModelVersion,
		l.CreatedAt,
	)
	return err
}

// GetLog retrieves a log entry by user ID and log ID.
func (r *PostgresRepository) GetLog(ctx context.Context, userID, logID string) (*RecommendationLog, error) {
	query := `
		SELECT
			id, user_id, origin_lat, origin_lon,
			params_json, result_json, routes_json,
			model_version, created_at
		FROM walk_reco_log
		WHERE id = $1 AND user_id = $2
	`

	l, err := scanLog(r.pool.QueryRow(ctx, query, logID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListLogs retrieves a user's log entries, newest first.
func (r *PostgresRepository) ListLogs(ctx context.Context, userID string, opts ListOptions) ([]*RecommendationLog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT
			id, user_id, origin_lat, origin_lon,
			params_json, result_json, routes_json,
			model_version, created_at
		FROM walk_reco_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RecommendationLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanLog(row pgx.Row) (*RecommendationLog, error) {
	var (
		l                    RecommendationLog
		originLat, originLon *float64
		params, result       []byte
		routes               []byte
	)

	err := row.Scan(
		&l.ID,
		&l.UserID,
		&originLat,
		&originLon,
		&params,
		&result,
		&routes,
		&l.ModelVersion,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if originLat != nil && originLon != nil {
		l.Origin = &polyline.Point{Lat: *originLat, Lon: *originLon}
	}
	l.Params = params
	l.Result = result
	l.Routes = routes
	return &l, nil
}

// CreateCoupon stores an issued coupon.
func (r *PostgresRepository) CreateCoupon(ctx context.Context, c *Coupon) error {
	query := `
		INSERT INTO coupons (
			id, plan_id, user_id, code, issued_at, redeemed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.PlanID, c.UserID, c.Code, c.IssuedAt, c.RedeemedAt,
	)
	return err
}

// GetCouponByCode retrieves a coupon by its code.
func (r *PostgresRepository) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `
		SELECT id, plan_id, user_id, code, issued_at, redeemed_at
		FROM coupons
		WHERE code = $1
	`

	var c Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.PlanID, &c.UserID, &c.Code, &c.IssuedAt, &c.RedeemedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &c, nil
}

// UpdateCoupon replaces a stored coupon.
func (r *PostgresRepository) UpdateCoupon(ctx context.Context, c *Coupon) error {
	query := `
		UPDATE coupons
		SET redeemed_at = $2
		WHERE code = $1
	`

	tag, err := r.pool.Exec(ctx, query, c.Code, c.RedeemedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCouponNotFound
	}
	return nil
}
