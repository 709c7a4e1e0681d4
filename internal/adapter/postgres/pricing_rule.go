package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/google/uuid"
)

type PricingRuleRepo struct {
	db *pgxpool.Pool
}

func NewPricingRuleRepo(db *pgxpool.Pool) *PricingRuleRepo {
	return &PricingRuleRepo{db: db}
}

const pricingRuleColumns = `id, service_type_id, vehicle_type, zone,
       base_fare, per_km_rate, per_minute_rate, minimum_fare, surge_multiplier,
       cancellation_fee, no_show_fee, waiting_per_minute, free_waiting_minutes,
       active, created_at, updated_at`

func scanPricingRule(row pgx.Row, rule *models.PricingRule) error {
	return row.Scan(
		&rule.ID, &rule.ServiceTypeID, &rule.VehicleType, &rule.Zone,
		&rule.BaseFare, &rule.PerKmRate, &rule.PerMinuteRate, &rule.MinimumFare, &rule.SurgeMultiplier,
		&rule.CancellationFee, &rule.NoShowFee, &rule.WaitingPerMinute, &rule.FreeWaitingMinutes,
		&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
	)
}

func (r *PricingRuleRepo) Create(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO pricing_rules (service_type_id, vehicle_type, zone,
                  base_fare, per_km_rate, per_minute_rate, minimum_fare, surge_multiplier,
                  cancellation_fee, no_show_fee, waiting_per_minute, free_waiting_minutes, active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
              RETURNING id, created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		rule.ServiceTypeID, rule.VehicleType, rule.Zone,
		rule.BaseFare, rule.PerKmRate, rule.PerMinuteRate, rule.MinimumFare, rule.SurgeMultiplier,
		rule.CancellationFee, rule.NoShowFee, rule.WaitingPerMinute, rule.FreeWaitingMinutes, rule.Active,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("pricing rule repo: Create: %w", err)
	}

	return rule, nil
}

func (r *PricingRuleRepo) Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	q := TxorDB(ctx, r.db)

	var rule models.PricingRule
	query := fmt.Sprintf(`SELECT %s FROM pricing_rules WHERE id = $1;`, pricingRuleColumns)

	if err := scanPricingRule(q.QueryRow(ctx, query, id), &rule); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrPricingRuleNotFound
		}
		return nil, fmt.Errorf("pricing rule repo: Get: %w", err)
	}

	return &rule, nil
}

func (r *PricingRuleRepo) Update(ctx context.Context, rule *models.PricingRule) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE pricing_rules
              SET base_fare = $2, per_km_rate = $3, per_minute_rate = $4,
                  minimum_fare = $5, surge_multiplier = $6,
                  cancellation_fee = $7, no_show_fee = $8,
                  waiting_per_minute = $9, free_waiting_minutes = $10,
                  updated_at = NOW()
              WHERE id = $1;`

	tag, err := q.Exec(ctx, query,
		rule.ID,
		rule.BaseFare, rule.PerKmRate, rule.PerMinuteRate,
		rule.MinimumFare, rule.SurgeMultiplier,
		rule.CancellationFee, rule.NoShowFee,
		rule.WaitingPerMinute, rule.FreeWaitingMinutes,
	)
	if err != nil {
		return fmt.Errorf("pricing rule repo: Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPricingRuleNotFound
	}

	return nil
}

func (r *PricingRuleRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE pricing_rules SET active = $2, updated_at = NOW() WHERE id = $1;`, id, active)
	if err != nil {
		return fmt.Errorf("pricing rule repo: SetActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrPricingRuleNotFound
	}

	return nil
}

// ListActive feeds the resolver: every active rule for the scope, zone
// filtering happens in memory where specificity is decided.
func (r *PricingRuleRepo) ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.PricingRule, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM pricing_rules
              WHERE service_type_id = $1 AND vehicle_type = $2 AND active = TRUE;`, pricingRuleColumns)

	rows, err := q.Query(ctx, query, serviceTypeID, vehicleType)
	if err != nil {
		return nil, fmt.Errorf("pricing rule repo: ListActive: %w", err)
	}
	defer rows.Close()

	return collectRules(rows)
}

func (r *PricingRuleRepo) List(ctx context.Context, filters models.Filters) ([]models.PricingRule, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`SELECT count(*) OVER(), %s FROM pricing_rules
              ORDER BY %s %s, id ASC
              LIMIT $1 OFFSET $2;`, pricingRuleColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("pricing rule repo: List: %w", err)
	}
	defer rows.Close()

	var (
		out          []models.PricingRule
		totalRecords int
	)
	for rows.Next() {
		var rule models.PricingRule
		if err := rows.Scan(
			&totalRecords,
			&rule.ID, &rule.ServiceTypeID, &rule.VehicleType, &rule.Zone,
			&rule.BaseFare, &rule.PerKmRate, &rule.PerMinuteRate, &rule.MinimumFare, &rule.SurgeMultiplier,
			&rule.CancellationFee, &rule.NoShowFee, &rule.WaitingPerMinute, &rule.FreeWaitingMinutes,
			&rule.Active, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("pricing rule repo: List scan: %w", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("pricing rule repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return out, metadata, nil
}

func collectRules(rows pgx.Rows) ([]models.PricingRule, error) {
	var out []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		if err := scanPricingRule(rows, &rule); err != nil {
			return nil, fmt.Errorf("pricing rule repo: scan: %w", err)
		}
		out = append(out, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pricing rule repo: rows: %w", err)
	}
	return out, nil
}
