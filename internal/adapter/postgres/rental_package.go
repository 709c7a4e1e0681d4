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

type RentalPackageRepo struct {
	db *pgxpool.Pool
}

func NewRentalPackageRepo(db *pgxpool.Pool) *RentalPackageRepo {
	return &RentalPackageRepo{db: db}
}

const rentalPackageColumns = `id, service_type_id, vehicle_type, zone,
       label, duration_hours, included_km, base_price, extra_km_rate, extra_hour_rate,
       cancellation_fee, no_show_fee, waiting_per_minute, free_waiting_minutes,
       active, created_at, updated_at`

func scanRentalPackage(row pgx.Row, pkg *models.RentalPackage) error {
	return row.Scan(
		&pkg.ID, &pkg.ServiceTypeID, &pkg.VehicleType, &pkg.Zone,
		&pkg.Label, &pkg.DurationHours, &pkg.IncludedKm, &pkg.BasePrice, &pkg.ExtraKmRate, &pkg.ExtraHourRate,
		&pkg.CancellationFee, &pkg.NoShowFee, &pkg.WaitingPerMinute, &pkg.FreeWaitingMinutes,
		&pkg.Active, &pkg.CreatedAt, &pkg.UpdatedAt,
	)
}

func (r *RentalPackageRepo) Create(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO rental_packages (service_type_id, vehicle_type, zone,
                  label, duration_hours, included_km, base_price, extra_km_rate, extra_hour_rate,
                  cancellation_fee, no_show_fee, waiting_per_minute, free_waiting_minutes, active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
              RETURNING id, created_at, updated_at;`

	err := q.QueryRow(ctx, query,
		pkg.ServiceTypeID, pkg.VehicleType, pkg.Zone,
		pkg.Label, pkg.DurationHours, pkg.IncludedKm, pkg.BasePrice, pkg.ExtraKmRate, pkg.ExtraHourRate,
		pkg.CancellationFee, pkg.NoShowFee, pkg.WaitingPerMinute, pkg.FreeWaitingMinutes, pkg.Active,
	).Scan(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("rental package repo: Create: %w", err)
	}

	return pkg, nil
}

func (r *RentalPackageRepo) Get(ctx context.Context, id uuid.UUID) (*models.RentalPackage, error) {
	q := TxorDB(ctx, r.db)

	var pkg models.RentalPackage
	query := fmt.Sprintf(`SELECT %s FROM rental_packages WHERE id = $1;`, rentalPackageColumns)

	if err := scanRentalPackage(q.QueryRow(ctx, query, id), &pkg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRentalPackageNotFound
		}
		return nil, fmt.Errorf("rental package repo: Get: %w", err)
	}

	return &pkg, nil
}

func (r *RentalPackageRepo) Update(ctx context.Context, pkg *models.RentalPackage) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE rental_packages
              SET label = $2, duration_hours = $3, included_km = $4,
                  base_price = $5, extra_km_rate = $6, extra_hour_rate = $7,
                  cancellation_fee = $8, no_show_fee = $9,
                  waiting_per_minute = $10, free_waiting_minutes = $11,
                  updated_at = NOW()
              WHERE id = $1;`

	tag, err := q.Exec(ctx, query,
		pkg.ID,
		pkg.Label, pkg.DurationHours, pkg.IncludedKm,
		pkg.BasePrice, pkg.ExtraKmRate, pkg.ExtraHourRate,
		pkg.CancellationFee, pkg.NoShowFee,
		pkg.WaitingPerMinute, pkg.FreeWaitingMinutes,
	)
	if err != nil {
		return fmt.Errorf("rental package repo: Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRentalPackageNotFound
	}

	return nil
}

func (r *RentalPackageRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE rental_packages SET active = $2, updated_at = NOW() WHERE id = $1;`, id, active)
	if err != nil {
		return fmt.Errorf("rental package repo: SetActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRentalPackageNotFound
	}

	return nil
}

func (r *RentalPackageRepo) ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.RentalPackage, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM rental_packages
              WHERE service_type_id = $1 AND vehicle_type = $2 AND active = TRUE;`, rentalPackageColumns)

	rows, err := q.Query(ctx, query, serviceTypeID, vehicleType)
	if err != nil {
		return nil, fmt.Errorf("rental package repo: ListActive: %w", err)
	}
	defer rows.Close()

	var out []models.RentalPackage
	for rows.Next() {
		var pkg models.RentalPackage
		if err := scanRentalPackage(rows, &pkg); err != nil {
			return nil, fmt.Errorf("rental package repo: ListActive scan: %w", err)
		}
		out = append(out, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rental package repo: ListActive rows: %w", err)
	}

	return out, nil
}

func (r *RentalPackageRepo) List(ctx context.Context, filters models.Filters) ([]models.RentalPackage, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	query := fmt.Sprintf(`SELECT count(*) OVER(), %s FROM rental_packages
              ORDER BY %s %s, id ASC
              LIMIT $1 OFFSET $2;`, rentalPackageColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("rental package repo: List: %w", err)
	}
	defer rows.Close()

	var (
		out          []models.RentalPackage
		totalRecords int
	)
	for rows.Next() {
		var pkg models.RentalPackage
		if err := rows.Scan(
			&totalRecords,
			&pkg.ID, &pkg.ServiceTypeID, &pkg.VehicleType, &pkg.Zone,
			&pkg.Label, &pkg.DurationHours, &pkg.IncludedKm, &pkg.BasePrice, &pkg.ExtraKmRate, &pkg.ExtraHourRate,
			&pkg.CancellationFee, &pkg.NoShowFee, &pkg.WaitingPerMinute, &pkg.FreeWaitingMinutes,
			&pkg.Active, &pkg.CreatedAt, &pkg.UpdatedAt,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("rental package repo: List scan: %w", err)
		}
		out = append(out, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("rental package repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return out, metadata, nil
}
