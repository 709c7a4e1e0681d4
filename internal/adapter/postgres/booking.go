package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/metrics"
	"github.com/google/uuid"
)

const serviceName = "fleetops-admin"

type BookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepo(db *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingColumns = `id, booking_number, service_type_id, vehicle_type, zone,
       distance_km, duration_minutes,
       quoted_fare, final_fare, fare_override_reason, currency,
       extra_km_used, extra_hours_used, waiting_time_minutes, upgrade_charges,
       status, payment_status, cancellation_reason,
       created_at, accepted_at, started_at, completed_at, cancelled_at`

func scanBooking(row pgx.Row, b *models.Booking) error {
	return row.Scan(
		&b.ID, &b.BookingNumber, &b.ServiceTypeID, &b.VehicleType, &b.Zone,
		&b.DistanceKm, &b.DurationMin,
		&b.QuotedFare, &b.FinalFare, &b.FareOverrideReason, &b.Currency,
		&b.Extras.ExtraKmUsed, &b.Extras.ExtraHoursUsed, &b.Extras.WaitingMinutes, &b.Extras.UpgradeCharge,
		&b.Status, &b.PaymentStatus, &b.CancellationReason,
		&b.CreatedAt, &b.AcceptedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt,
	)
}

func (r *BookingRepo) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	q := TxorDB(ctx, r.db)
	start := time.Now()

	query := `INSERT INTO bookings (booking_number, service_type_id, vehicle_type, zone,
                  distance_km, duration_minutes, quoted_fare, final_fare, currency,
                  status, payment_status)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
              RETURNING id, created_at;`

	err := q.QueryRow(ctx, query,
		b.BookingNumber, b.ServiceTypeID, b.VehicleType, b.Zone,
		b.DistanceKm, b.DurationMin, b.QuotedFare, b.FinalFare, b.Currency,
		b.Status, b.PaymentStatus,
	).Scan(&b.ID, &b.CreatedAt)
	metrics.RecordDatabaseQuery(serviceName, "booking_create", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("booking repo: Create: %w", err)
	}

	return b, nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	q := TxorDB(ctx, r.db)

	var b models.Booking
	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE id = $1;`, bookingColumns)

	if err := scanBooking(q.QueryRow(ctx, query, id), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrBookingNotFound
		}
		return nil, fmt.Errorf("booking repo: Get: %w", err)
	}

	return &b, nil
}

func (r *BookingRepo) Update(ctx context.Context, b *models.Booking) error {
	q := TxorDB(ctx, r.db)
	start := time.Now()

	query := `UPDATE bookings
              SET final_fare = $2, fare_override_reason = $3,
                  extra_km_used = $4, extra_hours_used = $5, waiting_time_minutes = $6, upgrade_charges = $7,
                  status = $8, payment_status = $9, cancellation_reason = $10,
                  accepted_at = $11, started_at = $12, completed_at = $13, cancelled_at = $14
              WHERE id = $1;`

	tag, err := q.Exec(ctx, query,
		b.ID,
		b.FinalFare, b.FareOverrideReason,
		b.Extras.ExtraKmUsed, b.Extras.ExtraHoursUsed, b.Extras.WaitingMinutes, b.Extras.UpgradeCharge,
		b.Status, b.PaymentStatus, b.CancellationReason,
		b.AcceptedAt, b.StartedAt, b.CompletedAt, b.CancelledAt,
	)
	metrics.RecordDatabaseQuery(serviceName, "booking_update", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("booking repo: Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrBookingNotFound
	}

	return nil
}

func (r *BookingRepo) List(ctx context.Context, status string, filters models.Filters) ([]models.Booking, models.Metadata, error) {
	q := TxorDB(ctx, r.db)

	// empty status matches everything
	query := fmt.Sprintf(`SELECT count(*) OVER(), %s FROM bookings
              WHERE ($1 = '' OR status = $1)
              ORDER BY %s %s, id ASC
              LIMIT $2 OFFSET $3;`, bookingColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := q.Query(ctx, query, status, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("booking repo: List: %w", err)
	}
	defer rows.Close()

	var (
		out          []models.Booking
		totalRecords int
	)
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&totalRecords,
			&b.ID, &b.BookingNumber, &b.ServiceTypeID, &b.VehicleType, &b.Zone,
			&b.DistanceKm, &b.DurationMin,
			&b.QuotedFare, &b.FinalFare, &b.FareOverrideReason, &b.Currency,
			&b.Extras.ExtraKmUsed, &b.Extras.ExtraHoursUsed, &b.Extras.WaitingMinutes, &b.Extras.UpgradeCharge,
			&b.Status, &b.PaymentStatus, &b.CancellationReason,
			&b.CreatedAt, &b.AcceptedAt, &b.StartedAt, &b.CompletedAt, &b.CancelledAt,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("booking repo: List scan: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("booking repo: List rows: %w", err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return out, metadata, nil
}

func (r *BookingRepo) CountByDate(ctx context.Context) (int, error) {
	q := TxorDB(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE DATE(created_at) = CURRENT_DATE;`

	if err := q.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("booking repo: CountByDate: %w", err)
	}
	return count, nil
}
