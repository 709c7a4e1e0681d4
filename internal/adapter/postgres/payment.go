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

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (r *PaymentRepo) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	q := TxorDB(ctx, r.db)
	start := time.Now()

	query := `INSERT INTO payments (booking_id, amount, status, currency, method)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at;`

	err := q.QueryRow(ctx, query, p.BookingID, p.Amount, p.Status, p.Currency, p.Method).Scan(&p.ID, &p.CreatedAt)
	metrics.RecordDatabaseQuery(serviceName, "payment_create", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("payment repo: Create: %w", err)
	}

	return p, nil
}

func (r *PaymentRepo) Get(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	q := TxorDB(ctx, r.db)

	var p models.Payment
	query := `SELECT id, booking_id, amount, status, currency, method, created_at
              FROM payments WHERE id = $1;`

	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.Currency, &p.Method, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repo: Get: %w", err)
	}

	return &p, nil
}

func (r *PaymentRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Payment, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT id, booking_id, amount, status, currency, method, created_at
              FROM payments WHERE booking_id = $1
              ORDER BY created_at;`

	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("payment repo: ListByBooking: %w", err)
	}
	defer rows.Close()

	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.Currency, &p.Method, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("payment repo: ListByBooking scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("payment repo: ListByBooking rows: %w", err)
	}

	return out, nil
}
