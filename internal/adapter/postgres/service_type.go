package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/google/uuid"
)

type ServiceTypeRepo struct {
	db *pgxpool.Pool
}

func NewServiceTypeRepo(db *pgxpool.Pool) *ServiceTypeRepo {
	return &ServiceTypeRepo{db: db}
}

func (r *ServiceTypeRepo) Create(ctx context.Context, st *models.ServiceType) (*models.ServiceType, error) {
	q := TxorDB(ctx, r.db)

	query := `INSERT INTO service_types (code, name, pricing_model, zone_based)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at;`

	err := q.QueryRow(ctx, query, st.Code, st.Name, st.PricingModel, st.ZoneBased).Scan(&st.ID, &st.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrServiceTypeExists
		}
		return nil, fmt.Errorf("service type repo: Create: %w", err)
	}

	return st, nil
}

func (r *ServiceTypeRepo) Get(ctx context.Context, id uuid.UUID) (*models.ServiceType, error) {
	q := TxorDB(ctx, r.db)

	var st models.ServiceType
	query := `SELECT id, code, name, pricing_model, zone_based, created_at
              FROM service_types WHERE id = $1;`

	err := q.QueryRow(ctx, query, id).Scan(&st.ID, &st.Code, &st.Name, &st.PricingModel, &st.ZoneBased, &st.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrServiceTypeNotFound
		}
		return nil, fmt.Errorf("service type repo: Get: %w", err)
	}

	return &st, nil
}

func (r *ServiceTypeRepo) List(ctx context.Context) ([]models.ServiceType, error) {
	q := TxorDB(ctx, r.db)

	query := `SELECT id, code, name, pricing_model, zone_based, created_at
              FROM service_types ORDER BY code;`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service type repo: List: %w", err)
	}
	defer rows.Close()

	var out []models.ServiceType
	for rows.Next() {
		var st models.ServiceType
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.PricingModel, &st.ZoneBased, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("service type repo: List scan: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("service type repo: List rows: %w", err)
	}

	return out, nil
}
