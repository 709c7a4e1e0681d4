package catalog

import (
	"context"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/google/uuid"
)

type ServiceTypeRepository interface {
	Create(ctx context.Context, st *models.ServiceType) (*models.ServiceType, error)
	Get(ctx context.Context, id uuid.UUID) (*models.ServiceType, error)
	List(ctx context.Context) ([]models.ServiceType, error)
}

type RuleRepository interface {
	Create(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	Update(ctx context.Context, rule *models.PricingRule) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filters models.Filters) ([]models.PricingRule, models.Metadata, error)
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.RentalPackage, error)
	Update(ctx context.Context, pkg *models.RentalPackage) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filters models.Filters) ([]models.RentalPackage, models.Metadata, error)
}
