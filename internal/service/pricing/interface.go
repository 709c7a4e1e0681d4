package pricing

import (
	"context"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/google/uuid"
)

type ServiceTypeRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ServiceType, error)
}

type RuleRepository interface {
	ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.PricingRule, error)
}

type PackageRepository interface {
	ListActive(ctx context.Context, serviceTypeID uuid.UUID, vehicleType types.VehicleType) ([]models.RentalPackage, error)
}
