package catalog

import (
	"context"
	"fmt"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/google/uuid"
)

// CatalogService manages the pricing catalog: service types, pricing rules and
// rental packages. Catalog entries referenced by historical bookings are never
// hard-deleted; the only removal operation is soft deactivation, which takes
// the entry out of future resolutions without touching stored fares.
type CatalogService struct {
	serviceTypes ServiceTypeRepository
	rules        RuleRepository
	packages     PackageRepository
	log          logger.Logger
}

func NewCatalogService(serviceTypes ServiceTypeRepository, rules RuleRepository, packages PackageRepository, log logger.Logger) *CatalogService {
	return &CatalogService{
		serviceTypes: serviceTypes,
		rules:        rules,
		packages:     packages,
		log:          log,
	}
}

func (s *CatalogService) CreateServiceType(ctx context.Context, st *models.ServiceType) (*models.ServiceType, error) {
	ctx = wrap.WithAction(ctx, "catalog_create_service_type")

	created, err := s.serviceTypes.Create(ctx, st)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "service type created", "code", created.Code, "pricing_model", created.PricingModel)
	return created, nil
}

func (s *CatalogService) ListServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	return s.serviceTypes.List(ctx)
}

func (s *CatalogService) CreatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	ctx = wrap.WithAction(ctx, "catalog_create_pricing_rule")

	if err := validateRuleInvariants(rule); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if _, err := s.serviceTypes.Get(ctx, rule.ServiceTypeID); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	rule.Active = true
	created, err := s.rules.Create(ctx, rule)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "pricing rule created",
		"rule_id", created.ID,
		"vehicle_type", created.VehicleType,
		"zone", zoneLabel(created.Zone),
	)
	return created, nil
}

func (s *CatalogService) UpdatePricingRule(ctx context.Context, rule *models.PricingRule) (*models.PricingRule, error) {
	ctx = wrap.WithAction(ctx, "catalog_update_pricing_rule")

	current, err := s.rules.Get(ctx, rule.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	// scope is immutable; only the formula fields change
	rule.ServiceTypeID = current.ServiceTypeID
	rule.VehicleType = current.VehicleType
	rule.Zone = current.Zone
	rule.Active = current.Active

	if err := validateRuleInvariants(rule); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if err := s.rules.Update(ctx, rule); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return rule, nil
}

func (s *CatalogService) DeactivatePricingRule(ctx context.Context, id uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "catalog_deactivate_pricing_rule")

	if err := s.rules.SetActive(ctx, id, false); err != nil {
		return wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "pricing rule deactivated", "rule_id", id)
	return nil
}

func (s *CatalogService) ListPricingRules(ctx context.Context, filters models.Filters) ([]models.PricingRule, models.Metadata, error) {
	return s.rules.List(ctx, filters)
}

func (s *CatalogService) CreateRentalPackage(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error) {
	ctx = wrap.WithAction(ctx, "catalog_create_rental_package")

	if err := validatePackageInvariants(pkg); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if _, err := s.serviceTypes.Get(ctx, pkg.ServiceTypeID); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	pkg.Active = true
	created, err := s.packages.Create(ctx, pkg)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "rental package created",
		"package_id", created.ID,
		"label", created.Label,
		"zone", zoneLabel(created.Zone),
	)
	return created, nil
}

func (s *CatalogService) UpdateRentalPackage(ctx context.Context, pkg *models.RentalPackage) (*models.RentalPackage, error) {
	ctx = wrap.WithAction(ctx, "catalog_update_rental_package")

	current, err := s.packages.Get(ctx, pkg.ID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	pkg.ServiceTypeID = current.ServiceTypeID
	pkg.VehicleType = current.VehicleType
	pkg.Zone = current.Zone
	pkg.Active = current.Active

	if err := validatePackageInvariants(pkg); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return pkg, nil
}

func (s *CatalogService) DeactivateRentalPackage(ctx context.Context, id uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "catalog_deactivate_rental_package")

	if err := s.packages.SetActive(ctx, id, false); err != nil {
		return wrap.Error(ctx, err)
	}

	s.log.Info(ctx, "rental package deactivated", "package_id", id)
	return nil
}

func (s *CatalogService) ListRentalPackages(ctx context.Context, filters models.Filters) ([]models.RentalPackage, models.Metadata, error) {
	return s.packages.List(ctx, filters)
}

// validateRuleInvariants enforces the catalog invariants that must hold for
// every stored rule: non-negative rates and fees, a positive surge multiplier.
func validateRuleInvariants(rule *models.PricingRule) error {
	switch {
	case rule.BaseFare < 0,
		rule.PerKmRate < 0,
		rule.PerMinuteRate != nil && *rule.PerMinuteRate < 0,
		rule.MinimumFare < 0,
		rule.CancellationFee < 0,
		rule.NoShowFee < 0,
		rule.WaitingPerMinute < 0,
		rule.FreeWaitingMinutes < 0:
		return fmt.Errorf("%w: rates and fees must not be negative", types.ErrValidation)
	case rule.SurgeMultiplier <= 0:
		return fmt.Errorf("%w: surge multiplier must be greater than zero", types.ErrValidation)
	}
	return nil
}

func validatePackageInvariants(pkg *models.RentalPackage) error {
	switch {
	case pkg.BasePrice < 0,
		pkg.ExtraKmRate < 0,
		pkg.ExtraHourRate < 0,
		pkg.CancellationFee < 0,
		pkg.NoShowFee < 0,
		pkg.WaitingPerMinute < 0,
		pkg.IncludedKm < 0,
		pkg.FreeWaitingMinutes < 0:
		return fmt.Errorf("%w: rates and fees must not be negative", types.ErrValidation)
	case pkg.DurationHours <= 0:
		return fmt.Errorf("%w: package duration must be greater than zero", types.ErrValidation)
	case pkg.Label == "":
		return fmt.Errorf("%w: package label must be provided", types.ErrValidation)
	}
	return nil
}

func zoneLabel(zone *string) string {
	if zone == nil {
		return "*"
	}
	return *zone
}
