package pricing

import (
	"context"
	"slices"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

// ResolutionRequest identifies the pricing scope of a quote or booking.
type ResolutionRequest struct {
	ServiceTypeID uuid.UUID
	VehicleType   types.VehicleType
	Zone          *string
}

// Resolution is the outcome of rule selection: exactly one of Rule or Package
// is set, depending on the service type's pricing model.
type Resolution struct {
	Model   types.PricingModel
	Rule    *models.PricingRule
	Package *models.RentalPackage
}

// Fee accessors shared by both rule kinds.

func (r *Resolution) CancellationFee() money.Amount {
	if r.Rule != nil {
		return r.Rule.CancellationFee
	}
	return r.Package.CancellationFee
}

func (r *Resolution) NoShowFee() money.Amount {
	if r.Rule != nil {
		return r.Rule.NoShowFee
	}
	return r.Package.NoShowFee
}

type Resolver struct {
	serviceTypes ServiceTypeRepository
	rules        RuleRepository
	packages     PackageRepository
	log          logger.Logger
}

func NewResolver(serviceTypes ServiceTypeRepository, rules RuleRepository, packages PackageRepository, log logger.Logger) *Resolver {
	return &Resolver{
		serviceTypes: serviceTypes,
		rules:        rules,
		packages:     packages,
		log:          log,
	}
}

// Resolve selects the single applicable pricing rule or rental package for
// the requested scope. Candidates must match service type and vehicle type
// exactly; the zone dimension matches when the candidate zone is unset
// (wildcard) or equal to the requested zone. A zone-exact candidate always
// wins over a wildcard one, regardless of catalog storage order.
func (r *Resolver) Resolve(ctx context.Context, req ResolutionRequest) (*Resolution, error) {
	ctx = wrap.WithAction(ctx, "pricing_resolve")

	st, err := r.serviceTypes.Get(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	zone := req.Zone
	if !st.ZoneBased {
		// zone-based pricing does not apply to this service type
		zone = nil
	}

	switch st.PricingModel {
	case types.PackagePricing:
		candidates, err := r.packages.ListActive(ctx, st.ID, req.VehicleType)
		if err != nil {
			return nil, wrap.Error(ctx, err)
		}
		pkg := pickCandidate(candidates, zone, func(p models.RentalPackage) *string { return p.Zone })
		if pkg == nil {
			r.log.Debug(ctx, "no rental package matched",
				"service_type", st.Code,
				"vehicle_type", req.VehicleType,
			)
			return nil, wrap.Error(ctx, types.ErrNoPricingRule)
		}
		return &Resolution{Model: types.PackagePricing, Package: pkg}, nil

	default:
		candidates, err := r.rules.ListActive(ctx, st.ID, req.VehicleType)
		if err != nil {
			return nil, wrap.Error(ctx, err)
		}
		rule := pickCandidate(candidates, zone, func(p models.PricingRule) *string { return p.Zone })
		if rule == nil {
			r.log.Debug(ctx, "no pricing rule matched",
				"service_type", st.Code,
				"vehicle_type", req.VehicleType,
			)
			return nil, wrap.Error(ctx, types.ErrNoPricingRule)
		}
		return &Resolution{Model: types.MeteredPricing, Rule: rule}, nil
	}
}

// pickCandidate filters candidates by the zone dimension and returns the most
// specific match: zone-exact entries rank above wildcards. The sort is stable
// so ties within a specificity class keep catalog order.
func pickCandidate[T any](candidates []T, zone *string, zoneOf func(T) *string) *T {
	matched := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if models.ZoneMatches(zoneOf(c), zone) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	slices.SortStableFunc(matched, func(a, b T) int {
		return specificity(zoneOf(b)) - specificity(zoneOf(a))
	})

	return &matched[0]
}

func specificity(zone *string) int {
	if zone != nil {
		return 1
	}
	return 0
}
