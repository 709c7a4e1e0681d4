package pricing

import (
	"context"
	"errors"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/metrics"
	"github.com/fleetora/fleetops/pkg/money"
)

const serviceName = "fleetops-admin"

// QuoteRequest is a fare estimation request for a service/vehicle/zone scope
// and the requested trip parameters.
type QuoteRequest struct {
	ResolutionRequest
	DistanceKm  float64
	DurationMin *int
}

// Quote is a computed estimate plus the resolution that produced it.
type Quote struct {
	Resolution *Resolution        `json:"-"`
	Model      types.PricingModel `json:"pricing_model"`
	Amount     money.Amount       `json:"amount"`
	Currency   string             `json:"currency"`
	Display    string             `json:"display"`
}

// Service glues the resolver and the calculator into a single quote
// operation. It is stateless; every call works on freshly fetched catalog
// snapshots.
type Service struct {
	resolver *Resolver
	currency string
	log      logger.Logger
}

func NewService(resolver *Resolver, currency string, log logger.Logger) *Service {
	return &Service{
		resolver: resolver,
		currency: currency,
		log:      log,
	}
}

// Quote resolves the applicable rule or package and computes the estimate.
// A missing rule surfaces as ErrNoPricingRule; it must never default to a
// zero fare.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	ctx = wrap.WithAction(ctx, "pricing_quote")

	res, err := s.resolver.Resolve(ctx, req.ResolutionRequest)
	if err != nil {
		if errors.Is(err, types.ErrNoPricingRule) {
			metrics.RuleResolutionMissesTotal.WithLabelValues(serviceName, string(req.VehicleType)).Inc()
		}
		return nil, wrap.Error(ctx, err)
	}

	var amount money.Amount
	switch res.Model {
	case types.PackagePricing:
		amount, err = PackageFare(res.Package, req.DistanceKm)
	default:
		amount, err = RuleFare(res.Rule, req.DistanceKm, req.DurationMin)
	}
	metrics.RecordFareQuote(serviceName, string(res.Model), err)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	s.log.Debug(ctx, "fare quote computed",
		"pricing_model", res.Model,
		"distance_km", req.DistanceKm,
		"amount", amount,
	)

	return &Quote{
		Resolution: res,
		Model:      res.Model,
		Amount:     amount,
		Currency:   s.currency,
		Display:    money.Format(amount, s.currency),
	}, nil
}

// Resolve exposes rule selection without computing a fare.
func (s *Service) Resolve(ctx context.Context, req ResolutionRequest) (*Resolution, error) {
	return s.resolver.Resolve(ctx, req)
}

// Currency returns the operating currency of the fleet.
func (s *Service) Currency() string {
	return s.currency
}
