package pricing

import (
	"math"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
)

// RuleFare computes a metered fare estimate:
//
//	base + distance*perKm [+ duration*perMinute], scaled by surge,
//	floored at the rule's minimum fare.
//
// A time-based estimate against a rule with no per-minute rate is an
// ErrInvalidRule; there is no silent zero-substitution.
func RuleFare(rule *models.PricingRule, distanceKm float64, durationMin *int) (money.Amount, error) {
	if err := validateDistance(distanceKm); err != nil {
		return 0, err
	}
	if rule.SurgeMultiplier <= 0 {
		return 0, types.ErrInvalidRule
	}

	amount := rule.BaseFare + money.Mul(rule.PerKmRate, distanceKm)

	if durationMin != nil {
		if *durationMin < 0 {
			return 0, types.ErrValidation
		}
		if rule.PerMinuteRate == nil {
			return 0, types.ErrInvalidRule
		}
		amount += money.Mul(*rule.PerMinuteRate, float64(*durationMin))
	}

	amount = money.MulFactor(amount, rule.SurgeMultiplier)

	// minimum fare floor applies after surge
	return money.Max(amount, rule.MinimumFare), nil
}

// PackageFare computes a rental quote: the package base price plus overage
// distance beyond the included allowance. Time overage and waiting charges are
// only known once the rental has run and are billed at completion via the
// extras ledger.
func PackageFare(pkg *models.RentalPackage, distanceKm float64) (money.Amount, error) {
	if err := validateDistance(distanceKm); err != nil {
		return 0, err
	}

	amount := pkg.BasePrice

	overageKm := distanceKm - pkg.IncludedKm
	if overageKm > 0 {
		amount += money.Mul(pkg.ExtraKmRate, overageKm)
	}

	return amount, nil
}

func validateDistance(distanceKm float64) error {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return types.ErrValidation
	}
	return nil
}
