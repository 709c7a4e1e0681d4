package pricing

import (
	"math"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
)

// ExtrasCharge computes the itemized post-trip surcharge total for the given
// usage against the resolved rule or package. Every field is optional and
// independently additive. The result is derived from the recorded usage alone:
// callers display FinalFare + ExtrasCharge and never fold the extras back into
// the stored fare, so recomputing is always safe.
func ExtrasCharge(res *Resolution, usage models.ExtrasUsage) (money.Amount, error) {
	if usage.ExtraKmUsed < 0 || usage.ExtraHoursUsed < 0 || usage.WaitingMinutes < 0 || usage.UpgradeCharge < 0 {
		return 0, types.ErrValidation
	}
	if math.IsNaN(usage.ExtraKmUsed) || math.IsNaN(usage.ExtraHoursUsed) {
		return 0, types.ErrValidation
	}

	var total money.Amount

	if usage.ExtraKmUsed > 0 {
		total += money.Mul(extraKmRate(res), usage.ExtraKmUsed)
	}

	if usage.ExtraHoursUsed > 0 {
		rate, ok := extraHourRate(res)
		if !ok {
			return 0, types.ErrInvalidRule
		}
		total += money.Mul(rate, usage.ExtraHoursUsed)
	}

	if usage.WaitingMinutes > 0 {
		billable := usage.WaitingMinutes - freeWaitingMinutes(res)
		if billable > 0 {
			total += money.Mul(waitingRate(res), float64(billable))
		}
	}

	total += usage.UpgradeCharge

	return total, nil
}

func extraKmRate(res *Resolution) money.Amount {
	if res.Package != nil {
		return res.Package.ExtraKmRate
	}
	return res.Rule.PerKmRate
}

// extraHourRate reports the per-hour overage rate. Metered rules bill extra
// time at 60x their per-minute rate; a rule without one cannot bill time.
func extraHourRate(res *Resolution) (money.Amount, bool) {
	if res.Package != nil {
		return res.Package.ExtraHourRate, true
	}
	if res.Rule.PerMinuteRate == nil {
		return 0, false
	}
	return *res.Rule.PerMinuteRate * 60, true
}

func freeWaitingMinutes(res *Resolution) int {
	if res.Package != nil {
		return res.Package.FreeWaitingMinutes
	}
	return res.Rule.FreeWaitingMinutes
}

func waitingRate(res *Resolution) money.Amount {
	if res.Package != nil {
		return res.Package.WaitingPerMinute
	}
	return res.Rule.WaitingPerMinute
}
