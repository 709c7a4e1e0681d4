package pricing

import (
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packageResolution() *Resolution {
	return &Resolution{
		Model: types.PackagePricing,
		Package: &models.RentalPackage{
			BasePrice:          money.FromMajor(800),
			IncludedKm:         40,
			ExtraKmRate:        money.FromMajor(12),
			ExtraHourRate:      money.FromMajor(100),
			WaitingPerMinute:   money.FromMajor(5),
			FreeWaitingMinutes: 15,
		},
	}
}

func TestExtrasCharge_AllFieldsAdditive(t *testing.T) {
	usage := models.ExtrasUsage{
		ExtraKmUsed:    10,  // 10 * 12 = 120
		ExtraHoursUsed: 2,   // 2 * 100 = 200
		WaitingMinutes: 25,  // 10 billable * 5 = 50
		UpgradeCharge:  money.FromMajor(75),
	}

	total, err := ExtrasCharge(packageResolution(), usage)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(445), total)
}

func TestExtrasCharge_WaitingWithinFreeAllowance(t *testing.T) {
	usage := models.ExtrasUsage{WaitingMinutes: 15}

	total, err := ExtrasCharge(packageResolution(), usage)
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), total)
}

func TestExtrasCharge_ZeroUsageZeroCharge(t *testing.T) {
	total, err := ExtrasCharge(packageResolution(), models.ExtrasUsage{})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), total)
}

// Recomputing from the same recorded usage must never grow the total: extras
// are derived on read, not accumulated in place.
func TestExtrasCharge_RecomputeIsStable(t *testing.T) {
	usage := models.ExtrasUsage{ExtraKmUsed: 7.5, WaitingMinutes: 30}

	first, err := ExtrasCharge(packageResolution(), usage)
	require.NoError(t, err)
	second, err := ExtrasCharge(packageResolution(), usage)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtrasCharge_MeteredRuleBillsTimeAtPerMinuteRate(t *testing.T) {
	perMin := money.FromMajor(2)
	res := &Resolution{
		Model: types.MeteredPricing,
		Rule: &models.PricingRule{
			PerKmRate:          money.FromMajor(14),
			PerMinuteRate:      &perMin,
			WaitingPerMinute:   money.FromMajor(3),
			FreeWaitingMinutes: 5,
		},
	}

	usage := models.ExtrasUsage{ExtraHoursUsed: 1.5}

	// 1.5h * (2/min * 60) = 180
	total, err := ExtrasCharge(res, usage)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(180), total)
}

func TestExtrasCharge_MeteredRuleWithoutTimeRateRejectsHours(t *testing.T) {
	res := &Resolution{
		Model: types.MeteredPricing,
		Rule:  &models.PricingRule{PerKmRate: money.FromMajor(14)},
	}

	_, err := ExtrasCharge(res, models.ExtrasUsage{ExtraHoursUsed: 1})
	assert.ErrorIs(t, err, types.ErrInvalidRule)
}

func TestExtrasCharge_NegativeUsageRejected(t *testing.T) {
	cases := []models.ExtrasUsage{
		{ExtraKmUsed: -1},
		{ExtraHoursUsed: -0.5},
		{WaitingMinutes: -10},
		{UpgradeCharge: -1},
	}

	for _, usage := range cases {
		_, err := ExtrasCharge(packageResolution(), usage)
		assert.ErrorIs(t, err, types.ErrValidation)
	}
}
