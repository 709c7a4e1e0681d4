package pricing

import (
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRule() *models.PricingRule {
	return &models.PricingRule{
		BaseFare:        money.FromMajor(99),
		PerKmRate:       money.FromMajor(14),
		MinimumFare:     money.FromMajor(299),
		SurgeMultiplier: 1.0,
	}
}

func TestRuleFare_MinimumFareFloor(t *testing.T) {
	rule := testRule()

	// base 99 + 5km * 14 = 169, below the 299 floor
	fare, err := RuleFare(rule, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(299), fare)
}

func TestRuleFare_AboveMinimum(t *testing.T) {
	rule := testRule()

	// base 99 + 20km * 14 = 379
	fare, err := RuleFare(rule, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(379), fare)
}

func TestRuleFare_WithDuration(t *testing.T) {
	rule := testRule()
	perMin := money.FromMajor(2)
	rule.PerMinuteRate = &perMin

	duration := 30
	// 99 + 20*14 + 30*2 = 439
	fare, err := RuleFare(rule, 20, &duration)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(439), fare)
}

func TestRuleFare_SurgeAppliedBeforeFloor(t *testing.T) {
	rule := testRule()
	rule.SurgeMultiplier = 2.0

	// (99 + 5*14) * 2 = 338 > floor 299
	fare, err := RuleFare(rule, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(338), fare)

	// (99 + 1*14) * 2 = 226, floor still wins
	fare, err = RuleFare(rule, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(299), fare)
}

func TestRuleFare_DurationWithoutPerMinuteRate(t *testing.T) {
	rule := testRule()

	duration := 10
	_, err := RuleFare(rule, 5, &duration)
	assert.ErrorIs(t, err, types.ErrInvalidRule)
}

func TestRuleFare_InvalidInputs(t *testing.T) {
	rule := testRule()

	_, err := RuleFare(rule, -1, nil)
	assert.ErrorIs(t, err, types.ErrValidation)

	negative := -5
	_, err = RuleFare(rule, 5, &negative)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestRuleFare_ZeroSurgeRejected(t *testing.T) {
	rule := testRule()
	rule.SurgeMultiplier = 0

	_, err := RuleFare(rule, 5, nil)
	assert.ErrorIs(t, err, types.ErrInvalidRule)
}

func TestRuleFare_MonotonicInDistance(t *testing.T) {
	rule := testRule()

	var prev money.Amount
	for d := 0.0; d <= 50; d += 2.5 {
		fare, err := RuleFare(rule, d, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fare, prev, "fare must not decrease as distance grows (d=%v)", d)
		prev = fare
	}
}

func TestRuleFare_MonotonicInDuration(t *testing.T) {
	rule := testRule()
	perMin := money.FromMajor(3)
	rule.PerMinuteRate = &perMin

	var prev money.Amount
	for m := 0; m <= 120; m += 10 {
		duration := m
		fare, err := RuleFare(rule, 10, &duration)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fare, prev, "fare must not decrease as duration grows (m=%d)", m)
		prev = fare
	}
}

func TestPackageFare_WithinIncludedDistance(t *testing.T) {
	pkg := &models.RentalPackage{
		BasePrice:   money.FromMajor(800),
		IncludedKm:  40,
		ExtraKmRate: money.FromMajor(12),
	}

	fare, err := PackageFare(pkg, 25)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(800), fare)
}

func TestPackageFare_Overage(t *testing.T) {
	pkg := &models.RentalPackage{
		BasePrice:   money.FromMajor(800),
		IncludedKm:  40,
		ExtraKmRate: money.FromMajor(12),
	}

	// 800 + 15km overage * 12 = 980
	fare, err := PackageFare(pkg, 55)
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(980), fare)
}

func TestPackageFare_NegativeDistance(t *testing.T) {
	pkg := &models.RentalPackage{BasePrice: money.FromMajor(800)}

	_, err := PackageFare(pkg, -3)
	assert.ErrorIs(t, err, types.ErrValidation)
}
