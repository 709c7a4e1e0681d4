package pricing

import (
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestReconcile_PartialPayment(t *testing.T) {
	payments := []models.Payment{
		{Amount: money.FromMajor(500), Status: types.PaymentPaid},
		{Amount: money.FromMajor(200), Status: types.PaymentPending},
	}

	rec := Reconcile(money.FromMajor(1000), payments)

	assert.Equal(t, money.FromMajor(500), rec.PaidAmount)
	assert.Equal(t, money.FromMajor(500), rec.RemainingAmount)
	assert.InDelta(t, 50, rec.ProgressPercent, 0.0001)
	assert.False(t, rec.Overpaid)
}

func TestReconcile_ZeroFareNoDivisionByZero(t *testing.T) {
	rec := Reconcile(0, nil)

	assert.Equal(t, money.Amount(0), rec.PaidAmount)
	assert.Equal(t, money.Amount(0), rec.RemainingAmount)
	assert.Equal(t, float64(0), rec.ProgressPercent)
}

func TestReconcile_OverpaymentClamped(t *testing.T) {
	payments := []models.Payment{
		{Amount: money.FromMajor(700), Status: types.PaymentCompleted},
	}

	rec := Reconcile(money.FromMajor(500), payments)

	// overpayment is surfaced, not errored
	assert.Equal(t, money.FromMajor(700), rec.PaidAmount)
	assert.Equal(t, money.Amount(0), rec.RemainingAmount)
	assert.Equal(t, float64(100), rec.ProgressPercent)
	assert.True(t, rec.Overpaid)
}

func TestReconcile_FailedPaymentsIgnored(t *testing.T) {
	payments := []models.Payment{
		{Amount: money.FromMajor(300), Status: types.PaymentFailed},
		{Amount: money.FromMajor(300), Status: types.PaymentPaid},
		{Amount: money.FromMajor(100), Status: types.PaymentCompleted},
	}

	rec := Reconcile(money.FromMajor(1000), payments)

	assert.Equal(t, money.FromMajor(400), rec.PaidAmount)
	assert.Equal(t, money.FromMajor(600), rec.RemainingAmount)
}

func TestReconcile_Idempotent(t *testing.T) {
	payments := []models.Payment{
		{Amount: money.FromMajor(250), Status: types.PaymentPaid},
		{Amount: money.FromMajor(250), Status: types.PaymentPaid},
	}

	first := Reconcile(money.FromMajor(1000), payments)
	second := Reconcile(money.FromMajor(1000), payments)

	assert.Equal(t, first, second)
}

func TestReconcile_BoundsHoldForArbitraryLedgers(t *testing.T) {
	fares := []money.Amount{0, 1, money.FromMajor(500), money.FromMajor(99999)}
	ledgers := [][]models.Payment{
		nil,
		{{Amount: 1, Status: types.PaymentPaid}},
		{{Amount: money.FromMajor(1000000), Status: types.PaymentCompleted}},
		{
			{Amount: money.FromMajor(100), Status: types.PaymentPaid},
			{Amount: money.FromMajor(100), Status: types.PaymentFailed},
			{Amount: money.FromMajor(100), Status: types.PaymentPending},
		},
	}

	for _, fare := range fares {
		for _, payments := range ledgers {
			rec := Reconcile(fare, payments)
			assert.GreaterOrEqual(t, rec.RemainingAmount, money.Amount(0))
			assert.GreaterOrEqual(t, rec.ProgressPercent, float64(0))
			assert.LessOrEqual(t, rec.ProgressPercent, float64(100))
		}
	}
}
