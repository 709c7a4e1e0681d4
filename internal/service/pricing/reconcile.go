package pricing

import (
	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/pkg/money"
)

// Reconciliation is a read-time projection of a booking's payment state.
// It is never stored: recomputing on every read guarantees it cannot drift
// out of sync with the payment ledger.
type Reconciliation struct {
	PaidAmount      money.Amount `json:"paid_amount"`
	RemainingAmount money.Amount `json:"remaining_amount"`
	ProgressPercent float64      `json:"progress_percent"`
	Overpaid        bool         `json:"overpaid"`
}

// Reconcile sums the settled payments against the booking's fare. Remaining
// never goes negative and progress is clamped to [0,100]; an overpayment is
// flagged for operator review, not treated as an error.
func Reconcile(fare money.Amount, payments []models.Payment) Reconciliation {
	var paid money.Amount
	for _, p := range payments {
		if p.Status.Settled() {
			paid += p.Amount
		}
	}

	rec := Reconciliation{
		PaidAmount:      paid,
		RemainingAmount: money.Max(0, fare-paid),
		Overpaid:        paid > fare && fare > 0,
	}

	if fare <= 0 {
		rec.ProgressPercent = 0
		return rec
	}

	progress := float64(paid) / float64(fare) * 100
	if progress > 100 {
		progress = 100
	}
	rec.ProgressPercent = progress

	return rec
}
