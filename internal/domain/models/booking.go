package models

import (
	"time"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

// ExtrasUsage holds the itemized post-trip usage recorded on completion.
// The billed extras total is always derived from these fields, never
// accumulated into the stored fare, so re-applying extras cannot double-charge.
type ExtrasUsage struct {
	ExtraKmUsed    float64      `json:"extra_km_used"`
	ExtraHoursUsed float64      `json:"extra_hours_used"`
	WaitingMinutes int          `json:"waiting_time_minutes"`
	UpgradeCharge  money.Amount `json:"upgrade_charges"`
}

func (u ExtrasUsage) IsZero() bool {
	return u.ExtraKmUsed == 0 && u.ExtraHoursUsed == 0 && u.WaitingMinutes == 0 && u.UpgradeCharge == 0
}

type Booking struct {
	ID            uuid.UUID         `json:"id"`
	BookingNumber string            `json:"booking_number"`
	ServiceTypeID uuid.UUID         `json:"service_type_id"`
	VehicleType   types.VehicleType `json:"vehicle_type"`
	Zone          *string           `json:"zone,omitempty"`

	DistanceKm  float64 `json:"distance_km"`
	DurationMin *int    `json:"duration_minutes,omitempty"`

	// QuotedFare is the engine output at quote time and never changes after
	// creation. FinalFare starts equal to it and may be overwritten by an
	// operator; the override is authoritative.
	QuotedFare         money.Amount `json:"quoted_fare"`
	FinalFare          money.Amount `json:"final_fare"`
	FareOverrideReason *string      `json:"fare_override_reason,omitempty"`
	Currency           string       `json:"currency"`

	Extras ExtrasUsage `json:"extras"`

	Status             types.BookingStatus `json:"status"`
	PaymentStatus      types.PaymentState  `json:"payment_status"`
	CancellationReason *string             `json:"cancellation_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// allowed lifecycle transitions
var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BookingPending:  {types.BookingAccepted, types.BookingCancelled, types.BookingNoDriver},
	types.BookingAccepted: {types.BookingStarted, types.BookingCancelled},
	types.BookingStarted:  {types.BookingCompleted, types.BookingCancelled},
}

// CanTransitionTo reports whether the booking may move to the target status.
func (b *Booking) CanTransitionTo(target types.BookingStatus) bool {
	for _, allowed := range bookingTransitions[b.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}
