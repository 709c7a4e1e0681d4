package models

import (
	"time"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

// PricingRule is one fare formula for a (service type, vehicle type, zone)
// tuple. Zone == nil is a wildcard matching any requested zone.
type PricingRule struct {
	ID            uuid.UUID         `json:"id"`
	ServiceTypeID uuid.UUID         `json:"service_type_id"`
	VehicleType   types.VehicleType `json:"vehicle_type"`
	Zone          *string           `json:"zone,omitempty"`

	BaseFare        money.Amount  `json:"base_fare"`
	PerKmRate       money.Amount  `json:"per_km_rate"`
	PerMinuteRate   *money.Amount `json:"per_minute_rate,omitempty"`
	MinimumFare     money.Amount  `json:"minimum_fare"`
	SurgeMultiplier float64       `json:"surge_multiplier"`

	CancellationFee    money.Amount `json:"cancellation_fee"`
	NoShowFee          money.Amount `json:"no_show_fee"`
	WaitingPerMinute   money.Amount `json:"waiting_charge_per_minute"`
	FreeWaitingMinutes int          `json:"free_waiting_minutes"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// RentalPackage is a fixed-duration/fixed-distance rental product scoped the
// same way as a PricingRule. Overage beyond the included allowances is billed
// at the extra rates, but only at completion time.
type RentalPackage struct {
	ID            uuid.UUID         `json:"id"`
	ServiceTypeID uuid.UUID         `json:"service_type_id"`
	VehicleType   types.VehicleType `json:"vehicle_type"`
	Zone          *string           `json:"zone,omitempty"`

	Label         string       `json:"label"`
	DurationHours int          `json:"duration_hours"`
	IncludedKm    float64      `json:"included_km"`
	BasePrice     money.Amount `json:"base_price"`
	ExtraKmRate   money.Amount `json:"extra_km_rate"`
	ExtraHourRate money.Amount `json:"extra_hour_rate"`

	CancellationFee    money.Amount `json:"cancellation_fee"`
	NoShowFee          money.Amount `json:"no_show_fee"`
	FreeWaitingMinutes int          `json:"free_waiting_minutes"`
	WaitingPerMinute   money.Amount `json:"waiting_charge_per_minute"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// ZoneMatches reports whether a candidate scoped to `zone` applies to the
// requested zone: unset means wildcard.
func ZoneMatches(candidate *string, requested *string) bool {
	if candidate == nil {
		return true
	}
	if requested == nil {
		return false
	}
	return *candidate == *requested
}
