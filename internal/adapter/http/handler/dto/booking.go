package dto

import (
	"math"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/fleetora/fleetops/pkg/validator"
	"github.com/google/uuid"
)

// TripScope identifies the pricing scope plus trip parameters, shared by
// quote and booking creation requests.
type TripScope struct {
	ServiceTypeID   string  `json:"service_type_id"`
	VehicleType     string  `json:"vehicle_type"`
	Zone            *string `json:"zone"`
	DistanceKm      float64 `json:"distance_km"`
	DurationMinutes *int    `json:"duration_minutes"`
}

func (r *TripScope) Validate(v *validator.Validator) {
	v.Check(r.ServiceTypeID != "", "service_type_id", "must be provided")
	if r.ServiceTypeID != "" {
		_, err := uuid.Parse(r.ServiceTypeID)
		v.Check(err == nil, "service_type_id", "must be a valid UUID")
	}
	v.Check(validator.PermittedValue(r.VehicleType, vehicleTypeValues...), "vehicle_type", "must be one of SEDAN, SUV, VAN, or PREMIUM")
	v.Check(r.Zone == nil || *r.Zone != "", "zone", "must not be empty when provided")
	v.Check(r.DistanceKm >= 0, "distance_km", "must not be negative")
	v.Check(!math.IsNaN(r.DistanceKm) && !math.IsInf(r.DistanceKm, 0), "distance_km", "must be a finite number")
	v.Check(r.DurationMinutes == nil || *r.DurationMinutes >= 0, "duration_minutes", "must not be negative")
}

type QuoteRequest struct {
	TripScope
}

type CreateBookingRequest struct {
	TripScope
}

func (r *CreateBookingRequest) ToModel() (*models.Booking, error) {
	serviceTypeID, err := uuid.Parse(r.ServiceTypeID)
	if err != nil {
		return nil, err
	}

	return &models.Booking{
		ServiceTypeID: serviceTypeID,
		VehicleType:   types.VehicleType(r.VehicleType),
		Zone:          r.Zone,
		DistanceKm:    r.DistanceKm,
		DurationMin:   r.DurationMinutes,
	}, nil
}

type CompleteBookingRequest struct {
	ExtraKmUsed        float64 `json:"extra_km_used"`
	ExtraHoursUsed     float64 `json:"extra_hours_used"`
	WaitingTimeMinutes int     `json:"waiting_time_minutes"`
	UpgradeCharges     int64   `json:"upgrade_charges"`
}

func (r *CompleteBookingRequest) Validate(v *validator.Validator) {
	v.Check(r.ExtraKmUsed >= 0, "extra_km_used", "must not be negative")
	v.Check(!math.IsNaN(r.ExtraKmUsed) && !math.IsInf(r.ExtraKmUsed, 0), "extra_km_used", "must be a finite number")
	v.Check(r.ExtraHoursUsed >= 0, "extra_hours_used", "must not be negative")
	v.Check(!math.IsNaN(r.ExtraHoursUsed) && !math.IsInf(r.ExtraHoursUsed, 0), "extra_hours_used", "must be a finite number")
	v.Check(r.WaitingTimeMinutes >= 0, "waiting_time_minutes", "must not be negative")
	v.Check(r.UpgradeCharges >= 0, "upgrade_charges", "must not be negative")
}

func (r *CompleteBookingRequest) ToUsage() models.ExtrasUsage {
	return models.ExtrasUsage{
		ExtraKmUsed:    r.ExtraKmUsed,
		ExtraHoursUsed: r.ExtraHoursUsed,
		WaitingMinutes: r.WaitingTimeMinutes,
		UpgradeCharge:  money.Amount(r.UpgradeCharges),
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
	NoShow bool   `json:"no_show"`
}

func (r *CancelBookingRequest) Validate(v *validator.Validator) {
	v.Check(r.Reason != "", "reason", "must be provided")
	v.Check(len(r.Reason) <= 500, "reason", "must not be more than 500 characters long")
}

type OverrideFareRequest struct {
	FinalFare int64   `json:"final_fare"`
	Reason    *string `json:"reason"`
}

func (r *OverrideFareRequest) Validate(v *validator.Validator) {
	v.Check(r.FinalFare >= 0, "final_fare", "must not be negative")
	v.Check(r.Reason == nil || *r.Reason != "", "reason", "must not be empty when provided")
	v.Check(r.Reason == nil || len(*r.Reason) <= 500, "reason", "must not be more than 500 characters long")
}

type RecordPaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"method"`
	Status string `json:"status"`
}

func (r *RecordPaymentRequest) Validate(v *validator.Validator) {
	v.Check(r.Amount > 0, "amount", "must be greater than zero")
	v.Check(len(r.Method) <= 64, "method", "must not be more than 64 characters long")
	v.Check(validator.PermittedValue(r.Status, "PENDING", "PAID", "FAILED", "COMPLETED"), "status", "must be one of PENDING, PAID, FAILED, or COMPLETED")
}
