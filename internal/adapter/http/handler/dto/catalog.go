package dto

import (
	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/fleetora/fleetops/pkg/validator"
	"github.com/google/uuid"
)

// Monetary fields in all request bodies are minor units (e.g. tiyn, cents).

type CreateServiceTypeRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	PricingModel string `json:"pricing_model"`
	ZoneBased    bool   `json:"zone_based"`
}

func (r *CreateServiceTypeRequest) Validate(v *validator.Validator) {
	v.Check(r.Code != "", "code", "must be provided")
	v.Check(len(r.Code) <= 64, "code", "must not be more than 64 characters long")
	v.Check(r.Name != "", "name", "must be provided")
	v.Check(len(r.Name) <= 255, "name", "must not be more than 255 characters long")
	v.Check(validator.PermittedValue(r.PricingModel, "METERED", "PACKAGE"), "pricing_model", "must be one of METERED or PACKAGE")
}

func (r *CreateServiceTypeRequest) ToModel() *models.ServiceType {
	return &models.ServiceType{
		Code:         r.Code,
		Name:         r.Name,
		PricingModel: types.PricingModel(r.PricingModel),
		ZoneBased:    r.ZoneBased,
	}
}

var vehicleTypeValues = []string{"SEDAN", "SUV", "VAN", "PREMIUM"}

type CreatePricingRuleRequest struct {
	ServiceTypeID string  `json:"service_type_id"`
	VehicleType   string  `json:"vehicle_type"`
	Zone          *string `json:"zone"`

	PricingRuleFields
}

// PricingRuleFields are the operator-editable formula fields, shared between
// create and update requests.
type PricingRuleFields struct {
	BaseFare        int64   `json:"base_fare"`
	PerKmRate       int64   `json:"per_km_rate"`
	PerMinuteRate   *int64  `json:"per_minute_rate"`
	MinimumFare     int64   `json:"minimum_fare"`
	SurgeMultiplier float64 `json:"surge_multiplier"`

	CancellationFee    int64 `json:"cancellation_fee"`
	NoShowFee          int64 `json:"no_show_fee"`
	WaitingPerMinute   int64 `json:"waiting_charge_per_minute"`
	FreeWaitingMinutes int   `json:"free_waiting_minutes"`
}

func (f *PricingRuleFields) Validate(v *validator.Validator) {
	v.Check(f.BaseFare >= 0, "base_fare", "must not be negative")
	v.Check(f.PerKmRate >= 0, "per_km_rate", "must not be negative")
	v.Check(f.PerMinuteRate == nil || *f.PerMinuteRate >= 0, "per_minute_rate", "must not be negative")
	v.Check(f.MinimumFare >= 0, "minimum_fare", "must not be negative")
	v.Check(f.SurgeMultiplier > 0, "surge_multiplier", "must be greater than zero")
	v.Check(f.CancellationFee >= 0, "cancellation_fee", "must not be negative")
	v.Check(f.NoShowFee >= 0, "no_show_fee", "must not be negative")
	v.Check(f.WaitingPerMinute >= 0, "waiting_charge_per_minute", "must not be negative")
	v.Check(f.FreeWaitingMinutes >= 0, "free_waiting_minutes", "must not be negative")
}

func (f *PricingRuleFields) apply(rule *models.PricingRule) {
	rule.BaseFare = money.Amount(f.BaseFare)
	rule.PerKmRate = money.Amount(f.PerKmRate)
	if f.PerMinuteRate != nil {
		perMin := money.Amount(*f.PerMinuteRate)
		rule.PerMinuteRate = &perMin
	}
	rule.MinimumFare = money.Amount(f.MinimumFare)
	rule.SurgeMultiplier = f.SurgeMultiplier
	rule.CancellationFee = money.Amount(f.CancellationFee)
	rule.NoShowFee = money.Amount(f.NoShowFee)
	rule.WaitingPerMinute = money.Amount(f.WaitingPerMinute)
	rule.FreeWaitingMinutes = f.FreeWaitingMinutes
}

func (r *CreatePricingRuleRequest) Validate(v *validator.Validator) {
	v.Check(r.ServiceTypeID != "", "service_type_id", "must be provided")
	if r.ServiceTypeID != "" {
		_, err := uuid.Parse(r.ServiceTypeID)
		v.Check(err == nil, "service_type_id", "must be a valid UUID")
	}
	v.Check(validator.PermittedValue(r.VehicleType, vehicleTypeValues...), "vehicle_type", "must be one of SEDAN, SUV, VAN, or PREMIUM")
	v.Check(r.Zone == nil || *r.Zone != "", "zone", "must not be empty when provided")

	r.PricingRuleFields.Validate(v)
}

func (r *CreatePricingRuleRequest) ToModel() (*models.PricingRule, error) {
	serviceTypeID, err := uuid.Parse(r.ServiceTypeID)
	if err != nil {
		return nil, err
	}

	rule := &models.PricingRule{
		ServiceTypeID: serviceTypeID,
		VehicleType:   types.VehicleType(r.VehicleType),
		Zone:          r.Zone,
	}
	r.PricingRuleFields.apply(rule)

	return rule, nil
}

type UpdatePricingRuleRequest struct {
	PricingRuleFields
}

func (r *UpdatePricingRuleRequest) ToModel(id uuid.UUID) *models.PricingRule {
	rule := &models.PricingRule{ID: id}
	r.PricingRuleFields.apply(rule)
	return rule
}

type CreateRentalPackageRequest struct {
	ServiceTypeID string  `json:"service_type_id"`
	VehicleType   string  `json:"vehicle_type"`
	Zone          *string `json:"zone"`

	RentalPackageFields
}

type RentalPackageFields struct {
	Label         string  `json:"label"`
	DurationHours int     `json:"duration_hours"`
	IncludedKm    float64 `json:"included_km"`
	BasePrice     int64   `json:"base_price"`
	ExtraKmRate   int64   `json:"extra_km_rate"`
	ExtraHourRate int64   `json:"extra_hour_rate"`

	CancellationFee    int64 `json:"cancellation_fee"`
	NoShowFee          int64 `json:"no_show_fee"`
	WaitingPerMinute   int64 `json:"waiting_charge_per_minute"`
	FreeWaitingMinutes int   `json:"free_waiting_minutes"`
}

func (f *RentalPackageFields) Validate(v *validator.Validator) {
	v.Check(f.Label != "", "label", "must be provided")
	v.Check(len(f.Label) <= 64, "label", "must not be more than 64 characters long")
	v.Check(f.DurationHours > 0, "duration_hours", "must be greater than zero")
	v.Check(f.IncludedKm >= 0, "included_km", "must not be negative")
	v.Check(f.BasePrice >= 0, "base_price", "must not be negative")
	v.Check(f.ExtraKmRate >= 0, "extra_km_rate", "must not be negative")
	v.Check(f.ExtraHourRate >= 0, "extra_hour_rate", "must not be negative")
	v.Check(f.CancellationFee >= 0, "cancellation_fee", "must not be negative")
	v.Check(f.NoShowFee >= 0, "no_show_fee", "must not be negative")
	v.Check(f.WaitingPerMinute >= 0, "waiting_charge_per_minute", "must not be negative")
	v.Check(f.FreeWaitingMinutes >= 0, "free_waiting_minutes", "must not be negative")
}

func (f *RentalPackageFields) apply(pkg *models.RentalPackage) {
	pkg.Label = f.Label
	pkg.DurationHours = f.DurationHours
	pkg.IncludedKm = f.IncludedKm
	pkg.BasePrice = money.Amount(f.BasePrice)
	pkg.ExtraKmRate = money.Amount(f.ExtraKmRate)
	pkg.ExtraHourRate = money.Amount(f.ExtraHourRate)
	pkg.CancellationFee = money.Amount(f.CancellationFee)
	pkg.NoShowFee = money.Amount(f.NoShowFee)
	pkg.WaitingPerMinute = money.Amount(f.WaitingPerMinute)
	pkg.FreeWaitingMinutes = f.FreeWaitingMinutes
}

func (r *CreateRentalPackageRequest) Validate(v *validator.Validator) {
	v.Check(r.ServiceTypeID != "", "service_type_id", "must be provided")
	if r.ServiceTypeID != "" {
		_, err := uuid.Parse(r.ServiceTypeID)
		v.Check(err == nil, "service_type_id", "must be a valid UUID")
	}
	v.Check(validator.PermittedValue(r.VehicleType, vehicleTypeValues...), "vehicle_type", "must be one of SEDAN, SUV, VAN, or PREMIUM")
	v.Check(r.Zone == nil || *r.Zone != "", "zone", "must not be empty when provided")

	r.RentalPackageFields.Validate(v)
}

func (r *CreateRentalPackageRequest) ToModel() (*models.RentalPackage, error) {
	serviceTypeID, err := uuid.Parse(r.ServiceTypeID)
	if err != nil {
		return nil, err
	}

	pkg := &models.RentalPackage{
		ServiceTypeID: serviceTypeID,
		VehicleType:   types.VehicleType(r.VehicleType),
		Zone:          r.Zone,
	}
	r.RentalPackageFields.apply(pkg)

	return pkg, nil
}

type UpdateRentalPackageRequest struct {
	RentalPackageFields
}

func (r *UpdateRentalPackageRequest) ToModel(id uuid.UUID) *models.RentalPackage {
	pkg := &models.RentalPackage{ID: id}
	r.RentalPackageFields.apply(pkg)
	return pkg
}
