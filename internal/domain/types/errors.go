package types

import "errors"

var (
	ErrNoPricingRule = errors.New("no pricing configured for the requested service, vehicle and zone")
	ErrInvalidRule   = errors.New("pricing rule is missing fields required for this computation")
	ErrValidation    = errors.New("invalid input")

	ErrServiceTypeNotFound   = errors.New("service type not found")
	ErrServiceTypeExists     = errors.New("service type code already exists")
	ErrPricingRuleNotFound   = errors.New("pricing rule not found")
	ErrRentalPackageNotFound = errors.New("rental package not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentNotFound       = errors.New("payment not found")

	ErrInvalidStatusTransition = errors.New("booking status transition not allowed")
	ErrBookingNotCompleted     = errors.New("booking is not completed")
	ErrRuleReferenced          = errors.New("pricing entry is referenced by bookings and can only be deactivated")

	ErrNotFound = errors.New("requested item not found")
)
