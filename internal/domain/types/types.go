package types

// PricingModel selects which catalog a service type resolves against.
type PricingModel string

const (
	MeteredPricing PricingModel = "METERED"
	PackagePricing PricingModel = "PACKAGE"
)

// Enum for vehicle types
type VehicleType string

const (
	SedanVehicle   VehicleType = "SEDAN"
	SUVVehicle     VehicleType = "SUV"
	VanVehicle     VehicleType = "VAN"
	PremiumVehicle VehicleType = "PREMIUM"
)

// Enum for booking lifecycle status
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingStarted   BookingStatus = "STARTED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingNoDriver  BookingStatus = "NO_DRIVER"
)

func (s BookingStatus) String() string {
	return string(s)
}

// Enum for booking payment status
type PaymentState string

const (
	PaymentStatePending PaymentState = "PENDING"
	PaymentStatePaid    PaymentState = "PAID"
	PaymentStateFailed  PaymentState = "FAILED"
)

// Enum for individual payment record status
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// Counts toward the paid amount during reconciliation.
func (s PaymentStatus) Settled() bool {
	return s == PaymentPaid || s == PaymentCompleted
}

// Enum for operator roles
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	AdminRole    UserRole = "ADMIN"
	OperatorRole UserRole = "OPERATOR"
	ViewerRole   UserRole = "VIEWER"
)
