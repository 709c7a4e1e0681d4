package booking

import (
	"context"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/service/pricing"
	"github.com/google/uuid"
)

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error
	List(ctx context.Context, status string, filters models.Filters) ([]models.Booking, models.Metadata, error)
	CountByDate(ctx context.Context) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) (*models.Payment, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Payment, error)
}

// FareQuoter is the pricing engine surface the booking lifecycle needs.
type FareQuoter interface {
	Quote(ctx context.Context, req pricing.QuoteRequest) (*pricing.Quote, error)
	Resolve(ctx context.Context, req pricing.ResolutionRequest) (*pricing.Resolution, error)
	Currency() string
}

// EventPublisher pushes booking/payment events to the notification channel.
// Publishing is best effort: a broker failure never fails the business
// operation, it is logged and counted instead.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, routingKey string, msg models.BookingEventMessage) error
	PublishPaymentEvent(ctx context.Context, routingKey string, msg models.PaymentEventMessage) error
}

// Routing keys on the bookings topic exchange.
const (
	KeyFareQuoted     = "booking.fare_quoted"
	KeyCompleted      = "booking.completed"
	KeyCancelled      = "booking.cancelled"
	KeyFareOverridden = "booking.fare_overridden"
	KeyPaymentRecord  = "payment.recorded"
)
