package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/internal/service/pricing"
	"github.com/fleetora/fleetops/pkg/logger"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/metrics"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/fleetora/fleetops/pkg/trm"
	"github.com/google/uuid"
)

const serviceName = "fleetops-admin"

type BookingService struct {
	bookings BookingRepository
	payments PaymentRepository
	quoter   FareQuoter
	events   EventPublisher
	trm      trm.TxManager
	log      logger.Logger
}

func NewBookingService(bookings BookingRepository, payments PaymentRepository, quoter FareQuoter, events EventPublisher, trm trm.TxManager, log logger.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		payments: payments,
		quoter:   quoter,
		events:   events,
		trm:      trm,
		log:      log,
	}
}

// Create quotes the trip and persists the booking. The quote is computed once
// here: QuotedFare is frozen at this moment and FinalFare starts equal to it.
func (s *BookingService) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "create_booking")

	quote, err := s.quoter.Quote(ctx, pricing.QuoteRequest{
		ResolutionRequest: pricing.ResolutionRequest{
			ServiceTypeID: b.ServiceTypeID,
			VehicleType:   b.VehicleType,
			Zone:          b.Zone,
		},
		DistanceKm:  b.DistanceKm,
		DurationMin: b.DurationMin,
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	var created *models.Booking
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		number, err := s.generateBookingNumber(ctx)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not generate booking number: %w", err))
		}

		b.BookingNumber = number
		b.QuotedFare = quote.Amount
		b.FinalFare = quote.Amount
		b.Currency = quote.Currency
		b.Status = types.BookingPending
		b.PaymentStatus = types.PaymentStatePending

		created, err = s.bookings.Create(ctx, b)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create booking: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.BookingsTotal.WithLabelValues(serviceName, "created").Inc()
	s.publishBookingEvent(ctx, KeyFareQuoted, created, 0, "")

	return created, nil
}

func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.bookings.Get(ctx, id)
}

func (s *BookingService) List(ctx context.Context, status string, filters models.Filters) ([]models.Booking, models.Metadata, error) {
	return s.bookings.List(ctx, status, filters)
}

// Accept moves a pending booking to ACCEPTED.
func (s *BookingService) Accept(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "accept_booking")
	return s.transition(ctx, id, types.BookingAccepted, func(b *models.Booking, now time.Time) {
		b.AcceptedAt = &now
	})
}

// Start moves an accepted booking to STARTED.
func (s *BookingService) Start(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "start_booking")
	return s.transition(ctx, id, types.BookingStarted, func(b *models.Booking, now time.Time) {
		b.StartedAt = &now
	})
}

func (s *BookingService) transition(ctx context.Context, id uuid.UUID, target types.BookingStatus, stamp func(*models.Booking, time.Time)) (*models.Booking, error) {
	var updated *models.Booking

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if !b.CanTransitionTo(target) {
			return wrap.Error(ctx, fmt.Errorf("%w: %s -> %s", types.ErrInvalidStatusTransition, b.Status, target))
		}

		b.Status = target
		stamp(b, time.Now())

		if err := s.bookings.Update(ctx, b); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update booking: %w", err))
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Complete finishes a started trip and records the itemized post-trip usage.
// The extras total is validated against the re-resolved rule but only the
// usage fields are stored; the total stays derivable.
func (s *BookingService) Complete(ctx context.Context, id uuid.UUID, usage models.ExtrasUsage) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "complete_booking")
	ctx = wrap.WithBookingID(ctx, id.String())

	var (
		completed   *models.Booking
		extrasTotal money.Amount
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if !b.CanTransitionTo(types.BookingCompleted) {
			return wrap.Error(ctx, fmt.Errorf("%w: %s -> %s", types.ErrInvalidStatusTransition, b.Status, types.BookingCompleted))
		}

		if !usage.IsZero() {
			res, err := s.resolveFor(ctx, b)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			extrasTotal, err = pricing.ExtrasCharge(res, usage)
			if err != nil {
				return wrap.Error(ctx, err)
			}
		}

		now := time.Now()
		b.Status = types.BookingCompleted
		b.CompletedAt = &now
		b.Extras = usage

		if err := s.bookings.Update(ctx, b); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update booking: %w", err))
		}
		completed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues(serviceName, "completed").Inc()
	s.publishBookingEvent(ctx, KeyCompleted, completed, extrasTotal, "")

	return completed, nil
}

// Cancel terminates the booking and fixes the final fare at the applicable
// fee: nothing while still pending, the cancellation fee once a driver was
// assigned, the no-show fee when the passenger never appeared.
func (s *BookingService) Cancel(ctx context.Context, id uuid.UUID, reason string, noShow bool) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "cancel_booking")
	ctx = wrap.WithBookingID(ctx, id.String())

	var cancelled *models.Booking

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if !b.CanTransitionTo(types.BookingCancelled) {
			return wrap.Error(ctx, fmt.Errorf("%w: %s -> %s", types.ErrInvalidStatusTransition, b.Status, types.BookingCancelled))
		}

		fee := money.Amount(0)
		if b.Status != types.BookingPending {
			res, err := s.resolveFor(ctx, b)
			if err != nil {
				return wrap.Error(ctx, err)
			}
			if noShow {
				fee = res.NoShowFee()
			} else {
				fee = res.CancellationFee()
			}
		}

		now := time.Now()
		b.Status = types.BookingCancelled
		b.FinalFare = fee
		b.CancellationReason = &reason
		b.CancelledAt = &now

		if err := s.bookings.Update(ctx, b); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update booking: %w", err))
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues(serviceName, "cancelled").Inc()
	s.publishBookingEvent(ctx, KeyCancelled, cancelled, 0, reason)

	return cancelled, nil
}

// OverrideFare overwrites FinalFare with an operator-entered amount. The
// original quote stays on the booking for the audit trail.
func (s *BookingService) OverrideFare(ctx context.Context, id uuid.UUID, amount money.Amount, reason *string) (*models.Booking, error) {
	ctx = wrap.WithAction(ctx, "override_fare")
	ctx = wrap.WithBookingID(ctx, id.String())

	if amount < 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: fare must not be negative", types.ErrValidation))
	}

	var updated *models.Booking

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.Get(ctx, id)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if b.Status == types.BookingCancelled || b.Status == types.BookingNoDriver {
			return wrap.Error(ctx, fmt.Errorf("%w: cannot override fare on a %s booking", types.ErrInvalidStatusTransition, b.Status))
		}

		b.FinalFare = amount
		b.FareOverrideReason = reason

		if err := s.bookings.Update(ctx, b); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update booking: %w", err))
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FareOverridesTotal.WithLabelValues(serviceName).Inc()

	overrideReason := ""
	if reason != nil {
		overrideReason = *reason
	}
	s.publishBookingEvent(ctx, KeyFareOverridden, updated, 0, overrideReason)

	return updated, nil
}

// ExtrasTotal recomputes the billed extras from the stored usage. Calling it
// any number of times yields the same amount.
func (s *BookingService) ExtrasTotal(ctx context.Context, b *models.Booking) (money.Amount, error) {
	if b.Extras.IsZero() {
		return 0, nil
	}

	res, err := s.resolveFor(ctx, b)
	if err != nil {
		return 0, wrap.Error(ctx, err)
	}
	return pricing.ExtrasCharge(res, b.Extras)
}

// TotalDue is the charged amount: final fare plus the derived extras total.
func (s *BookingService) TotalDue(ctx context.Context, b *models.Booking) (money.Amount, error) {
	extras, err := s.ExtrasTotal(ctx, b)
	if err != nil {
		return 0, err
	}
	return b.FinalFare + extras, nil
}

func (s *BookingService) resolveFor(ctx context.Context, b *models.Booking) (*pricing.Resolution, error) {
	return s.quoter.Resolve(ctx, pricing.ResolutionRequest{
		ServiceTypeID: b.ServiceTypeID,
		VehicleType:   b.VehicleType,
		Zone:          b.Zone,
	})
}

func (s *BookingService) publishBookingEvent(ctx context.Context, key string, b *models.Booking, extrasTotal money.Amount, reason string) {
	msg := models.BookingEventMessage{
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Status:        string(b.Status),
		QuotedFare:    b.QuotedFare,
		FinalFare:     b.FinalFare,
		ExtrasTotal:   extrasTotal,
		Currency:      b.Currency,
		Display:       money.Format(b.FinalFare+extrasTotal, b.Currency),
		Reason:        reason,
		OccurredAt:    time.Now(),
		CorrelationID: uuid.NewString(),
	}

	if err := s.events.PublishBookingEvent(ctx, key, msg); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		s.log.Error(ctx, "failed to publish booking event", err, "routing_key", key)
	}
}
