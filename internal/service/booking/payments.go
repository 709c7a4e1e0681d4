package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/internal/service/pricing"
	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
	"github.com/fleetora/fleetops/pkg/metrics"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

// PaymentSummary is the read-time projection of a booking's ledger: every
// recorded payment plus the reconciliation against the current total due.
type PaymentSummary struct {
	Booking        *models.Booking        `json:"booking"`
	Payments       []models.Payment       `json:"payments"`
	ExtrasTotal    money.Amount           `json:"extras_total"`
	TotalDue       money.Amount           `json:"total_due"`
	Reconciliation pricing.Reconciliation `json:"reconciliation"`

	DisplayTotalDue  string `json:"display_total_due"`
	DisplayPaid      string `json:"display_paid"`
	DisplayRemaining string `json:"display_remaining"`
}

// RecordPayment appends a payment to the booking's ledger and refreshes the
// booking's payment status from the reconciled remainder, in one transaction.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID uuid.UUID, amount money.Amount, method string, status types.PaymentStatus) (*models.Payment, error) {
	ctx = wrap.WithAction(ctx, "record_payment")
	ctx = wrap.WithBookingID(ctx, bookingID.String())

	if amount <= 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: payment amount must be positive", types.ErrValidation))
	}
	switch status {
	case types.PaymentPending, types.PaymentPaid, types.PaymentFailed, types.PaymentCompleted:
	default:
		return nil, wrap.Error(ctx, fmt.Errorf("%w: unknown payment status %q", types.ErrValidation, status))
	}

	var (
		created *models.Payment
		booking *models.Booking
		recon   pricing.Reconciliation
	)

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.Get(ctx, bookingID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		totalDue, err := s.TotalDue(ctx, b)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		created, err = s.payments.Create(ctx, &models.Payment{
			BookingID: bookingID,
			Amount:    amount,
			Status:    status,
			Currency:  b.Currency,
			Method:    method,
		})
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create payment: %w", err))
		}

		ledger, err := s.payments.ListByBooking(ctx, bookingID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		recon = pricing.Reconcile(totalDue, ledger)

		state := b.PaymentStatus
		if recon.RemainingAmount == 0 && totalDue > 0 {
			state = types.PaymentStatePaid
		}
		if state != b.PaymentStatus {
			b.PaymentStatus = state
			if err := s.bookings.Update(ctx, b); err != nil {
				return wrap.Error(ctx, fmt.Errorf("could not update booking payment status: %w", err))
			}
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentsRecordedTotal.WithLabelValues(serviceName, string(status)).Inc()

	msg := models.PaymentEventMessage{
		PaymentID:     created.ID,
		BookingID:     booking.ID,
		BookingNumber: booking.BookingNumber,
		Amount:        created.Amount,
		Status:        string(created.Status),
		Currency:      created.Currency,
		PaidAmount:    recon.PaidAmount,
		Remaining:     recon.RemainingAmount,
		OccurredAt:    time.Now(),
		CorrelationID: uuid.NewString(),
	}
	if err := s.events.PublishPaymentEvent(ctx, KeyPaymentRecord, msg); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionEventPublishFailed)
		s.log.Error(ctx, "failed to publish payment event", err, "routing_key", KeyPaymentRecord)
	}

	return created, nil
}

// PaymentSummary reconciles the booking's ledger against the total due. The
// projection is computed fresh on every call and never stored.
func (s *BookingService) PaymentSummary(ctx context.Context, bookingID uuid.UUID) (*PaymentSummary, error) {
	ctx = wrap.WithAction(ctx, "payment_summary")

	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	payments, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	extras, err := s.ExtrasTotal(ctx, b)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	totalDue := b.FinalFare + extras
	recon := pricing.Reconcile(totalDue, payments)

	return &PaymentSummary{
		Booking:          b,
		Payments:         payments,
		ExtrasTotal:      extras,
		TotalDue:         totalDue,
		Reconciliation:   recon,
		DisplayTotalDue:  money.Format(totalDue, b.Currency),
		DisplayPaid:      money.Format(recon.PaidAmount, b.Currency),
		DisplayRemaining: money.Format(recon.RemainingAmount, b.Currency),
	}, nil
}
