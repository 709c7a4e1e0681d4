package models

import (
	"time"

	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

/* ======================= rabbitmq ======================= */

// BookingEventMessage is published on booking lifecycle and fare changes.
// Amounts are in minor units; Display carries the formatted string the
// notification templates use verbatim.
type BookingEventMessage struct {
	BookingID     uuid.UUID    `json:"booking_id"`
	BookingNumber string       `json:"booking_number"`
	Status        string       `json:"status"`
	QuotedFare    money.Amount `json:"quoted_fare"`
	FinalFare     money.Amount `json:"final_fare"`
	ExtrasTotal   money.Amount `json:"extras_total,omitempty"`
	Currency      string       `json:"currency"`
	Display       string       `json:"display_fare"`
	Reason        string       `json:"reason,omitempty"`
	OccurredAt    time.Time    `json:"occurred_at"`
	CorrelationID string       `json:"correlation_id"`
}

// PaymentEventMessage is published when a payment is recorded against a booking.
type PaymentEventMessage struct {
	PaymentID     uuid.UUID    `json:"payment_id"`
	BookingID     uuid.UUID    `json:"booking_id"`
	BookingNumber string       `json:"booking_number"`
	Amount        money.Amount `json:"amount"`
	Status        string       `json:"status"`
	Currency      string       `json:"currency"`
	PaidAmount    money.Amount `json:"paid_amount"`
	Remaining     money.Amount `json:"remaining_amount"`
	OccurredAt    time.Time    `json:"occurred_at"`
	CorrelationID string       `json:"correlation_id"`
}
