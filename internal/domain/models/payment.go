package models

import (
	"time"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/money"
	"github.com/google/uuid"
)

// Payment is one monetary transaction attributed to a booking. A booking may
// have many payments (partial payments, retries). Records are append-only:
// nothing is mutated after creation except the status.
type Payment struct {
	ID        uuid.UUID           `json:"id"`
	BookingID uuid.UUID           `json:"booking_id"`
	Amount    money.Amount        `json:"amount"`
	Status    types.PaymentStatus `json:"status"`
	Currency  string              `json:"currency"`
	Method    string              `json:"method,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}
