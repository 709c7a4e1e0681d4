package booking

import (
	"context"
	"fmt"
	"time"

	wrap "github.com/fleetora/fleetops/pkg/logger/wrapper"
)

// generateBookingNumber builds the next human-readable booking number for
// today, e.g. BOOK_20250417_003. Runs inside the creation transaction so the
// per-day counter stays consistent.
func (s *BookingService) generateBookingNumber(ctx context.Context) (string, error) {
	datePart := time.Now().Format("20060102")

	count, err := s.bookings.CountByDate(ctx)
	if err != nil {
		return "", wrap.Error(ctx, err)
	}
	return fmt.Sprintf("BOOK_%s_%03d", datePart, count+1), nil
}
