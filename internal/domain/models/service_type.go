package models

import (
	"time"

	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/google/uuid"
)

// ServiceType is a bookable category of service (metered ride, airport
// transfer, rental, ...). Immutable once pricing rules reference it.
type ServiceType struct {
	ID           uuid.UUID          `json:"id"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	PricingModel types.PricingModel `json:"pricing_model"`
	ZoneBased    bool               `json:"zone_based"`
	CreatedAt    time.Time          `json:"created_at"`
}
