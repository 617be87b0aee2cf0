package tour

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tour represents a driver+vehicle's planned set of expeditions for a day.
// DistanceKm and FuelLiters are derived from the current expedition set and
// the vehicle consumption rate; the nullable overrides hold operator-supplied
// values that the aggregator must never overwrite. Effective values prefer
// the override.
type Tour struct {
	ID        uuid.UUID
	Date      time.Time
	DriverID  uuid.UUID
	VehicleID uuid.UUID

	DistanceKm decimal.Decimal
	FuelLiters decimal.Decimal

	DistanceOverride *decimal.Decimal
	FuelOverride     *decimal.Decimal

	Duration time.Duration
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveDistance returns the operator override when set, the computed
// distance otherwise.
func (t *Tour) EffectiveDistance() decimal.Decimal {
	if t.DistanceOverride != nil {
		return *t.DistanceOverride
	}
	return t.DistanceKm
}

// EffectiveFuel returns the operator override when set, the computed fuel
// consumption otherwise.
func (t *Tour) EffectiveFuel() decimal.Decimal {
	if t.FuelOverride != nil {
		return *t.FuelOverride
	}
	return t.FuelLiters
}

// Report aggregates a tour's expedition set for reporting
type Report struct {
	TourID           uuid.UUID
	Date             time.Time
	TotalExpeditions int
	TotalWeight      decimal.Decimal
	TotalVolume      decimal.Decimal
	TotalRevenue     decimal.Decimal
	StatusBreakdown  map[string]int
	DistanceKm       decimal.Decimal
	FuelLiters       decimal.Decimal
}
