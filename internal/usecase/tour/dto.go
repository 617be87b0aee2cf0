package tour

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainTour "transport-manager/internal/domain/tour"
)

type CreateTourRequest struct {
	Date      time.Time `json:"date" validate:"required"`
	DriverID  uuid.UUID `json:"driver_id" validate:"required"`
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	Notes     string    `json:"notes" validate:"omitempty,max=1000"`
}

type SetOverridesRequest struct {
	DistanceKm *decimal.Decimal `json:"distance_km"`
	FuelLiters *decimal.Decimal `json:"fuel_liters"`
}

type TourResponse struct {
	ID        uuid.UUID `json:"id"`
	Date      time.Time `json:"date"`
	DriverID  uuid.UUID `json:"driver_id"`
	VehicleID uuid.UUID `json:"vehicle_id"`

	DistanceKm decimal.Decimal `json:"distance_km"`
	FuelLiters decimal.Decimal `json:"fuel_liters"`

	DistanceOverride *decimal.Decimal `json:"distance_override,omitempty"`
	FuelOverride     *decimal.Decimal `json:"fuel_override,omitempty"`

	DurationMinutes int    `json:"duration_minutes"`
	Notes           string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToTourResponse(t *domainTour.Tour) *TourResponse {
	return &TourResponse{
		ID:               t.ID,
		Date:             t.Date,
		DriverID:         t.DriverID,
		VehicleID:        t.VehicleID,
		DistanceKm:       t.EffectiveDistance(),
		FuelLiters:       t.EffectiveFuel(),
		DistanceOverride: t.DistanceOverride,
		FuelOverride:     t.FuelOverride,
		DurationMinutes:  int(t.Duration.Minutes()),
		Notes:            t.Notes,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}
