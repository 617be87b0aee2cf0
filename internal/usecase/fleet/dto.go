package fleet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainFleet "transport-manager/internal/domain/fleet"
)

type CreateDriverRequest struct {
	LastName      string    `json:"last_name" validate:"required,min=1,max=100"`
	FirstName     string    `json:"first_name" validate:"required,min=1,max=100"`
	LicenseNumber string    `json:"license_number" validate:"required,min=3,max=50"`
	Phone         string    `json:"phone" validate:"omitempty,max=30"`
	HiredAt       time.Time `json:"hired_at"`
}

type UpdateDriverRequest struct {
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Available *bool   `json:"available"`
}

type CreateVehicleRequest struct {
	Registration string          `json:"registration" validate:"required,min=2,max=20"`
	Type         string          `json:"type" validate:"required,max=50"`
	CapacityKg   decimal.Decimal `json:"capacity_kg"`
	Consumption  decimal.Decimal `json:"consumption"`
}

type UpdateVehicleRequest struct {
	Type        *string          `json:"type" validate:"omitempty,max=50"`
	CapacityKg  *decimal.Decimal `json:"capacity_kg"`
	Consumption *decimal.Decimal `json:"consumption"`
	State       *string          `json:"state" validate:"omitempty,oneof=available in_service maintenance out_of_service"`
}

type DriverResponse struct {
	ID            uuid.UUID `json:"id"`
	LastName      string    `json:"last_name"`
	FirstName     string    `json:"first_name"`
	LicenseNumber string    `json:"license_number"`
	Phone         string    `json:"phone,omitempty"`
	Available     bool      `json:"available"`
	HiredAt       time.Time `json:"hired_at"`
}

type VehicleResponse struct {
	ID           uuid.UUID                `json:"id"`
	Registration string                   `json:"registration"`
	Type         string                   `json:"type"`
	CapacityKg   decimal.Decimal          `json:"capacity_kg"`
	Consumption  decimal.Decimal          `json:"consumption"`
	State        domainFleet.VehicleState `json:"state"`
}

func ToDriverResponse(d *domainFleet.Driver) *DriverResponse {
	return &DriverResponse{
		ID:            d.ID,
		LastName:      d.LastName,
		FirstName:     d.FirstName,
		LicenseNumber: d.LicenseNumber,
		Phone:         d.Phone,
		Available:     d.Available,
		HiredAt:       d.HiredAt,
	}
}

func ToVehicleResponse(v *domainFleet.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:           v.ID,
		Registration: v.Registration,
		Type:         v.Type,
		CapacityKg:   v.CapacityKg,
		Consumption:  v.Consumption,
		State:        v.State,
	}
}
