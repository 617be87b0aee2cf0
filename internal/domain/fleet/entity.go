package fleet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Driver represents a delivery driver (chauffeur)
type Driver struct {
	ID            uuid.UUID
	LastName      string
	FirstName     string
	LicenseNumber string
	Phone         string
	Available     bool
	HiredAt       time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type VehicleState string

const (
	VehicleAvailable    VehicleState = "available"
	VehicleInService    VehicleState = "in_service"
	VehicleMaintenance  VehicleState = "maintenance"
	VehicleOutOfService VehicleState = "out_of_service"
)

// Vehicle represents a fleet vehicle. Consumption is expressed in L/100km and
// feeds the tour fuel aggregation.
type Vehicle struct {
	ID           uuid.UUID
	Registration string
	Type         string
	CapacityKg   decimal.Decimal
	Consumption  decimal.Decimal
	State        VehicleState

	CreatedAt time.Time
	UpdatedAt time.Time
}
