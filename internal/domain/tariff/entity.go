package tariff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Destination represents a deliverable location with its base fee
type Destination struct {
	ID      uuid.UUID
	City    string
	Country string
	Zone    string
	BaseFee decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceType represents a shipping service level (standard, express, international)
type ServiceType struct {
	ID          uuid.UUID
	Name        string
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tariff holds the per-kg and per-m3 rates for a (service type, destination)
// pair. The pair is unique.
type Tariff struct {
	ID            uuid.UUID
	ServiceTypeID uuid.UUID
	DestinationID uuid.UUID
	PerKg         decimal.Decimal
	PerM3         decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rate is the resolved pricing input for one lookup: the tariff rates plus
// the destination base fee.
type Rate struct {
	PerKg   decimal.Decimal
	PerM3   decimal.Decimal
	BaseFee decimal.Decimal
}
