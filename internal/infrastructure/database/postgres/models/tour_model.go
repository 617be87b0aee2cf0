package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TourModel represents the database model for Tours. DistanceKm and
// FuelLiters hold the computed aggregates; the nullable override columns hold
// operator-supplied values that recomputation never touches.
type TourModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Date      time.Time `gorm:"type:date;not null;index"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index"`

	DistanceKm decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	FuelLiters decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	DistanceOverride *decimal.Decimal `gorm:"type:decimal(10,2)"`
	FuelOverride     *decimal.Decimal `gorm:"type:decimal(10,2)"`

	DurationMinutes int64  `gorm:"not null;default:0"`
	Notes           string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Driver  *DriverModel  `gorm:"foreignKey:DriverID"`
	Vehicle *VehicleModel `gorm:"foreignKey:VehicleID"`
}

func (TourModel) TableName() string {
	return "tours"
}
