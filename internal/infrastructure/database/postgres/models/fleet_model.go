package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DriverModel represents the database model for Drivers
type DriverModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LastName      string    `gorm:"type:varchar(100);not null"`
	FirstName     string    `gorm:"type:varchar(100);not null"`
	LicenseNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Phone         string    `gorm:"type:varchar(30)"`
	Available     bool      `gorm:"not null;default:true"`
	HiredAt       time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

// VehicleModel represents the database model for Vehicles
type VehicleModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Registration string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Type         string          `gorm:"type:varchar(50);not null"`
	CapacityKg   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Consumption  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	State        string          `gorm:"type:varchar(20);not null;default:'available';index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (VehicleModel) TableName() string {
	return "vehicles"
}
