package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DestinationModel represents the database model for Destinations
type DestinationModel struct {
	ID      uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	City    string          `gorm:"type:varchar(100);not null"`
	Country string          `gorm:"type:varchar(100);not null"`
	Zone    string          `gorm:"type:varchar(50)"`
	BaseFee decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (DestinationModel) TableName() string {
	return "destinations"
}

// ServiceTypeModel represents the database model for ServiceTypes
type ServiceTypeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (ServiceTypeModel) TableName() string {
	return "service_types"
}

// TariffModel represents the database model for Tariffs. The
// (service type, destination) pair is unique.
type TariffModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ServiceTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_tariff_pair"`
	DestinationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_tariff_pair"`
	PerKg         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PerM3         decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	ServiceType *ServiceTypeModel `gorm:"foreignKey:ServiceTypeID"`
	Destination *DestinationModel `gorm:"foreignKey:DestinationID"`
}

func (TariffModel) TableName() string {
	return "tariffs"
}
