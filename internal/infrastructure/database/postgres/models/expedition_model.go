package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpeditionModel represents the database model for Expeditions
type ExpeditionModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Numero string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	ClientID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ServiceTypeID uuid.UUID  `gorm:"type:uuid;not null"`
	DestinationID uuid.UUID  `gorm:"type:uuid;not null"`
	AgentID       *uuid.UUID `gorm:"type:uuid;index"`

	Weight      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Volume      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	Status string `gorm:"type:varchar(20);not null;default:'created';index"`

	TourID *uuid.UUID `gorm:"type:uuid;index"`

	PredictedDeliveryAt *time.Time `gorm:"type:timestamptz"`
	DeliveredAt         *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Client      *ClientModel      `gorm:"foreignKey:ClientID"`
	ServiceType *ServiceTypeModel `gorm:"foreignKey:ServiceTypeID"`
	Destination *DestinationModel `gorm:"foreignKey:DestinationID"`
	Tour        *TourModel        `gorm:"foreignKey:TourID"`
}

func (ExpeditionModel) TableName() string {
	return "expeditions"
}

// StatusChangeModel represents the database model for the expedition status
// history log
type StatusChangeModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExpeditionID uuid.UUID `gorm:"type:uuid;not null;index"`
	OldStatus    string    `gorm:"type:varchar(20);not null"`
	NewStatus    string    `gorm:"type:varchar(20);not null"`
	Actor        string    `gorm:"type:varchar(100);not null"`
	Notes        string    `gorm:"type:text"`
	ChangedAt    time.Time `gorm:"not null;index"`

	Expedition *ExpeditionModel `gorm:"foreignKey:ExpeditionID"`
}

func (StatusChangeModel) TableName() string {
	return "expedition_status_changes"
}
