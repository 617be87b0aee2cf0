package models

import (
	"time"

	"github.com/google/uuid"
)

// IncidentModel represents the database model for Incidents
type IncidentModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type     string    `gorm:"type:varchar(20);not null;index"`
	Severity string    `gorm:"type:varchar(20);not null;index"`
	Priority string    `gorm:"type:varchar(20);not null;default:'normal'"`

	ExpeditionID *uuid.UUID `gorm:"type:uuid;index"`
	TourID       *uuid.UUID `gorm:"type:uuid;index"`

	Comment           string     `gorm:"type:text"`
	ResolutionDetails string     `gorm:"type:text"`
	ResolvedAt        *time.Time `gorm:"type:timestamptz"`

	ReportedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`

	Expedition *ExpeditionModel `gorm:"foreignKey:ExpeditionID"`
	Tour       *TourModel       `gorm:"foreignKey:TourID"`
}

func (IncidentModel) TableName() string {
	return "incidents"
}
