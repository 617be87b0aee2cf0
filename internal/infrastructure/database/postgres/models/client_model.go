package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientModel represents the database model for Clients
type ClientModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LastName  string          `gorm:"type:varchar(100);not null"`
	FirstName string          `gorm:"type:varchar(100);not null"`
	Email     string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone     string          `gorm:"type:varchar(30)"`
	Address   string          `gorm:"type:text"`
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	RegisteredAt time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (ClientModel) TableName() string {
	return "clients"
}
