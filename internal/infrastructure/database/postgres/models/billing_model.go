package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel represents the database model for Invoices
type InvoiceModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`

	AmountHT  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountTVA decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountTTC decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Status   string    `gorm:"type:varchar(20);not null;default:'unpaid';index"`
	IssuedAt time.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Client *ClientModel `gorm:"foreignKey:ClientID"`
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceExpeditionModel links invoices to the expeditions they bill
type InvoiceExpeditionModel struct {
	InvoiceID    uuid.UUID `gorm:"type:uuid;primary_key"`
	ExpeditionID uuid.UUID `gorm:"type:uuid;primary_key;index"`

	Invoice    *InvoiceModel    `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Expedition *ExpeditionModel `gorm:"foreignKey:ExpeditionID"`
}

func (InvoiceExpeditionModel) TableName() string {
	return "invoice_expeditions"
}

// PaymentModel represents the database model for Payments. Payments are
// removed with their invoice.
type PaymentModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"type:varchar(20);not null"`
	Reference string          `gorm:"type:varchar(100)"`
	PaidAt    time.Time       `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`

	Invoice *InvoiceModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

func (PaymentModel) TableName() string {
	return "payments"
}
