package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	InvoiceUnpaid  PaymentStatus = "unpaid"
	InvoicePartial PaymentStatus = "partial"
	InvoicePaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
)

// Invoice bills one or more expeditions for a client. The invariant
// TTC = HT + TVA holds always; payment status is a pure function of the sum
// of linked payments vs TTC.
type Invoice struct {
	ID       uuid.UUID
	ClientID uuid.UUID

	ExpeditionIDs []uuid.UUID

	AmountHT  decimal.Decimal
	AmountTVA decimal.Decimal
	AmountTTC decimal.Decimal

	Status   PaymentStatus
	IssuedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusFor derives the invoice payment status from the paid total. Pure.
func StatusFor(paid, ttc decimal.Decimal) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(ttc) && ttc.IsPositive():
		return InvoicePaid
	case paid.IsPositive():
		return InvoicePartial
	default:
		return InvoiceUnpaid
	}
}

// Payment belongs to exactly one invoice. Amount is immutable after creation;
// reversing a payment means deleting it.
type Payment struct {
	ID        uuid.UUID
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
	Method    PaymentMethod
	Reference string
	PaidAt    time.Time

	CreatedAt time.Time
}
