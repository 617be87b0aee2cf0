package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainBilling "transport-manager/internal/domain/billing"
)

type CreateInvoiceRequest struct {
	ClientID      uuid.UUID   `json:"client_id" validate:"required"`
	ExpeditionIDs []uuid.UUID `json:"expedition_ids" validate:"required,min=1"`
}

type CreatePaymentRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"required,payment_method"`
	Reference string          `json:"reference" validate:"omitempty,max=100"`
}

type InvoiceResponse struct {
	ID       uuid.UUID `json:"id"`
	ClientID uuid.UUID `json:"client_id"`

	ExpeditionIDs []uuid.UUID `json:"expedition_ids"`

	AmountHT  decimal.Decimal `json:"amount_ht"`
	AmountTVA decimal.Decimal `json:"amount_tva"`
	AmountTTC decimal.Decimal `json:"amount_ttc"`

	Status   domainBilling.PaymentStatus `json:"status"`
	IssuedAt time.Time                   `json:"issued_at"`

	CreatedAt time.Time `json:"created_at"`
}

type PaymentResponse struct {
	ID        uuid.UUID                   `json:"id"`
	InvoiceID uuid.UUID                   `json:"invoice_id"`
	Amount    decimal.Decimal             `json:"amount"`
	Method    domainBilling.PaymentMethod `json:"method"`
	Reference string                      `json:"reference,omitempty"`
	PaidAt    time.Time                   `json:"paid_at"`
}

func ToInvoiceResponse(inv *domainBilling.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		ExpeditionIDs: inv.ExpeditionIDs,
		AmountHT:      inv.AmountHT,
		AmountTVA:     inv.AmountTVA,
		AmountTTC:     inv.AmountTTC,
		Status:        inv.Status,
		IssuedAt:      inv.IssuedAt,
		CreatedAt:     inv.CreatedAt,
	}
}

func ToPaymentResponse(p *domainBilling.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		PaidAt:    p.PaidAt,
	}
}
