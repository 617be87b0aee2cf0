package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for invoice and payment repository
// operations. The check-and-write sequence of payment creation must run
// inside InTransaction with the invoice row locked via GetInvoiceForUpdate:
// concurrent payments against the same invoice must never both pass the
// remaining-balance check against a stale sum.
type Repository interface {
	// InTransaction runs fn against a transactional view of the repository.
	// Side effects are committed only if fn returns nil.
	InTransaction(ctx context.Context, fn func(tx Repository) error) error

	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// GetInvoiceForUpdate loads the invoice holding a row-level lock for the
	// rest of the enclosing transaction.
	GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error
	ListInvoices(ctx context.Context, clientID *uuid.UUID, status *PaymentStatus, page, pageSize int) ([]*Invoice, int64, error)
	ListInvoicesByClient(ctx context.Context, clientID uuid.UUID) ([]*Invoice, error)

	InsertPayment(ctx context.Context, p *Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
	ListPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*Payment, error)
	SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// AdjustClientBalance applies delta to the client balance projection
	// within the enclosing transaction.
	AdjustClientBalance(ctx context.Context, clientID uuid.UUID, delta decimal.Decimal) error

	ListClientIDs(ctx context.Context) ([]uuid.UUID, error)
	SumInvoicedByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)
	SumPaidByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)
}
