package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainBilling "transport-manager/internal/domain/billing"
	domainClient "transport-manager/internal/domain/client"
	domainEvent "transport-manager/internal/domain/event"
	domainExpedition "transport-manager/internal/domain/expedition"
	"transport-manager/internal/logger"
	"transport-manager/internal/usecase/pricing"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// Service implements the invoice & payment ledger. Payment creation and the
// invoice status recomputation form one atomic unit under an invoice row
// lock; the client balance projection is adjusted in the same transaction.
type Service struct {
	repo           domainBilling.Repository
	expeditionRepo domainExpedition.Repository
	clientRepo     domainClient.Repository
	pricer         *pricing.Service
	dispatcher     domainEvent.Dispatcher
}

func NewService(
	repo domainBilling.Repository,
	expeditionRepo domainExpedition.Repository,
	clientRepo domainClient.Repository,
	pricer *pricing.Service,
	dispatcher domainEvent.Dispatcher,
) *Service {
	return &Service{
		repo:           repo,
		expeditionRepo: expeditionRepo,
		clientRepo:     clientRepo,
		pricer:         pricer,
		dispatcher:     dispatcher,
	}
}

// CreateInvoice bills the given expeditions for a client. Expedition amounts
// are tax-exclusive; the tax breakdown comes from the pricing engine so that
// TTC = HT + TVA holds exactly.
func (s *Service) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	expeditions, err := s.expeditionRepo.ListByIDs(ctx, req.ExpeditionIDs)
	if err != nil {
		return nil, err
	}
	if len(expeditions) != len(req.ExpeditionIDs) {
		return nil, domainExpedition.ErrExpeditionNotFound
	}

	amounts := make([]decimal.Decimal, 0, len(expeditions))
	for _, e := range expeditions {
		if e.ClientID != req.ClientID {
			return nil, appErrors.NewAppError(
				"VALIDATION_ERROR",
				fmt.Sprintf("expedition %s does not belong to this client", e.Numero),
				appErrors.ErrInvalidInput,
			)
		}
		amounts = append(amounts, e.Amount)
	}

	ht, tva, ttc := s.pricer.PriceInvoice(amounts)

	inv := &domainBilling.Invoice{
		ClientID:      req.ClientID,
		ExpeditionIDs: req.ExpeditionIDs,
		AmountHT:      ht,
		AmountTVA:     tva,
		AmountTTC:     ttc,
		Status:        domainBilling.InvoiceUnpaid,
		IssuedAt:      time.Now(),
	}

	err = s.repo.InTransaction(ctx, func(tx domainBilling.Repository) error {
		if err := tx.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		return tx.AdjustClientBalance(ctx, inv.ClientID, ttc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("client_id", inv.ClientID.String()),
		zap.String("amount_ttc", ttc.String()),
		zap.Int("expeditions", len(req.ExpeditionIDs)),
	)

	return ToInvoiceResponse(inv), nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

func (s *Service) ListInvoices(ctx context.Context, clientID *uuid.UUID, status *domainBilling.PaymentStatus, page, pageSize int) ([]InvoiceResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	invoices, total, err := s.repo.ListInvoices(ctx, clientID, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *ToInvoiceResponse(inv))
	}
	return out, total, nil
}

// CreatePayment records a payment against an invoice. The remaining-balance
// check, the payment insert, the invoice status update and the client balance
// adjustment run as one transaction with the invoice row locked, so two
// concurrent payments can never both pass the check against a stale sum.
func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*PaymentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "payment amount must be strictly positive", appErrors.ErrInvalidInput)
	}

	var payment *domainBilling.Payment
	var clientID uuid.UUID

	err := s.repo.InTransaction(ctx, func(tx domainBilling.Repository) error {
		inv, err := tx.GetInvoiceForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		clientID = inv.ClientID

		if inv.Status == domainBilling.InvoicePaid {
			return appErrors.NewAppError(
				"INVOICE_ALREADY_PAID",
				"invoice is already fully paid",
				appErrors.ErrInvoiceAlreadyPaid,
			)
		}

		paid, err := tx.SumPayments(ctx, inv.ID)
		if err != nil {
			return err
		}

		remaining := inv.AmountTTC.Sub(paid)
		if req.Amount.GreaterThan(remaining) {
			return appErrors.NewAppError(
				"AMOUNT_EXCEEDS_BALANCE",
				fmt.Sprintf("payment amount exceeds remaining balance of %s", remaining.StringFixed(2)),
				appErrors.ErrAmountExceedsBalance,
			)
		}

		payment = &domainBilling.Payment{
			InvoiceID: inv.ID,
			Amount:    req.Amount.Round(2),
			Method:    domainBilling.PaymentMethod(req.Method),
			Reference: req.Reference,
			PaidAt:    time.Now(),
		}
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}

		newStatus := domainBilling.StatusFor(paid.Add(payment.Amount), inv.AmountTTC)
		if newStatus != inv.Status {
			if err := tx.UpdateInvoiceStatus(ctx, inv.ID, newStatus); err != nil {
				return err
			}
		}

		return tx.AdjustClientBalance(ctx, inv.ClientID, payment.Amount.Neg())
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("invoice_id", payment.InvoiceID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("method", string(payment.Method)),
	)

	s.dispatcher.Dispatch(ctx, domainEvent.Event{
		Category:      domainEvent.CategoryPayment,
		Severity:      domainEvent.SeveritySuccess,
		Title:         "Payment received",
		Message:       fmt.Sprintf("Payment of %s recorded on invoice %s", payment.Amount.StringFixed(2), payment.InvoiceID),
		SubjectClient: &clientID,
	})

	return ToPaymentResponse(payment), nil
}

// DeletePayment reverses a payment: the record is removed, the invoice status
// is re-derived from the remaining payments, and the client balance
// adjustment is undone. One transaction, same locking discipline as creation.
func (s *Service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	var amount decimal.Decimal
	var invoiceID uuid.UUID
	var clientID uuid.UUID

	err := s.repo.InTransaction(ctx, func(tx domainBilling.Repository) error {
		p, err := tx.GetPaymentByID(ctx, id)
		if err != nil {
			return err
		}
		amount = p.Amount
		invoiceID = p.InvoiceID

		inv, err := tx.GetInvoiceForUpdate(ctx, p.InvoiceID)
		if err != nil {
			return err
		}
		clientID = inv.ClientID

		if err := tx.DeletePayment(ctx, p.ID); err != nil {
			return err
		}

		paid, err := tx.SumPayments(ctx, inv.ID)
		if err != nil {
			return err
		}

		newStatus := domainBilling.StatusFor(paid, inv.AmountTTC)
		if newStatus != inv.Status {
			if err := tx.UpdateInvoiceStatus(ctx, inv.ID, newStatus); err != nil {
				return err
			}
		}

		return tx.AdjustClientBalance(ctx, inv.ClientID, amount)
	})
	if err != nil {
		return err
	}

	logger.Warn("Payment deleted",
		zap.String("payment_id", id.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", amount.String()),
	)

	s.dispatcher.Dispatch(ctx, domainEvent.Event{
		Category:      domainEvent.CategoryPayment,
		Severity:      domainEvent.SeverityWarning,
		Title:         "Payment reversed",
		Message:       fmt.Sprintf("Payment of %s on invoice %s was deleted", amount.StringFixed(2), invoiceID),
		SubjectClient: &clientID,
	})

	return nil
}

// RemainingBalance returns TTC minus the sum of payments. Non-negativity is
// enforced at payment creation, not clamped here.
func (s *Service) RemainingBalance(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	paid, err := s.repo.SumPayments(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, err
	}

	return inv.AmountTTC.Sub(paid), nil
}

func (s *Service) ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.repo.ListPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, *ToPaymentResponse(p))
	}
	return out, nil
}

// ReconcileBalances rebuilds every client balance from invoiced minus paid
// and repairs drift. The projection is a cache, never the source of truth;
// this is the safety net that keeps it honest.
func (s *Service) ReconcileBalances(ctx context.Context) (int, error) {
	clientIDs, err := s.repo.ListClientIDs(ctx)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, clientID := range clientIDs {
		invoiced, err := s.repo.SumInvoicedByClient(ctx, clientID)
		if err != nil {
			return fixed, err
		}
		paid, err := s.repo.SumPaidByClient(ctx, clientID)
		if err != nil {
			return fixed, err
		}
		expected := invoiced.Sub(paid)

		c, err := s.clientRepo.GetByID(ctx, clientID)
		if err != nil {
			return fixed, err
		}

		if !c.Balance.Equal(expected) {
			logger.Warn("Client balance drift repaired",
				zap.String("client_id", clientID.String()),
				zap.String("stored", c.Balance.String()),
				zap.String("expected", expected.String()),
			)
			if err := s.clientRepo.SetBalance(ctx, clientID, expected); err != nil {
				return fixed, err
			}
			fixed++
		}
	}

	return fixed, nil
}
