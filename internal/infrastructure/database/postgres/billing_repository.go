package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"transport-manager/internal/domain/billing"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type BillingRepository struct {
	db *DB
}

func NewBillingRepository(db *DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// InTransaction runs fn against a repository bound to a single database
// transaction. Row locks taken via GetInvoiceForUpdate are held until fn
// returns.
func (r *BillingRepository) InTransaction(ctx context.Context, fn func(tx billing.Repository) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BillingRepository{db: &DB{DB: tx}})
	})
}

func (r *BillingRepository) CreateInvoice(ctx context.Context, inv *billing.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = time.Now()
	if inv.Status == "" {
		inv.Status = billing.InvoiceUnpaid
	}

	dbModel := toInvoiceModel(inv)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	links := make([]models.InvoiceExpeditionModel, 0, len(inv.ExpeditionIDs))
	for _, expID := range inv.ExpeditionIDs {
		links = append(links, models.InvoiceExpeditionModel{
			InvoiceID:    inv.ID,
			ExpeditionID: expID,
		})
	}
	if len(links) > 0 {
		if err := r.db.DB.WithContext(ctx).Create(&links).Error; err != nil {
			return fmt.Errorf("failed to link expeditions to invoice: %w", err)
		}
	}

	inv.CreatedAt = dbModel.CreatedAt
	inv.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *BillingRepository) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.getInvoice(ctx, id, false)
}

// GetInvoiceForUpdate loads the invoice with a SELECT ... FOR UPDATE row lock.
// Only meaningful inside InTransaction.
func (r *BillingRepository) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	return r.getInvoice(ctx, id, true)
}

func (r *BillingRepository) getInvoice(ctx context.Context, id uuid.UUID, forUpdate bool) (*billing.Invoice, error) {
	db := r.db.DB.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dbModel models.InvoiceModel
	err := db.Where("id = ?", id).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	expeditionIDs, err := r.invoiceExpeditionIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return toInvoiceEntity(&dbModel, expeditionIDs), nil
}

func (r *BillingRepository) invoiceExpeditionIDs(ctx context.Context, invoiceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.DB.WithContext(ctx).
		Model(&models.InvoiceExpeditionModel{}).
		Where("invoice_id = ?", invoiceID).
		Pluck("expedition_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice expeditions: %w", err)
	}
	return ids, nil
}

func (r *BillingRepository) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status billing.PaymentStatus) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update invoice status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrInvoiceNotFound
	}

	return nil
}

func (r *BillingRepository) ListInvoices(ctx context.Context, clientID *uuid.UUID, status *billing.PaymentStatus, page, pageSize int) ([]*billing.Invoice, int64, error) {
	var dbModels []models.InvoiceModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.InvoiceModel{})

	if clientID != nil {
		db = db.Where("client_id = ?", *clientID)
	}
	if status != nil {
		db = db.Where("status = ?", string(*status))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("issued_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*billing.Invoice, len(dbModels))
	for i := range dbModels {
		expeditionIDs, err := r.invoiceExpeditionIDs(ctx, dbModels[i].ID)
		if err != nil {
			return nil, 0, err
		}
		invoices[i] = toInvoiceEntity(&dbModels[i], expeditionIDs)
	}

	return invoices, total, nil
}

func (r *BillingRepository) ListInvoicesByClient(ctx context.Context, clientID uuid.UUID) ([]*billing.Invoice, error) {
	var dbModels []models.InvoiceModel
	err := r.db.DB.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("issued_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices by client: %w", err)
	}

	invoices := make([]*billing.Invoice, len(dbModels))
	for i := range dbModels {
		expeditionIDs, err := r.invoiceExpeditionIDs(ctx, dbModels[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i] = toInvoiceEntity(&dbModels[i], expeditionIDs)
	}
	return invoices, nil
}

func (r *BillingRepository) InsertPayment(ctx context.Context, p *billing.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()

	dbModel := toPaymentModel(p)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	p.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *BillingRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var dbModel models.PaymentModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billing.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return toPaymentEntity(&dbModel), nil
}

func (r *BillingRepository) DeletePayment(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PaymentModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return billing.ErrPaymentNotFound
	}

	return nil
}

func (r *BillingRepository) ListPaymentsByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*billing.Payment, error) {
	var dbModels []models.PaymentModel
	err := r.db.DB.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*billing.Payment, len(dbModels))
	for i := range dbModels {
		payments[i] = toPaymentEntity(&dbModels[i])
	}
	return payments, nil
}

func (r *BillingRepository) SumPayments(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return sum, nil
}

func (r *BillingRepository) AdjustClientBalance(ctx context.Context, clientID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.ClientModel{}).
		Where("id = ?", clientID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to adjust client balance: %w", result.Error)
	}

	return nil
}

func (r *BillingRepository) ListClientIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.DB.WithContext(ctx).
		Model(&models.ClientModel{}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list client ids: %w", err)
	}
	return ids, nil
}

func (r *BillingRepository) SumInvoicedByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.DB.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("client_id = ?", clientID).
		Select("COALESCE(SUM(amount_ttc), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum invoiced amounts: %w", err)
	}
	return sum, nil
}

func (r *BillingRepository) SumPaidByClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.db.DB.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.client_id = ?", clientID).
		Select("COALESCE(SUM(payments.amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum paid amounts: %w", err)
	}
	return sum, nil
}

// Helper functions to convert between domain entities and database models
func toInvoiceModel(inv *billing.Invoice) *models.InvoiceModel {
	return &models.InvoiceModel{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		AmountHT:  inv.AmountHT,
		AmountTVA: inv.AmountTVA,
		AmountTTC: inv.AmountTTC,
		Status:    string(inv.Status),
		IssuedAt:  inv.IssuedAt,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toInvoiceEntity(m *models.InvoiceModel, expeditionIDs []uuid.UUID) *billing.Invoice {
	return &billing.Invoice{
		ID:            m.ID,
		ClientID:      m.ClientID,
		ExpeditionIDs: expeditionIDs,
		AmountHT:      m.AmountHT,
		AmountTVA:     m.AmountTVA,
		AmountTTC:     m.AmountTTC,
		Status:        billing.PaymentStatus(m.Status),
		IssuedAt:      m.IssuedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toPaymentModel(p *billing.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		Reference: p.Reference,
		PaidAt:    p.PaidAt,
		CreatedAt: p.CreatedAt,
	}
}

func toPaymentEntity(m *models.PaymentModel) *billing.Payment {
	return &billing.Payment{
		ID:        m.ID,
		InvoiceID: m.InvoiceID,
		Amount:    m.Amount,
		Method:    billing.PaymentMethod(m.Method),
		Reference: m.Reference,
		PaidAt:    m.PaidAt,
		CreatedAt: m.CreatedAt,
	}
}
