package billing

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainBilling "transport-manager/internal/domain/billing"
	domainClient "transport-manager/internal/domain/client"
	domainEvent "transport-manager/internal/domain/event"
	domainExpedition "transport-manager/internal/domain/expedition"
	"transport-manager/internal/logger"
	"transport-manager/internal/usecase/pricing"
	appErrors "transport-manager/pkg/errors"
)

func TestMain(m *testing.M) {
	if err := logger.Init("production"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// memBillingRepo keeps the whole ledger in maps. InTransaction applies fn
// directly; the service's transactional discipline is exercised through the
// call sequence, not through rollback simulation.
type memBillingRepo struct {
	invoices map[uuid.UUID]*domainBilling.Invoice
	payments map[uuid.UUID]*domainBilling.Payment
	balances map[uuid.UUID]decimal.Decimal
}

func newMemBillingRepo() *memBillingRepo {
	return &memBillingRepo{
		invoices: make(map[uuid.UUID]*domainBilling.Invoice),
		payments: make(map[uuid.UUID]*domainBilling.Payment),
		balances: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *memBillingRepo) InTransaction(_ context.Context, fn func(tx domainBilling.Repository) error) error {
	return fn(r)
}

func (r *memBillingRepo) CreateInvoice(_ context.Context, inv *domainBilling.Invoice) error {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	r.invoices[inv.ID] = inv
	return nil
}

func (r *memBillingRepo) GetInvoiceByID(_ context.Context, id uuid.UUID) (*domainBilling.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, domainBilling.ErrInvoiceNotFound
	}
	return inv, nil
}

func (r *memBillingRepo) GetInvoiceForUpdate(ctx context.Context, id uuid.UUID) (*domainBilling.Invoice, error) {
	return r.GetInvoiceByID(ctx, id)
}

func (r *memBillingRepo) UpdateInvoiceStatus(_ context.Context, id uuid.UUID, status domainBilling.PaymentStatus) error {
	inv, ok := r.invoices[id]
	if !ok {
		return domainBilling.ErrInvoiceNotFound
	}
	inv.Status = status
	return nil
}

func (r *memBillingRepo) ListInvoices(_ context.Context, _ *uuid.UUID, _ *domainBilling.PaymentStatus, _, _ int) ([]*domainBilling.Invoice, int64, error) {
	out := make([]*domainBilling.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, int64(len(out)), nil
}

func (r *memBillingRepo) ListInvoicesByClient(_ context.Context, clientID uuid.UUID) ([]*domainBilling.Invoice, error) {
	var out []*domainBilling.Invoice
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memBillingRepo) InsertPayment(_ context.Context, p *domainBilling.Payment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	r.payments[p.ID] = p
	return nil
}

func (r *memBillingRepo) GetPaymentByID(_ context.Context, id uuid.UUID) (*domainBilling.Payment, error) {
	p, ok := r.payments[id]
	if !ok {
		return nil, domainBilling.ErrPaymentNotFound
	}
	return p, nil
}

func (r *memBillingRepo) DeletePayment(_ context.Context, id uuid.UUID) error {
	if _, ok := r.payments[id]; !ok {
		return domainBilling.ErrPaymentNotFound
	}
	delete(r.payments, id)
	return nil
}

func (r *memBillingRepo) ListPaymentsByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*domainBilling.Payment, error) {
	var out []*domainBilling.Payment
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memBillingRepo) SumPayments(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *memBillingRepo) AdjustClientBalance(_ context.Context, clientID uuid.UUID, delta decimal.Decimal) error {
	r.balances[clientID] = r.balances[clientID].Add(delta)
	return nil
}

func (r *memBillingRepo) ListClientIDs(_ context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(r.balances))
	for id := range r.balances {
		out = append(out, id)
	}
	return out, nil
}

func (r *memBillingRepo) SumInvoicedByClient(_ context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, inv := range r.invoices {
		if inv.ClientID == clientID {
			sum = sum.Add(inv.AmountTTC)
		}
	}
	return sum, nil
}

func (r *memBillingRepo) SumPaidByClient(_ context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		inv, ok := r.invoices[p.InvoiceID]
		if ok && inv.ClientID == clientID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type stubExpeditionRepo struct {
	domainExpedition.Repository
	expeditions map[uuid.UUID]*domainExpedition.Expedition
}

func (s *stubExpeditionRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domainExpedition.Expedition, error) {
	var out []*domainExpedition.Expedition
	for _, id := range ids {
		if e, ok := s.expeditions[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubClientRepo struct {
	domainClient.Repository
	clients map[uuid.UUID]*domainClient.Client
}

func (s *stubClientRepo) GetByID(_ context.Context, id uuid.UUID) (*domainClient.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return nil, domainClient.ErrClientNotFound
	}
	return c, nil
}

func (s *stubClientRepo) SetBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	c, ok := s.clients[id]
	if !ok {
		return domainClient.ErrClientNotFound
	}
	c.Balance = balance
	return nil
}

type recordingDispatcher struct {
	events []domainEvent.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e domainEvent.Event) {
	d.events = append(d.events, e)
}

type billingFixture struct {
	svc        *Service
	repo       *memBillingRepo
	clients    *stubClientRepo
	dispatcher *recordingDispatcher
	clientID   uuid.UUID
	expIDs     []uuid.UUID
}

// newBillingFixture wires a client with two expeditions worth 500.00 HT
// total, i.e. 600.00 TTC at the default tax rate.
func newBillingFixture() *billingFixture {
	clientID := uuid.New()

	exp1 := &domainExpedition.Expedition{ID: uuid.New(), ClientID: clientID, Amount: dec("100.00")}
	exp2 := &domainExpedition.Expedition{ID: uuid.New(), ClientID: clientID, Amount: dec("400.00")}

	repo := newMemBillingRepo()
	expeditions := &stubExpeditionRepo{expeditions: map[uuid.UUID]*domainExpedition.Expedition{
		exp1.ID: exp1,
		exp2.ID: exp2,
	}}
	clients := &stubClientRepo{clients: map[uuid.UUID]*domainClient.Client{
		clientID: {ID: clientID, Balance: decimal.Zero},
	}}
	dispatcher := &recordingDispatcher{}

	return &billingFixture{
		svc:        NewService(repo, expeditions, clients, pricing.NewService(nil), dispatcher),
		repo:       repo,
		clients:    clients,
		dispatcher: dispatcher,
		clientID:   clientID,
		expIDs:     []uuid.UUID{exp1.ID, exp2.ID},
	}
}

func (f *billingFixture) createInvoice(t *testing.T) *InvoiceResponse {
	t.Helper()
	inv, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		ClientID:      f.clientID,
		ExpeditionIDs: f.expIDs,
	})
	require.NoError(t, err)
	return inv
}

func (f *billingFixture) pay(t *testing.T, invoiceID uuid.UUID, amount string) *PaymentResponse {
	t.Helper()
	p, err := f.svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		InvoiceID: invoiceID,
		Amount:    dec(amount),
		Method:    "bank_transfer",
	})
	require.NoError(t, err)
	return p
}

func TestCreateInvoice_TaxBreakdown(t *testing.T) {
	f := newBillingFixture()

	inv := f.createInvoice(t)
	assert.True(t, dec("500.00").Equal(inv.AmountHT), "ht=%s", inv.AmountHT)
	assert.True(t, dec("100.00").Equal(inv.AmountTVA), "tva=%s", inv.AmountTVA)
	assert.True(t, dec("600.00").Equal(inv.AmountTTC), "ttc=%s", inv.AmountTTC)
	assert.Equal(t, domainBilling.InvoiceUnpaid, inv.Status)

	// Balance projection grows by the invoiced TTC.
	assert.True(t, dec("600.00").Equal(f.repo.balances[f.clientID]))
}

func TestCreateInvoice_RejectsForeignExpedition(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		ClientID:      uuid.New(),
		ExpeditionIDs: f.expIDs,
	})
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreateInvoice_MissingExpedition(t *testing.T) {
	f := newBillingFixture()

	_, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		ClientID:      f.clientID,
		ExpeditionIDs: append(f.expIDs, uuid.New()),
	})
	assert.True(t, errors.Is(err, domainExpedition.ErrExpeditionNotFound))
}

func TestPaymentLifecycle(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)

	// Partial payment.
	f.pay(t, inv.ID, "300.00")
	got, err := f.svc.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domainBilling.InvoicePartial, got.Status)

	remaining, err := f.svc.RemainingBalance(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, dec("300.00").Equal(remaining), "remaining=%s", remaining)

	// Settling payment.
	f.pay(t, inv.ID, "300.00")
	got, err = f.svc.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domainBilling.InvoicePaid, got.Status)

	// Balance projection back to zero: invoiced 600, paid 600.
	assert.True(t, f.repo.balances[f.clientID].IsZero(), "balance=%s", f.repo.balances[f.clientID])

	// A third payment bounces off the paid invoice.
	_, err = f.svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    dec("1.00"),
		Method:    "cash",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvoiceAlreadyPaid))
}

func TestCreatePayment_RejectsOverpayment(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)

	f.pay(t, inv.ID, "500.00")

	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    dec("100.01"),
		Method:    "card",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrAmountExceedsBalance))

	// The exact remainder still goes through.
	f.pay(t, inv.ID, "100.00")
}

func TestCreatePayment_RejectsNonPositiveAmount(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)

	_, err := f.svc.CreatePayment(context.Background(), &CreatePaymentRequest{
		InvoiceID: inv.ID,
		Amount:    decimal.Zero,
		Method:    "cash",
	})
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestDeletePayment_RevertsStatusAndBalance(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)

	f.pay(t, inv.ID, "300.00")
	settling := f.pay(t, inv.ID, "300.00")

	require.NoError(t, f.svc.DeletePayment(context.Background(), settling.ID))

	got, err := f.svc.GetInvoice(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domainBilling.InvoicePartial, got.Status)

	remaining, err := f.svc.RemainingBalance(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, dec("300.00").Equal(remaining))

	// invoiced 600 - paid 300
	assert.True(t, dec("300.00").Equal(f.repo.balances[f.clientID]))
}

func TestPaymentEventsDispatched(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)

	p := f.pay(t, inv.ID, "600.00")
	require.NoError(t, f.svc.DeletePayment(context.Background(), p.ID))

	require.Len(t, f.dispatcher.events, 2)
	assert.Equal(t, domainEvent.CategoryPayment, f.dispatcher.events[0].Category)
	assert.Equal(t, domainEvent.SeveritySuccess, f.dispatcher.events[0].Severity)
	assert.Equal(t, domainEvent.SeverityWarning, f.dispatcher.events[1].Severity)
}

func TestReconcileBalances_RepairsDrift(t *testing.T) {
	f := newBillingFixture()
	inv := f.createInvoice(t)
	f.pay(t, inv.ID, "200.00")

	// Corrupt the stored projection.
	f.clients.clients[f.clientID].Balance = dec("999.99")

	fixed, err := f.svc.ReconcileBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
	assert.True(t, dec("400.00").Equal(f.clients.clients[f.clientID].Balance),
		"balance=%s", f.clients.clients[f.clientID].Balance)

	// Second run finds nothing to fix.
	fixed, err = f.svc.ReconcileBalances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, domainBilling.InvoiceUnpaid, domainBilling.StatusFor(decimal.Zero, dec("100")))
	assert.Equal(t, domainBilling.InvoicePartial, domainBilling.StatusFor(dec("0.01"), dec("100")))
	assert.Equal(t, domainBilling.InvoicePaid, domainBilling.StatusFor(dec("100"), dec("100")))
}
