package expedition

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

	domainEvent "transport-manager/internal/domain/event"
	domainExpedition "transport-manager/internal/domain/expedition"
	domainTariff "transport-manager/internal/domain/tariff"
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

// memExpeditionRepo is an in-memory stand-in for the postgres repository.
// dupOnCreate makes the next N Create calls fail with ErrDuplicateNumero to
// simulate a lost sequence race.
type memExpeditionRepo struct {
	expeditions map[uuid.UUID]*domainExpedition.Expedition
	changes     []*domainExpedition.StatusChange
	seq         int64
	dupOnCreate int
}

func newMemExpeditionRepo() *memExpeditionRepo {
	return &memExpeditionRepo{expeditions: make(map[uuid.UUID]*domainExpedition.Expedition)}
}

func (r *memExpeditionRepo) Create(_ context.Context, e *domainExpedition.Expedition) error {
	if r.dupOnCreate > 0 {
		r.dupOnCreate--
		return domainExpedition.ErrDuplicateNumero
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.expeditions[e.ID] = e
	return nil
}

func (r *memExpeditionRepo) GetByID(_ context.Context, id uuid.UUID) (*domainExpedition.Expedition, error) {
	e, ok := r.expeditions[id]
	if !ok {
		return nil, domainExpedition.ErrExpeditionNotFound
	}
	return e, nil
}

func (r *memExpeditionRepo) GetByNumero(_ context.Context, numero string) (*domainExpedition.Expedition, error) {
	for _, e := range r.expeditions {
		if e.Numero == numero {
			return e, nil
		}
	}
	return nil, domainExpedition.ErrExpeditionNotFound
}

func (r *memExpeditionRepo) Update(_ context.Context, e *domainExpedition.Expedition) error {
	r.expeditions[e.ID] = e
	return nil
}

func (r *memExpeditionRepo) List(_ context.Context, _ *domainExpedition.Filter, _ *domainExpedition.Scope) ([]*domainExpedition.Expedition, int64, error) {
	out := make([]*domainExpedition.Expedition, 0, len(r.expeditions))
	for _, e := range r.expeditions {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *memExpeditionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domainExpedition.Status, deliveredAt *time.Time) error {
	e, ok := r.expeditions[id]
	if !ok {
		return domainExpedition.ErrExpeditionNotFound
	}
	e.Status = status
	if deliveredAt != nil {
		e.DeliveredAt = deliveredAt
	}
	return nil
}

func (r *memExpeditionRepo) UpdateAmount(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	e, ok := r.expeditions[id]
	if !ok {
		return domainExpedition.ErrExpeditionNotFound
	}
	e.Amount = amount
	return nil
}

func (r *memExpeditionRepo) SetPredictedDelivery(_ context.Context, id uuid.UUID, at time.Time) error {
	e, ok := r.expeditions[id]
	if !ok {
		return domainExpedition.ErrExpeditionNotFound
	}
	e.PredictedDeliveryAt = &at
	return nil
}

func (r *memExpeditionRepo) AssignTour(_ context.Context, id uuid.UUID, tourID *uuid.UUID) error {
	e, ok := r.expeditions[id]
	if !ok {
		return domainExpedition.ErrExpeditionNotFound
	}
	e.TourID = tourID
	return nil
}

func (r *memExpeditionRepo) NextSequence(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *memExpeditionRepo) ListStale(_ context.Context, status domainExpedition.Status, createdBefore time.Time) ([]*domainExpedition.Expedition, error) {
	var out []*domainExpedition.Expedition
	for _, e := range r.expeditions {
		if e.Status == status && e.CreatedAt.Before(createdBefore) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpeditionRepo) ListUnpriced(_ context.Context) ([]*domainExpedition.Expedition, error) {
	var out []*domainExpedition.Expedition
	for _, e := range r.expeditions {
		if e.Amount.IsZero() && !e.IsTerminal() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpeditionRepo) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domainExpedition.Expedition, error) {
	var out []*domainExpedition.Expedition
	for _, id := range ids {
		if e, ok := r.expeditions[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpeditionRepo) ListByTour(_ context.Context, tourID uuid.UUID) ([]*domainExpedition.Expedition, error) {
	var out []*domainExpedition.Expedition
	for _, e := range r.expeditions {
		if e.TourID != nil && *e.TourID == tourID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memExpeditionRepo) CreateStatusChange(_ context.Context, sc *domainExpedition.StatusChange) error {
	sc.ID = uuid.New()
	r.changes = append(r.changes, sc)
	return nil
}

func (r *memExpeditionRepo) ListStatusChanges(_ context.Context, expeditionID uuid.UUID) ([]*domainExpedition.StatusChange, error) {
	var out []*domainExpedition.StatusChange
	for _, sc := range r.changes {
		if sc.ExpeditionID == expeditionID {
			out = append(out, sc)
		}
	}
	return out, nil
}

type fakeTariffRepo struct {
	domainTariff.Repository
	rate *domainTariff.Rate
}

func (f *fakeTariffRepo) RateFor(_ context.Context, _, _ uuid.UUID) (*domainTariff.Rate, error) {
	if f.rate == nil {
		return nil, domainTariff.ErrTariffNotFound
	}
	return f.rate, nil
}

type recordingDispatcher struct {
	events []domainEvent.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e domainEvent.Event) {
	d.events = append(d.events, e)
}

type recordingRecomputer struct {
	tourIDs []uuid.UUID
}

func (r *recordingRecomputer) Recompute(_ context.Context, tourID uuid.UUID) error {
	r.tourIDs = append(r.tourIDs, tourID)
	return nil
}

func standardRate() *domainTariff.Rate {
	return &domainTariff.Rate{
		BaseFee: dec("50.00"),
		PerKg:   dec("2.50"),
		PerM3:   dec("15.00"),
	}
}

func newTestService(repo *memExpeditionRepo, rate *domainTariff.Rate) (*Service, *recordingDispatcher, *recordingRecomputer) {
	dispatcher := &recordingDispatcher{}
	recomputer := &recordingRecomputer{}
	pricer := pricing.NewService(&fakeTariffRepo{rate: rate})
	svc := NewService(repo, pricer, nil, dispatcher, recomputer)
	return svc, dispatcher, recomputer
}

func validCreateRequest() *CreateExpeditionRequest {
	return &CreateExpeditionRequest{
		ClientID:      uuid.New(),
		ServiceTypeID: uuid.New(),
		DestinationID: uuid.New(),
		Weight:        dec("10"),
		Volume:        dec("1"),
		Description:   "pallets of spare parts",
	}
}

func TestCreate_PricesFromTariff(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, standardRate())

	agentID := uuid.New()
	resp, err := svc.Create(context.Background(), &agentID, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "EXP000001", resp.Numero)
	assert.Equal(t, domainExpedition.StatusCreated, resp.Status)
	assert.True(t, dec("90.00").Equal(resp.Amount), "amount=%s", resp.Amount)
	require.NotNil(t, resp.AgentID)
	assert.Equal(t, agentID, *resp.AgentID)
}

func TestCreate_NumeroCollisionRetriesOnce(t *testing.T) {
	repo := newMemExpeditionRepo()
	repo.dupOnCreate = 1
	svc, _, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "EXP000002", resp.Numero)
}

func TestCreate_NumeroCollisionTwiceFails(t *testing.T) {
	repo := newMemExpeditionRepo()
	repo.dupOnCreate = 2
	svc, _, _ := newTestService(repo, standardRate())

	_, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateIdentifier))
}

func TestCreate_NoTariffNoAmountRejected(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPricingRequired))

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PRICING_REQUIRED", appErr.Code)
}

func TestCreate_NoTariffFallsBackToSuppliedAmount(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, nil)

	req := validCreateRequest()
	amount := dec("42.505")
	req.Amount = &amount

	resp, err := svc.Create(context.Background(), nil, req)
	require.NoError(t, err)
	assert.Equal(t, "42.51", resp.Amount.StringFixed(2))
}

func TestCreate_NonPositiveDimensionsRejected(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, standardRate())

	req := validCreateRequest()
	req.Weight = decimal.Zero

	_, err := svc.Create(context.Background(), nil, req)
	require.Error(t, err)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestUpdateStatus_WritesHistoryAndDispatches(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, dispatcher, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)
	dispatcher.events = nil

	actor := uuid.New().String()
	updated, err := svc.UpdateStatus(context.Background(), resp.ID, domainExpedition.StatusInTransit, actor, "picked up")
	require.NoError(t, err)
	assert.Equal(t, domainExpedition.StatusInTransit, updated.Status)

	history, err := svc.History(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domainExpedition.StatusCreated, history[0].OldStatus)
	assert.Equal(t, domainExpedition.StatusInTransit, history[0].NewStatus)
	assert.Equal(t, actor, history[0].Actor)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domainEvent.CategoryExpedition, dispatcher.events[0].Category)
	assert.Equal(t, domainEvent.SeverityInfo, dispatcher.events[0].Severity)
}

func TestUpdateStatus_InvalidTransitionLeavesNoTrace(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, dispatcher, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)
	dispatcher.events = nil

	_, err = svc.UpdateStatus(context.Background(), resp.ID, domainExpedition.StatusDelivered, "someone", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))

	history, err := svc.History(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Empty(t, dispatcher.events)
}

func TestUpdateStatus_DeliveredSetsTimestampOnce(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, dispatcher, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)

	for _, status := range []domainExpedition.Status{
		domainExpedition.StatusInTransit,
		domainExpedition.StatusSorting,
		domainExpedition.StatusOutForDelivery,
	} {
		_, err = svc.UpdateStatus(context.Background(), resp.ID, status, "agent", "")
		require.NoError(t, err)
	}
	dispatcher.events = nil

	delivered, err := svc.UpdateStatus(context.Background(), resp.ID, domainExpedition.StatusDelivered, "driver", "")
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domainEvent.SeveritySuccess, dispatcher.events[0].Severity)

	// Terminal: no further transitions.
	_, err = svc.UpdateStatus(context.Background(), resp.ID, domainExpedition.StatusFailed, "agent", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestForceFail(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, dispatcher, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)
	dispatcher.events = nil

	require.NoError(t, svc.ForceFail(context.Background(), resp.ID, "critical incident"))

	failed, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domainExpedition.StatusFailed, failed.Status)

	history, err := svc.History(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domainExpedition.SystemActor, history[0].Actor)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, domainEvent.SeverityError, dispatcher.events[0].Severity)

	// Already terminal: rejected.
	err = svc.ForceFail(context.Background(), resp.ID, "again")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition))
}

func TestAssignAndRemoveTour(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, recomputer := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)

	tourID := uuid.New()
	require.NoError(t, svc.AssignToTour(context.Background(), resp.ID, tourID))
	require.Len(t, recomputer.tourIDs, 1)
	assert.Equal(t, tourID, recomputer.tourIDs[0])

	err = svc.AssignToTour(context.Background(), resp.ID, uuid.New())
	assert.True(t, errors.Is(err, domainExpedition.ErrAlreadyOnTour))

	require.NoError(t, svc.RemoveFromTour(context.Background(), resp.ID))
	require.Len(t, recomputer.tourIDs, 2)
	assert.Equal(t, tourID, recomputer.tourIDs[1])

	err = svc.RemoveFromTour(context.Background(), resp.ID)
	assert.True(t, errors.Is(err, domainExpedition.ErrNotOnTour))
}

func TestSweep_AdvancesOneStepOnly(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, standardRate())

	resp, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)

	// Old enough to be stale for every step.
	repo.expeditions[resp.ID].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	advanced, err := svc.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, advanced)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, domainExpedition.StatusInTransit, got.Status)
}

func TestSweep_SkipsFreshAndTerminal(t *testing.T) {
	repo := newMemExpeditionRepo()
	svc, _, _ := newTestService(repo, standardRate())

	fresh, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)

	failed, err := svc.Create(context.Background(), nil, validCreateRequest())
	require.NoError(t, err)
	repo.expeditions[failed.ID].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, svc.ForceFail(context.Background(), failed.ID, "lost"))

	advanced, err := svc.Sweep(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, advanced)

	got, err := svc.Get(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domainExpedition.StatusCreated, got.Status)
}

func TestBackfillAmounts(t *testing.T) {
	repo := newMemExpeditionRepo()

	// Created before a tariff existed.
	svcNoTariff, _, _ := newTestService(repo, nil)
	req := validCreateRequest()
	zero := decimal.Zero
	req.Amount = &zero
	resp, err := svcNoTariff.Create(context.Background(), nil, req)
	require.NoError(t, err)

	svc, _, _ := newTestService(repo, standardRate())
	updated, err := svc.BackfillAmounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, dec("90.00").Equal(got.Amount), "amount=%s", got.Amount)
}
