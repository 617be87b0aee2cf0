package tour

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

	domainExpedition "transport-manager/internal/domain/expedition"
	domainFleet "transport-manager/internal/domain/fleet"
	domainTour "transport-manager/internal/domain/tour"
	"transport-manager/internal/logger"
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

type memTourRepo struct {
	tours map[uuid.UUID]*domainTour.Tour
}

func newMemTourRepo() *memTourRepo {
	return &memTourRepo{tours: make(map[uuid.UUID]*domainTour.Tour)}
}

func (r *memTourRepo) Create(_ context.Context, t *domainTour.Tour) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	r.tours[t.ID] = t
	return nil
}

func (r *memTourRepo) GetByID(_ context.Context, id uuid.UUID) (*domainTour.Tour, error) {
	t, ok := r.tours[id]
	if !ok {
		return nil, domainTour.ErrTourNotFound
	}
	return t, nil
}

func (r *memTourRepo) Update(_ context.Context, t *domainTour.Tour) error {
	r.tours[t.ID] = t
	return nil
}

func (r *memTourRepo) List(_ context.Context, _ *time.Time, _ *uuid.UUID, _, _ int) ([]*domainTour.Tour, int64, error) {
	out := make([]*domainTour.Tour, 0, len(r.tours))
	for _, t := range r.tours {
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *memTourRepo) InTourLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, t *domainTour.Tour) error) error {
	t, ok := r.tours[id]
	if !ok {
		return domainTour.ErrTourNotFound
	}
	return fn(ctx, t)
}

func (r *memTourRepo) UpdateTotals(_ context.Context, id uuid.UUID, distanceKm, fuelLiters decimal.Decimal) error {
	t, ok := r.tours[id]
	if !ok {
		return domainTour.ErrTourNotFound
	}
	t.DistanceKm = distanceKm
	t.FuelLiters = fuelLiters
	return nil
}

func (r *memTourRepo) SetOverrides(_ context.Context, id uuid.UUID, distance, fuel *decimal.Decimal) error {
	t, ok := r.tours[id]
	if !ok {
		return domainTour.ErrTourNotFound
	}
	t.DistanceOverride = distance
	t.FuelOverride = fuel
	return nil
}

// stubExpeditionRepo serves a fixed expedition set for every tour.
type stubExpeditionRepo struct {
	domainExpedition.Repository
	expeditions []*domainExpedition.Expedition
}

func (s *stubExpeditionRepo) ListByTour(_ context.Context, _ uuid.UUID) ([]*domainExpedition.Expedition, error) {
	return s.expeditions, nil
}

type stubFleetRepo struct {
	domainFleet.Repository
	driver  *domainFleet.Driver
	vehicle *domainFleet.Vehicle
}

func (s *stubFleetRepo) GetDriverByID(_ context.Context, _ uuid.UUID) (*domainFleet.Driver, error) {
	if s.driver == nil {
		return nil, domainFleet.ErrDriverNotFound
	}
	return s.driver, nil
}

func (s *stubFleetRepo) GetVehicleByID(_ context.Context, _ uuid.UUID) (*domainFleet.Vehicle, error) {
	if s.vehicle == nil {
		return nil, domainFleet.ErrVehicleNotFound
	}
	return s.vehicle, nil
}

func expeditionSet(n int) []*domainExpedition.Expedition {
	out := make([]*domainExpedition.Expedition, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &domainExpedition.Expedition{
			ID:     uuid.New(),
			Weight: dec("10"),
			Volume: dec("1"),
			Amount: dec("90.00"),
			Status: domainExpedition.StatusInTransit,
		})
	}
	return out
}

func availableFleet() *stubFleetRepo {
	return &stubFleetRepo{
		driver: &domainFleet.Driver{ID: uuid.New(), Available: true},
		vehicle: &domainFleet.Vehicle{
			ID:          uuid.New(),
			Consumption: dec("8.5"), // L/100km
			State:       domainFleet.VehicleAvailable,
		},
	}
}

func createTour(t *testing.T, svc *Service) *TourResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), &CreateTourRequest{
		Date:      time.Now().Truncate(24 * time.Hour),
		DriverID:  uuid.New(),
		VehicleID: uuid.New(),
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_RequiresAvailableDriverAndVehicle(t *testing.T) {
	fleet := availableFleet()
	svc := NewService(newMemTourRepo(), &stubExpeditionRepo{}, fleet)

	resp := createTour(t, svc)
	assert.True(t, resp.DistanceKm.IsZero())
	assert.True(t, resp.FuelLiters.IsZero())

	fleet.driver.Available = false
	_, err := svc.Create(context.Background(), &CreateTourRequest{
		Date: time.Now(), DriverID: uuid.New(), VehicleID: uuid.New(),
	})
	assert.True(t, errors.Is(err, domainFleet.ErrDriverUnavailable))

	fleet.driver.Available = true
	fleet.vehicle.State = domainFleet.VehicleMaintenance
	_, err = svc.Create(context.Background(), &CreateTourRequest{
		Date: time.Now(), DriverID: uuid.New(), VehicleID: uuid.New(),
	})
	assert.True(t, errors.Is(err, domainFleet.ErrVehicleUnavailable))
}

func TestRecompute_DerivesTotalsFromExpeditionSet(t *testing.T) {
	repo := newMemTourRepo()
	expeditions := &stubExpeditionRepo{expeditions: expeditionSet(4)}
	svc := NewService(repo, expeditions, availableFleet())

	resp := createTour(t, svc)
	require.NoError(t, svc.Recompute(context.Background(), resp.ID))

	got, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)

	// 4 expeditions * 50 km = 200 km; 200 * 8.5 / 100 = 17.00 L
	assert.True(t, dec("200.00").Equal(got.DistanceKm), "distance=%s", got.DistanceKm)
	assert.True(t, dec("17.00").Equal(got.FuelLiters), "fuel=%s", got.FuelLiters)
}

func TestRecompute_Idempotent(t *testing.T) {
	repo := newMemTourRepo()
	expeditions := &stubExpeditionRepo{expeditions: expeditionSet(2)}
	svc := NewService(repo, expeditions, availableFleet())

	resp := createTour(t, svc)
	require.NoError(t, svc.Recompute(context.Background(), resp.ID))
	first, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Recompute(context.Background(), resp.ID))
	second, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)

	assert.True(t, first.DistanceKm.Equal(second.DistanceKm))
	assert.True(t, first.FuelLiters.Equal(second.FuelLiters))
}

func TestRecompute_NeverTouchesOverrides(t *testing.T) {
	repo := newMemTourRepo()
	expeditions := &stubExpeditionRepo{expeditions: expeditionSet(3)}
	svc := NewService(repo, expeditions, availableFleet())

	resp := createTour(t, svc)

	distance := dec("275.50")
	fuel := dec("23.40")
	_, err := svc.SetOverrides(context.Background(), resp.ID, &SetOverridesRequest{
		DistanceKm: &distance,
		FuelLiters: &fuel,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Recompute(context.Background(), resp.ID))

	stored := repo.tours[resp.ID]
	require.NotNil(t, stored.DistanceOverride)
	require.NotNil(t, stored.FuelOverride)
	assert.True(t, distance.Equal(*stored.DistanceOverride))
	assert.True(t, fuel.Equal(*stored.FuelOverride))

	// Computed totals updated underneath, effective values stay overridden.
	assert.True(t, dec("150.00").Equal(stored.DistanceKm))
	assert.True(t, distance.Equal(stored.EffectiveDistance()))
	assert.True(t, fuel.Equal(stored.EffectiveFuel()))
}

func TestSetOverrides_NilClears(t *testing.T) {
	repo := newMemTourRepo()
	svc := NewService(repo, &stubExpeditionRepo{}, availableFleet())

	resp := createTour(t, svc)

	distance := dec("120.00")
	_, err := svc.SetOverrides(context.Background(), resp.ID, &SetOverridesRequest{DistanceKm: &distance})
	require.NoError(t, err)

	_, err = svc.SetOverrides(context.Background(), resp.ID, &SetOverridesRequest{})
	require.NoError(t, err)

	stored := repo.tours[resp.ID]
	assert.Nil(t, stored.DistanceOverride)
	assert.Nil(t, stored.FuelOverride)
	assert.True(t, stored.DistanceKm.Equal(stored.EffectiveDistance()))
}

func TestSetOverrides_RejectsNegative(t *testing.T) {
	repo := newMemTourRepo()
	svc := NewService(repo, &stubExpeditionRepo{}, availableFleet())

	resp := createTour(t, svc)

	negative := dec("-1")
	_, err := svc.SetOverrides(context.Background(), resp.ID, &SetOverridesRequest{DistanceKm: &negative})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidInput))
}

func TestReport_AggregatesExpeditionSet(t *testing.T) {
	repo := newMemTourRepo()
	set := expeditionSet(3)
	set[0].Status = domainExpedition.StatusDelivered
	expeditions := &stubExpeditionRepo{expeditions: set}
	svc := NewService(repo, expeditions, availableFleet())

	resp := createTour(t, svc)
	require.NoError(t, svc.Recompute(context.Background(), resp.ID))

	report, err := svc.Report(context.Background(), resp.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalExpeditions)
	assert.True(t, dec("30").Equal(report.TotalWeight), "weight=%s", report.TotalWeight)
	assert.True(t, dec("270.00").Equal(report.TotalRevenue), "revenue=%s", report.TotalRevenue)
	assert.Equal(t, 1, report.StatusBreakdown["delivered"])
	assert.Equal(t, 2, report.StatusBreakdown["in_transit"])
	assert.True(t, dec("150.00").Equal(report.DistanceKm))
}
