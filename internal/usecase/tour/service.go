package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainExpedition "transport-manager/internal/domain/expedition"
	domainFleet "transport-manager/internal/domain/fleet"
	domainTour "transport-manager/internal/domain/tour"
	"transport-manager/internal/logger"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// PerExpeditionKm is the deterministic distance estimator: a fixed increment
// per assigned expedition. Swappable for a route-based estimator later.
var PerExpeditionKm = decimal.NewFromInt(50)

// Service implements tour use cases, including the aggregator that derives
// distance and fuel totals from the current expedition set.
type Service struct {
	repo           domainTour.Repository
	expeditionRepo domainExpedition.Repository
	fleetRepo      domainFleet.Repository
}

func NewService(
	repo domainTour.Repository,
	expeditionRepo domainExpedition.Repository,
	fleetRepo domainFleet.Repository,
) *Service {
	return &Service{
		repo:           repo,
		expeditionRepo: expeditionRepo,
		fleetRepo:      fleetRepo,
	}
}

func (s *Service) Create(ctx context.Context, req *CreateTourRequest) (*TourResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	driver, err := s.fleetRepo.GetDriverByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if !driver.Available {
		return nil, domainFleet.ErrDriverUnavailable
	}

	vehicle, err := s.fleetRepo.GetVehicleByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.State != domainFleet.VehicleAvailable && vehicle.State != domainFleet.VehicleInService {
		return nil, domainFleet.ErrVehicleUnavailable
	}

	t := &domainTour.Tour{
		Date:       req.Date,
		DriverID:   req.DriverID,
		VehicleID:  req.VehicleID,
		DistanceKm: decimal.Zero,
		FuelLiters: decimal.Zero,
		Notes:      utils.SanitizeText(req.Notes),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("Tour created",
		zap.String("tour_id", t.ID.String()),
		zap.String("driver_id", t.DriverID.String()),
		zap.String("vehicle_id", t.VehicleID.String()),
	)

	return ToTourResponse(t), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TourResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTourResponse(t), nil
}

func (s *Service) List(ctx context.Context, date *time.Time, driverID *uuid.UUID, page, pageSize int) ([]TourResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	tours, total, err := s.repo.List(ctx, date, driverID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]TourResponse, 0, len(tours))
	for _, t := range tours {
		out = append(out, *ToTourResponse(t))
	}
	return out, total, nil
}

// Recompute derives the tour's distance and fuel totals from its current
// expedition set: distance = count * PerExpeditionKm, fuel = distance *
// vehicle consumption / 100. Idempotent for an unchanged set. The membership
// read and the totals write run under the tour row lock so a concurrent
// membership mutation cannot be half-observed. Operator overrides are stored
// separately and never touched here.
func (s *Service) Recompute(ctx context.Context, id uuid.UUID) error {
	return s.repo.InTourLock(ctx, id, func(ctx context.Context, t *domainTour.Tour) error {
		expeditions, err := s.expeditionRepo.ListByTour(ctx, t.ID)
		if err != nil {
			return err
		}

		vehicle, err := s.fleetRepo.GetVehicleByID(ctx, t.VehicleID)
		if err != nil {
			return err
		}

		distance := PerExpeditionKm.Mul(decimal.NewFromInt(int64(len(expeditions)))).Round(2)
		fuel := distance.Mul(vehicle.Consumption).Div(decimal.NewFromInt(100)).Round(2)

		if err := s.repo.UpdateTotals(ctx, t.ID, distance, fuel); err != nil {
			return err
		}

		logger.Info("Tour totals recomputed",
			zap.String("tour_id", t.ID.String()),
			zap.Int("expeditions", len(expeditions)),
			zap.String("distance_km", distance.String()),
			zap.String("fuel_liters", fuel.String()),
		)
		return nil
	})
}

// SetOverrides records operator-supplied distance/fuel values. A nil field
// clears the corresponding override, re-exposing the computed total.
func (s *Service) SetOverrides(ctx context.Context, id uuid.UUID, req *SetOverridesRequest) (*TourResponse, error) {
	if req.DistanceKm != nil && req.DistanceKm.IsNegative() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "distance must be non-negative", appErrors.ErrInvalidInput)
	}
	if req.FuelLiters != nil && req.FuelLiters.IsNegative() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "fuel must be non-negative", appErrors.ErrInvalidInput)
	}

	if err := s.repo.SetOverrides(ctx, id, req.DistanceKm, req.FuelLiters); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTourResponse(t), nil
}

// Report aggregates the tour's expedition set for the reporting layer.
func (s *Service) Report(ctx context.Context, id uuid.UUID) (*domainTour.Report, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expeditions, err := s.expeditionRepo.ListByTour(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &domainTour.Report{
		TourID:           t.ID,
		Date:             t.Date,
		TotalExpeditions: len(expeditions),
		TotalWeight:      decimal.Zero,
		TotalVolume:      decimal.Zero,
		TotalRevenue:     decimal.Zero,
		StatusBreakdown:  make(map[string]int),
		DistanceKm:       t.EffectiveDistance(),
		FuelLiters:       t.EffectiveFuel(),
	}

	for _, e := range expeditions {
		report.TotalWeight = report.TotalWeight.Add(e.Weight)
		report.TotalVolume = report.TotalVolume.Add(e.Volume)
		report.TotalRevenue = report.TotalRevenue.Add(e.Amount)
		report.StatusBreakdown[string(e.Status)]++
	}

	return report, nil
}
