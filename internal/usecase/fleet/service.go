package fleet

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainFleet "transport-manager/internal/domain/fleet"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// Service implements driver and vehicle use cases
type Service struct {
	repo domainFleet.Repository
}

func NewService(repo domainFleet.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDriver(ctx context.Context, req *CreateDriverRequest) (*DriverResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	hiredAt := req.HiredAt
	if hiredAt.IsZero() {
		hiredAt = time.Now()
	}

	d := &domainFleet.Driver{
		LastName:      utils.SanitizeString(req.LastName),
		FirstName:     utils.SanitizeString(req.FirstName),
		LicenseNumber: utils.SanitizeString(req.LicenseNumber),
		Phone:         utils.SanitizePhone(req.Phone),
		Available:     true,
		HiredAt:       hiredAt,
	}

	if err := s.repo.CreateDriver(ctx, d); err != nil {
		return nil, err
	}

	return ToDriverResponse(d), nil
}

func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (*DriverResponse, error) {
	d, err := s.repo.GetDriverByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDriverResponse(d), nil
}

func (s *Service) UpdateDriver(ctx context.Context, id uuid.UUID, req *UpdateDriverRequest) (*DriverResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	d, err := s.repo.GetDriverByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LastName != nil {
		d.LastName = utils.SanitizeString(*req.LastName)
	}
	if req.FirstName != nil {
		d.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.Phone != nil {
		d.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.Available != nil {
		d.Available = *req.Available
	}

	if err := s.repo.UpdateDriver(ctx, d); err != nil {
		return nil, err
	}

	return ToDriverResponse(d), nil
}

func (s *Service) ListDrivers(ctx context.Context, availableOnly bool) ([]DriverResponse, error) {
	drivers, err := s.repo.ListDrivers(ctx, availableOnly)
	if err != nil {
		return nil, err
	}

	out := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, *ToDriverResponse(d))
	}
	return out, nil
}

func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*VehicleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if !req.CapacityKg.IsPositive() || !req.Consumption.IsPositive() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "capacity and consumption must be strictly positive", appErrors.ErrInvalidInput)
	}

	v := &domainFleet.Vehicle{
		Registration: utils.SanitizeString(req.Registration),
		Type:         utils.SanitizeString(req.Type),
		CapacityKg:   req.CapacityKg,
		Consumption:  req.Consumption,
		State:        domainFleet.VehicleAvailable,
	}

	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}

	return ToVehicleResponse(v), nil
}

func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*VehicleResponse, error) {
	v, err := s.repo.GetVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToVehicleResponse(v), nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id uuid.UUID, req *UpdateVehicleRequest) (*VehicleResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	v, err := s.repo.GetVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		v.Type = utils.SanitizeString(*req.Type)
	}
	if req.CapacityKg != nil {
		if !req.CapacityKg.IsPositive() {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "capacity must be strictly positive", appErrors.ErrInvalidInput)
		}
		v.CapacityKg = *req.CapacityKg
	}
	if req.Consumption != nil {
		if !req.Consumption.IsPositive() {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "consumption must be strictly positive", appErrors.ErrInvalidInput)
		}
		v.Consumption = *req.Consumption
	}
	if req.State != nil {
		v.State = domainFleet.VehicleState(*req.State)
	}

	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}

	return ToVehicleResponse(v), nil
}

func (s *Service) ListVehicles(ctx context.Context, state *domainFleet.VehicleState) ([]VehicleResponse, error) {
	vehicles, err := s.repo.ListVehicles(ctx, state)
	if err != nil {
		return nil, err
	}

	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, *ToVehicleResponse(v))
	}
	return out, nil
}
