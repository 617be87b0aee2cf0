package tariff

import (
	"context"

	"github.com/google/uuid"

	domainTariff "transport-manager/internal/domain/tariff"
	"transport-manager/internal/usecase/pricing"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// Service implements tariff catalogue use cases and the pricing quote.
type Service struct {
	repo   domainTariff.Repository
	pricer *pricing.Service
}

func NewService(repo domainTariff.Repository, pricer *pricing.Service) *Service {
	return &Service{repo: repo, pricer: pricer}
}

func (s *Service) CreateDestination(ctx context.Context, req *CreateDestinationRequest) (*DestinationResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if req.BaseFee.IsNegative() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "base fee must be non-negative", appErrors.ErrInvalidInput)
	}

	d := &domainTariff.Destination{
		City:    utils.SanitizeString(req.City),
		Country: utils.SanitizeString(req.Country),
		Zone:    utils.SanitizeString(req.Zone),
		BaseFee: req.BaseFee.Round(2),
	}
	if err := s.repo.CreateDestination(ctx, d); err != nil {
		return nil, err
	}
	return ToDestinationResponse(d), nil
}

func (s *Service) ListDestinations(ctx context.Context) ([]DestinationResponse, error) {
	destinations, err := s.repo.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DestinationResponse, 0, len(destinations))
	for _, d := range destinations {
		out = append(out, *ToDestinationResponse(d))
	}
	return out, nil
}

func (s *Service) CreateServiceType(ctx context.Context, req *CreateServiceTypeRequest) (*ServiceTypeResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	st := &domainTariff.ServiceType{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeText(req.Description),
	}
	if err := s.repo.CreateServiceType(ctx, st); err != nil {
		return nil, err
	}
	return ToServiceTypeResponse(st), nil
}

func (s *Service) ListServiceTypes(ctx context.Context) ([]ServiceTypeResponse, error) {
	serviceTypes, err := s.repo.ListServiceTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ServiceTypeResponse, 0, len(serviceTypes))
	for _, st := range serviceTypes {
		out = append(out, *ToServiceTypeResponse(st))
	}
	return out, nil
}

func (s *Service) CreateTariff(ctx context.Context, req *CreateTariffRequest) (*TariffResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if req.PerKg.IsNegative() || req.PerM3.IsNegative() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "rates must be non-negative", appErrors.ErrInvalidInput)
	}

	t := &domainTariff.Tariff{
		ServiceTypeID: req.ServiceTypeID,
		DestinationID: req.DestinationID,
		PerKg:         req.PerKg.Round(2),
		PerM3:         req.PerM3.Round(2),
	}
	if err := s.repo.CreateTariff(ctx, t); err != nil {
		return nil, err
	}
	return ToTariffResponse(t), nil
}

func (s *Service) UpdateTariff(ctx context.Context, id uuid.UUID, req *UpdateTariffRequest) (*TariffResponse, error) {
	t, err := s.repo.GetTariffByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PerKg != nil {
		if req.PerKg.IsNegative() {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "per-kg rate must be non-negative", appErrors.ErrInvalidInput)
		}
		t.PerKg = req.PerKg.Round(2)
	}
	if req.PerM3 != nil {
		if req.PerM3.IsNegative() {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "per-m3 rate must be non-negative", appErrors.ErrInvalidInput)
		}
		t.PerM3 = req.PerM3.Round(2)
	}

	if err := s.repo.UpdateTariff(ctx, t); err != nil {
		return nil, err
	}
	return ToTariffResponse(t), nil
}

func (s *Service) ListTariffs(ctx context.Context) ([]TariffResponse, error) {
	tariffs, err := s.repo.ListTariffs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		out = append(out, *ToTariffResponse(t))
	}
	return out, nil
}

// Quote prices a hypothetical shipment without creating anything.
func (s *Service) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if !req.Weight.IsPositive() || !req.Volume.IsPositive() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "weight and volume must be strictly positive", appErrors.ErrInvalidInput)
	}

	ht, err := s.pricer.PriceShipment(ctx, req.ServiceTypeID, req.DestinationID, req.Weight, req.Volume)
	if err != nil {
		return nil, err
	}
	tva, ttc := pricing.SplitTax(ht, pricing.DefaultTaxRate)

	return &QuoteResponse{
		AmountHT:  ht,
		AmountTVA: tva,
		AmountTTC: ttc,
	}, nil
}
