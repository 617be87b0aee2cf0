package tariff

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainTariff "transport-manager/internal/domain/tariff"
)

type CreateDestinationRequest struct {
	City    string          `json:"city" validate:"required,max=100"`
	Country string          `json:"country" validate:"required,max=100"`
	Zone    string          `json:"zone" validate:"omitempty,max=50"`
	BaseFee decimal.Decimal `json:"base_fee"`
}

type CreateServiceTypeRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type CreateTariffRequest struct {
	ServiceTypeID uuid.UUID       `json:"service_type_id" validate:"required"`
	DestinationID uuid.UUID       `json:"destination_id" validate:"required"`
	PerKg         decimal.Decimal `json:"per_kg"`
	PerM3         decimal.Decimal `json:"per_m3"`
}

type UpdateTariffRequest struct {
	PerKg *decimal.Decimal `json:"per_kg"`
	PerM3 *decimal.Decimal `json:"per_m3"`
}

type QuoteRequest struct {
	ServiceTypeID uuid.UUID       `form:"service_type_id" validate:"required"`
	DestinationID uuid.UUID       `form:"destination_id" validate:"required"`
	Weight        decimal.Decimal `form:"weight"`
	Volume        decimal.Decimal `form:"volume"`
}

type QuoteResponse struct {
	AmountHT  decimal.Decimal `json:"amount_ht"`
	AmountTVA decimal.Decimal `json:"amount_tva"`
	AmountTTC decimal.Decimal `json:"amount_ttc"`
}

type DestinationResponse struct {
	ID      uuid.UUID       `json:"id"`
	City    string          `json:"city"`
	Country string          `json:"country"`
	Zone    string          `json:"zone,omitempty"`
	BaseFee decimal.Decimal `json:"base_fee"`
}

type ServiceTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

type TariffResponse struct {
	ID            uuid.UUID       `json:"id"`
	ServiceTypeID uuid.UUID       `json:"service_type_id"`
	DestinationID uuid.UUID       `json:"destination_id"`
	PerKg         decimal.Decimal `json:"per_kg"`
	PerM3         decimal.Decimal `json:"per_m3"`
}

func ToDestinationResponse(d *domainTariff.Destination) *DestinationResponse {
	return &DestinationResponse{
		ID:      d.ID,
		City:    d.City,
		Country: d.Country,
		Zone:    d.Zone,
		BaseFee: d.BaseFee,
	}
}

func ToServiceTypeResponse(st *domainTariff.ServiceType) *ServiceTypeResponse {
	return &ServiceTypeResponse{
		ID:          st.ID,
		Name:        st.Name,
		Description: st.Description,
	}
}

func ToTariffResponse(t *domainTariff.Tariff) *TariffResponse {
	return &TariffResponse{
		ID:            t.ID,
		ServiceTypeID: t.ServiceTypeID,
		DestinationID: t.DestinationID,
		PerKg:         t.PerKg,
		PerM3:         t.PerM3,
	}
}
