package expedition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainExpedition "transport-manager/internal/domain/expedition"
)

// Request DTOs
type CreateExpeditionRequest struct {
	ClientID      uuid.UUID `json:"client_id" validate:"required"`
	ServiceTypeID uuid.UUID `json:"service_type_id" validate:"required"`
	DestinationID uuid.UUID `json:"destination_id" validate:"required"`

	Weight decimal.Decimal `json:"weight"`
	Volume decimal.Decimal `json:"volume"`

	Description string `json:"description" validate:"omitempty,max=1000"`

	// Amount is the caller-supplied fallback used only when no tariff exists
	// for the (service type, destination) pair.
	Amount *decimal.Decimal `json:"amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,expedition_status"`
	Notes  string `json:"notes" validate:"omitempty,max=500"`
}

type AssignTourRequest struct {
	TourID uuid.UUID `json:"tour_id" validate:"required"`
}

type ListExpeditionsRequest struct {
	Status        *string    `form:"status"`
	ClientID      *uuid.UUID `form:"client_id"`
	TourID        *uuid.UUID `form:"tour_id"`
	CreatedAfter  *time.Time `form:"created_after"`
	CreatedBefore *time.Time `form:"created_before"`
	Search        string     `form:"search"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// Response DTOs
type ExpeditionResponse struct {
	ID     uuid.UUID               `json:"id"`
	Numero string                  `json:"numero"`
	Status domainExpedition.Status `json:"status"`

	ClientID      uuid.UUID  `json:"client_id"`
	ServiceTypeID uuid.UUID  `json:"service_type_id"`
	DestinationID uuid.UUID  `json:"destination_id"`
	AgentID       *uuid.UUID `json:"agent_id,omitempty"`
	TourID        *uuid.UUID `json:"tour_id,omitempty"`

	Weight      decimal.Decimal `json:"weight"`
	Volume      decimal.Decimal `json:"volume"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`

	PredictedDeliveryAt *time.Time `json:"predicted_delivery_at,omitempty"`
	DeliveredAt         *time.Time `json:"delivered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StatusChangeResponse struct {
	OldStatus domainExpedition.Status `json:"old_status"`
	NewStatus domainExpedition.Status `json:"new_status"`
	Actor     string                  `json:"actor"`
	Notes     string                  `json:"notes,omitempty"`
	ChangedAt time.Time               `json:"changed_at"`
}

type ExpeditionListResponse struct {
	Expeditions []ExpeditionResponse `json:"expeditions"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

func ToExpeditionResponse(e *domainExpedition.Expedition) *ExpeditionResponse {
	return &ExpeditionResponse{
		ID:                  e.ID,
		Numero:              e.Numero,
		Status:              e.Status,
		ClientID:            e.ClientID,
		ServiceTypeID:       e.ServiceTypeID,
		DestinationID:       e.DestinationID,
		AgentID:             e.AgentID,
		TourID:              e.TourID,
		Weight:              e.Weight,
		Volume:              e.Volume,
		Description:         e.Description,
		Amount:              e.Amount,
		PredictedDeliveryAt: e.PredictedDeliveryAt,
		DeliveredAt:         e.DeliveredAt,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func ToStatusChangeResponse(sc *domainExpedition.StatusChange) StatusChangeResponse {
	return StatusChangeResponse{
		OldStatus: sc.OldStatus,
		NewStatus: sc.NewStatus,
		Actor:     sc.Actor,
		Notes:     sc.Notes,
		ChangedAt: sc.ChangedAt,
	}
}
