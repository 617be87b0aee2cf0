package incident

import (
	"time"

	"github.com/google/uuid"

	domainIncident "transport-manager/internal/domain/incident"
)

type CreateIncidentRequest struct {
	Type     string `json:"type" validate:"required,oneof=delay loss damage technical other"`
	Severity string `json:"severity" validate:"required,oneof=low medium high critical"`
	Priority string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`

	ExpeditionID *uuid.UUID `json:"expedition_id"`
	TourID       *uuid.UUID `json:"tour_id"`

	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

type ResolveIncidentRequest struct {
	ResolutionDetails string `json:"resolution_details" validate:"required,min=5,max=2000"`
}

type IncidentResponse struct {
	ID       uuid.UUID               `json:"id"`
	Type     domainIncident.Type     `json:"type"`
	Severity domainIncident.Severity `json:"severity"`
	Priority domainIncident.Priority `json:"priority"`

	ExpeditionID *uuid.UUID `json:"expedition_id,omitempty"`
	TourID       *uuid.UUID `json:"tour_id,omitempty"`

	Comment           string     `json:"comment,omitempty"`
	ResolutionDetails string     `json:"resolution_details,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`

	ReportedAt time.Time `json:"reported_at"`
}

func ToIncidentResponse(i *domainIncident.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:                i.ID,
		Type:              i.Type,
		Severity:          i.Severity,
		Priority:          i.Priority,
		ExpeditionID:      i.ExpeditionID,
		TourID:            i.TourID,
		Comment:           i.Comment,
		ResolutionDetails: i.ResolutionDetails,
		ResolvedAt:        i.ResolvedAt,
		ReportedAt:        i.ReportedAt,
	}
}
