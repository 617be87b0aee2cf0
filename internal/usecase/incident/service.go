package incident

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainEvent "transport-manager/internal/domain/event"
	domainIncident "transport-manager/internal/domain/incident"
	"transport-manager/internal/logger"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"
)

// ExpeditionFailer is the hook into the expedition service used by the
// critical-incident cascade.
type ExpeditionFailer interface {
	ForceFail(ctx context.Context, id uuid.UUID, reason string) error
}

// Service implements incident use cases
type Service struct {
	repo        domainIncident.Repository
	expeditions ExpeditionFailer
	dispatcher  domainEvent.Dispatcher
}

func NewService(repo domainIncident.Repository, expeditions ExpeditionFailer, dispatcher domainEvent.Dispatcher) *Service {
	return &Service{
		repo:        repo,
		expeditions: expeditions,
		dispatcher:  dispatcher,
	}
}

// Create records an incident and runs its side effects: a notification event,
// and for a critical incident tied to an expedition the system-initiated
// forced failure of that expedition.
func (s *Service) Create(ctx context.Context, req *CreateIncidentRequest) (*IncidentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	priority := domainIncident.Priority(req.Priority)
	if priority == "" {
		priority = domainIncident.PriorityNormal
	}

	inc := &domainIncident.Incident{
		Type:         domainIncident.Type(req.Type),
		Severity:     domainIncident.Severity(req.Severity),
		Priority:     priority,
		ExpeditionID: req.ExpeditionID,
		TourID:       req.TourID,
		Comment:      utils.SanitizeText(req.Comment),
		ReportedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}

	logger.Warn("Incident reported",
		zap.String("incident_id", inc.ID.String()),
		zap.String("type", string(inc.Type)),
		zap.String("severity", string(inc.Severity)),
	)

	s.dispatcher.Dispatch(ctx, domainEvent.Event{
		Category: domainEvent.CategoryIncident,
		Severity: domainEvent.SeverityWarning,
		Title:    fmt.Sprintf("New incident: %s", inc.Type),
		Message:  fmt.Sprintf("An incident of type %s was reported (severity: %s, priority: %s)", inc.Type, inc.Severity, inc.Priority),
	})

	// The one system-initiated transition with elevated privilege.
	if inc.Severity == domainIncident.SeverityCritical && inc.ExpeditionID != nil {
		reason := fmt.Sprintf("critical incident %s (%s)", inc.ID, inc.Type)
		if err := s.expeditions.ForceFail(ctx, *inc.ExpeditionID, reason); err != nil {
			logger.Warn("Critical incident cascade skipped",
				zap.String("incident_id", inc.ID.String()),
				zap.String("expedition_id", inc.ExpeditionID.String()),
				zap.Error(err),
			)
		}
	}

	return ToIncidentResponse(inc), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*IncidentResponse, error) {
	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToIncidentResponse(inc), nil
}

func (s *Service) List(ctx context.Context, expeditionID, tourID *uuid.UUID, unresolvedOnly bool, page, pageSize int) ([]IncidentResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	incidents, total, err := s.repo.List(ctx, expeditionID, tourID, unresolvedOnly, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	out := make([]IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, *ToIncidentResponse(inc))
	}
	return out, total, nil
}

// Resolve closes the incident and emits a resolution event.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, req *ResolveIncidentRequest) (*IncidentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inc.IsResolved() {
		return nil, domainIncident.ErrAlreadyResolved
	}

	now := time.Now()
	inc.ResolutionDetails = utils.SanitizeText(req.ResolutionDetails)
	inc.ResolvedAt = &now

	if err := s.repo.Update(ctx, inc); err != nil {
		return nil, err
	}

	logger.Info("Incident resolved",
		zap.String("incident_id", inc.ID.String()),
		zap.String("type", string(inc.Type)),
	)

	s.dispatcher.Dispatch(ctx, domainEvent.Event{
		Category: domainEvent.CategoryIncident,
		Severity: domainEvent.SeveritySuccess,
		Title:    fmt.Sprintf("Incident resolved: %s", inc.Type),
		Message:  fmt.Sprintf("Incident %s has been resolved", inc.ID),
	})

	return ToIncidentResponse(inc), nil
}
