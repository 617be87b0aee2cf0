package expedition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainEvent "transport-manager/internal/domain/event"
	domainExpedition "transport-manager/internal/domain/expedition"
	"transport-manager/internal/logger"
	"transport-manager/internal/prediction"
	"transport-manager/internal/usecase/pricing"
	appErrors "transport-manager/pkg/errors"
	"transport-manager/pkg/utils"

	"go.uber.org/zap"
)

// TourRecomputer recomputes a tour's derived totals after a membership
// change. Satisfied by the tour service; kept as an interface to avoid a
// dependency cycle between the two use cases.
type TourRecomputer interface {
	Recompute(ctx context.Context, tourID uuid.UUID) error
}

// Sweep thresholds: how long an expedition may sit in a status before the
// background sweeper advances it one step.
const (
	staleCreatedAfter  = 1 * time.Hour
	staleTransitAfter  = 24 * time.Hour
	staleSortingAfter  = 48 * time.Hour
	staleDeliveryAfter = 7 * 24 * time.Hour
)

// Service implements expedition use cases
type Service struct {
	repo       domainExpedition.Repository
	pricer     *pricing.Service
	predictor  prediction.Predictor
	dispatcher domainEvent.Dispatcher
	tours      TourRecomputer
}

func NewService(
	repo domainExpedition.Repository,
	pricer *pricing.Service,
	predictor prediction.Predictor,
	dispatcher domainEvent.Dispatcher,
	tours TourRecomputer,
) *Service {
	return &Service{
		repo:       repo,
		pricer:     pricer,
		predictor:  predictor,
		dispatcher: dispatcher,
		tours:      tours,
	}
}

// Create registers a new expedition. The amount comes from the pricing
// engine; when no tariff exists the caller-supplied amount is used, and when
// neither is available creation fails with PRICING_REQUIRED. The numero is
// generated from a sequence and retried once on a duplicate.
func (s *Service) Create(ctx context.Context, agentID *uuid.UUID, req *CreateExpeditionRequest) (*ExpeditionResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if !req.Weight.IsPositive() || !req.Volume.IsPositive() {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "weight and volume must be strictly positive", appErrors.ErrInvalidInput)
	}

	amount, err := s.pricer.PriceShipment(ctx, req.ServiceTypeID, req.DestinationID, req.Weight, req.Volume)
	if err != nil {
		if !errors.Is(err, appErrors.ErrTariffNotFound) {
			return nil, err
		}
		if req.Amount == nil {
			return nil, appErrors.NewAppError(
				"PRICING_REQUIRED",
				"no tariff for this service type and destination; an explicit amount is required",
				appErrors.ErrPricingRequired,
			)
		}
		if req.Amount.IsNegative() {
			return nil, appErrors.NewAppError("VALIDATION_ERROR", "amount must be non-negative", appErrors.ErrInvalidInput)
		}
		amount = req.Amount.Round(2)
	}

	exp := &domainExpedition.Expedition{
		ClientID:      req.ClientID,
		ServiceTypeID: req.ServiceTypeID,
		DestinationID: req.DestinationID,
		AgentID:       agentID,
		Weight:        req.Weight,
		Volume:        req.Volume,
		Description:   utils.SanitizeText(req.Description),
		Amount:        amount,
		Status:        domainExpedition.StatusCreated,
	}

	if err := s.createWithNumero(ctx, exp); err != nil {
		return nil, err
	}

	logger.Info("Expedition created",
		zap.String("numero", exp.Numero),
		zap.String("client_id", exp.ClientID.String()),
		zap.String("amount", exp.Amount.String()),
		zap.String("event", "expedition_created"),
	)

	// Prediction is advisory; failures are logged and swallowed.
	if s.predictor != nil {
		if predicted, err := s.predictor.Predict(ctx, exp); err != nil {
			logger.Warn("Failed to predict delivery time",
				zap.String("numero", exp.Numero),
				zap.Error(err),
			)
		} else if predicted != nil {
			if err := s.repo.SetPredictedDelivery(ctx, exp.ID, *predicted); err != nil {
				logger.Warn("Failed to store delivery prediction",
					zap.String("numero", exp.Numero),
					zap.Error(err),
				)
			} else {
				exp.PredictedDeliveryAt = predicted
			}
		}
	}

	return ToExpeditionResponse(exp), nil
}

// createWithNumero assigns the next EXP numero and persists. The numero
// unique constraint is the hard guarantee; one retry with a fresh sequence
// value covers a lost race, a second collision surfaces DUPLICATE_IDENTIFIER.
func (s *Service) createWithNumero(ctx context.Context, exp *domainExpedition.Expedition) error {
	for attempt := 0; attempt < 2; attempt++ {
		seq, err := s.repo.NextSequence(ctx)
		if err != nil {
			return fmt.Errorf("failed to reserve numero sequence: %w", err)
		}
		exp.Numero = fmt.Sprintf("EXP%06d", seq)

		err = s.repo.Create(ctx, exp)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainExpedition.ErrDuplicateNumero) {
			return err
		}

		logger.Warn("Numero collision, retrying with fresh sequence",
			zap.String("numero", exp.Numero),
		)
	}

	return appErrors.NewAppError(
		"DUPLICATE_IDENTIFIER",
		"could not allocate a unique expedition numero",
		appErrors.ErrDuplicateIdentifier,
	)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ExpeditionResponse, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToExpeditionResponse(exp), nil
}

func (s *Service) List(ctx context.Context, filter *domainExpedition.Filter, scope *domainExpedition.Scope) (*ExpeditionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	exps, total, err := s.repo.List(ctx, filter, scope)
	if err != nil {
		return nil, err
	}

	out := make([]ExpeditionResponse, 0, len(exps))
	for _, e := range exps {
		out = append(out, *ToExpeditionResponse(e))
	}

	return &ExpeditionListResponse{
		Expeditions: out,
		Total:       total,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}, nil
}

func (s *Service) History(ctx context.Context, id uuid.UUID) ([]StatusChangeResponse, error) {
	changes, err := s.repo.ListStatusChanges(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]StatusChangeResponse, 0, len(changes))
	for _, sc := range changes {
		out = append(out, ToStatusChangeResponse(sc))
	}
	return out, nil
}

// UpdateStatus applies one transition of the state machine on behalf of an
// actor. Delivered sets the delivery timestamp exactly once. Every applied
// transition writes a history row and dispatches a status-change event.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus domainExpedition.Status, actor, notes string) (*ExpeditionResponse, error) {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, exp, newStatus, actor, notes); err != nil {
		return nil, err
	}

	return ToExpeditionResponse(exp), nil
}

// ForceFail moves the expedition to failed with the system actor, bypassing
// normal authorization. Used by the critical-incident cascade; emits the same
// event shape as a manual transition.
func (s *Service) ForceFail(ctx context.Context, id uuid.UUID, reason string) error {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.IsTerminal() {
		return appErrors.NewAppError(
			"INVALID_TRANSITION",
			fmt.Sprintf("expedition %s is already in terminal status %s", exp.Numero, exp.Status),
			appErrors.ErrInvalidTransition,
		)
	}

	return s.transition(ctx, exp, domainExpedition.StatusFailed, domainExpedition.SystemActor, reason)
}

func (s *Service) transition(ctx context.Context, exp *domainExpedition.Expedition, newStatus domainExpedition.Status, actor, notes string) error {
	if err := domainExpedition.ValidateTransition(exp.Status, newStatus); err != nil {
		return err
	}

	now := time.Now()
	oldStatus := exp.Status

	var deliveredAt *time.Time
	if newStatus == domainExpedition.StatusDelivered {
		if exp.DeliveredAt != nil {
			return domainExpedition.ErrAlreadyDelivered
		}
		deliveredAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, exp.ID, newStatus, deliveredAt); err != nil {
		return err
	}

	exp.Status = newStatus
	exp.DeliveredAt = deliveredAt
	exp.UpdatedAt = now

	sc := &domainExpedition.StatusChange{
		ExpeditionID: exp.ID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
		Actor:        actor,
		Notes:        notes,
		ChangedAt:    now,
	}
	if err := s.repo.CreateStatusChange(ctx, sc); err != nil {
		return fmt.Errorf("failed to record status history: %w", err)
	}

	logger.Info("Expedition status changed",
		zap.String("numero", exp.Numero),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(newStatus)),
		zap.String("actor", actor),
		zap.String("event", "expedition_status_changed"),
	)

	severity := domainEvent.SeverityInfo
	if newStatus == domainExpedition.StatusFailed {
		severity = domainEvent.SeverityError
	} else if newStatus == domainExpedition.StatusDelivered {
		severity = domainEvent.SeveritySuccess
	}

	clientID := exp.ClientID
	s.dispatcher.Dispatch(ctx, domainEvent.Event{
		Category:      domainEvent.CategoryExpedition,
		Severity:      severity,
		Title:         fmt.Sprintf("Expedition %s status changed", exp.Numero),
		Message:       fmt.Sprintf("Expedition %s moved from %s to %s (actor: %s)", exp.Numero, oldStatus, newStatus, actor),
		SubjectClient: &clientID,
	})

	return nil
}

// AssignToTour links the expedition to a tour and triggers a recomputation of
// the tour's derived totals. The expedition side owns the link.
func (s *Service) AssignToTour(ctx context.Context, id, tourID uuid.UUID) error {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.TourID != nil {
		return domainExpedition.ErrAlreadyOnTour
	}

	if err := s.repo.AssignTour(ctx, id, &tourID); err != nil {
		return err
	}

	if err := s.tours.Recompute(ctx, tourID); err != nil {
		return fmt.Errorf("failed to recompute tour totals: %w", err)
	}

	logger.Info("Expedition assigned to tour",
		zap.String("numero", exp.Numero),
		zap.String("tour_id", tourID.String()),
	)
	return nil
}

func (s *Service) RemoveFromTour(ctx context.Context, id uuid.UUID) error {
	exp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if exp.TourID == nil {
		return domainExpedition.ErrNotOnTour
	}
	tourID := *exp.TourID

	if err := s.repo.AssignTour(ctx, id, nil); err != nil {
		return err
	}

	if err := s.tours.Recompute(ctx, tourID); err != nil {
		return fmt.Errorf("failed to recompute tour totals: %w", err)
	}

	logger.Info("Expedition removed from tour",
		zap.String("numero", exp.Numero),
		zap.String("tour_id", tourID.String()),
	)
	return nil
}

// Sweep advances stale expeditions one step along the happy path, as the
// system actor. Terminal expeditions are never touched; each advancement goes
// through the same transition path as a manual change, so history rows and
// events are emitted identically. Safe to run concurrently with user-driven
// changes: a transition that lost the race simply fails validation and is
// skipped.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	steps := []struct {
		from   domainExpedition.Status
		to     domainExpedition.Status
		maxAge time.Duration
	}{
		{domainExpedition.StatusCreated, domainExpedition.StatusInTransit, staleCreatedAfter},
		{domainExpedition.StatusInTransit, domainExpedition.StatusSorting, staleTransitAfter},
		{domainExpedition.StatusSorting, domainExpedition.StatusOutForDelivery, staleSortingAfter},
		{domainExpedition.StatusOutForDelivery, domainExpedition.StatusDelivered, staleDeliveryAfter},
	}

	advanced := 0
	for _, step := range steps {
		stale, err := s.repo.ListStale(ctx, step.from, now.Add(-step.maxAge))
		if err != nil {
			return advanced, err
		}
		for _, exp := range stale {
			if exp.IsTerminal() {
				continue
			}
			if err := s.transition(ctx, exp, step.to, domainExpedition.SystemActor, "automatic status sweep"); err != nil {
				logger.Warn("Sweep skipped expedition",
					zap.String("numero", exp.Numero),
					zap.Error(err),
				)
				continue
			}
			advanced++
		}
	}

	return advanced, nil
}

// BackfillAmounts re-prices expeditions left with a zero amount, typically
// created before their tariff existed.
func (s *Service) BackfillAmounts(ctx context.Context) (int, error) {
	exps, err := s.repo.ListUnpriced(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, exp := range exps {
		amount, err := s.pricer.PriceShipment(ctx, exp.ServiceTypeID, exp.DestinationID, exp.Weight, exp.Volume)
		if err != nil {
			continue
		}
		if err := s.repo.UpdateAmount(ctx, exp.ID, amount); err != nil {
			logger.Warn("Failed to backfill expedition amount",
				zap.String("numero", exp.Numero),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	return updated, nil
}
