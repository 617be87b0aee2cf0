package prediction

import (
	"context"
	"strings"
	"time"

	domainExpedition "transport-manager/internal/domain/expedition"
	domainTariff "transport-manager/internal/domain/tariff"
)

// Predictor estimates a delivery time for an expedition. Implementations are
// black boxes; a nil time with a nil error means "unknown". Callers log and
// swallow failures, never blocking expedition creation on a prediction.
type Predictor interface {
	Predict(ctx context.Context, e *domainExpedition.Expedition) (*time.Time, error)
}

// HeuristicPredictor is the deterministic default: a fixed transit duration
// per service type, counted from expedition creation.
type HeuristicPredictor struct {
	tariffRepo domainTariff.Repository
}

func NewHeuristicPredictor(tariffRepo domainTariff.Repository) *HeuristicPredictor {
	return &HeuristicPredictor{tariffRepo: tariffRepo}
}

func (p *HeuristicPredictor) Predict(ctx context.Context, e *domainExpedition.Expedition) (*time.Time, error) {
	st, err := p.tariffRepo.GetServiceTypeByID(ctx, e.ServiceTypeID)
	if err != nil {
		return nil, err
	}

	var transit time.Duration
	switch strings.ToLower(st.Name) {
	case "express":
		transit = 24 * time.Hour
	case "international":
		transit = 120 * time.Hour
	default:
		transit = 72 * time.Hour
	}

	estimated := e.CreatedAt.Add(transit)
	return &estimated, nil
}
