package expedition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for expedition repository operations
type Repository interface {
	Create(ctx context.Context, e *Expedition) error
	GetByID(ctx context.Context, id uuid.UUID) (*Expedition, error)
	GetByNumero(ctx context.Context, numero string) (*Expedition, error)
	Update(ctx context.Context, e *Expedition) error
	List(ctx context.Context, filter *Filter, scope *Scope) ([]*Expedition, int64, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, deliveredAt *time.Time) error
	UpdateAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	SetPredictedDelivery(ctx context.Context, id uuid.UUID, at time.Time) error
	AssignTour(ctx context.Context, id uuid.UUID, tourID *uuid.UUID) error

	// NextSequence reserves the next value of the numero sequence. The unique
	// constraint on numero remains the hard guarantee; callers retry once on
	// a duplicate.
	NextSequence(ctx context.Context) (int64, error)

	// ListStale returns non-terminal expeditions in the given status created
	// before the cutoff, for the status sweeper.
	ListStale(ctx context.Context, status Status, createdBefore time.Time) ([]*Expedition, error)
	ListUnpriced(ctx context.Context) ([]*Expedition, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Expedition, error)
	ListByTour(ctx context.Context, tourID uuid.UUID) ([]*Expedition, error)

	CreateStatusChange(ctx context.Context, sc *StatusChange) error
	ListStatusChanges(ctx context.Context, expeditionID uuid.UUID) ([]*StatusChange, error)
}
