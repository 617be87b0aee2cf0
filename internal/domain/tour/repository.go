package tour

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for tour repository operations
type Repository interface {
	Create(ctx context.Context, t *Tour) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tour, error)
	Update(ctx context.Context, t *Tour) error
	List(ctx context.Context, date *time.Time, driverID *uuid.UUID, page, pageSize int) ([]*Tour, int64, error)

	// InTourLock runs fn while holding a row lock on the tour, so a
	// recomputation never straddles a concurrent membership mutation.
	InTourLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, t *Tour) error) error

	UpdateTotals(ctx context.Context, id uuid.UUID, distanceKm, fuelLiters decimal.Decimal) error
	SetOverrides(ctx context.Context, id uuid.UUID, distance, fuel *decimal.Decimal) error
}
