package incident

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for incident repository operations
type Repository interface {
	Create(ctx context.Context, i *Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	Update(ctx context.Context, i *Incident) error
	List(ctx context.Context, expeditionID, tourID *uuid.UUID, unresolvedOnly bool, page, pageSize int) ([]*Incident, int64, error)
}
