package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for client repository operations
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, c *Client) error
	List(ctx context.Context, page, pageSize int) ([]*Client, int64, error)

	// AdjustBalance atomically applies delta to the stored balance projection.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}
