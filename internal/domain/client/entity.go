package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client represents a billing customer. Balance is a maintained projection of
// (total invoiced - total paid), adjusted transactionally on every payment
// event and rebuilt by the reconciliation job.
type Client struct {
	ID        uuid.UUID
	LastName  string
	FirstName string
	Email     string
	Phone     string
	Address   string
	Balance   decimal.Decimal

	RegisteredAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
