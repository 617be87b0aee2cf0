package expedition

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the delivery workflow state of an expedition
type Status string

const (
	StatusCreated        Status = "created"          // Registered, not yet moving
	StatusInTransit      Status = "in_transit"       // On the road to a sorting center
	StatusSorting        Status = "sorting"          // At a sorting center
	StatusOutForDelivery Status = "out_for_delivery" // Final leg
	StatusDelivered      Status = "delivered"        // Terminal, sets DeliveredAt
	StatusFailed         Status = "failed"           // Terminal, reachable from any non-terminal state
)

// SystemActor identifies transitions initiated by the system itself
// (scheduled sweeps, incident cascades) rather than a user.
const SystemActor = "system"

// Expedition represents a single trackable consignment. Numero is immutable
// once assigned and unique across the system.
type Expedition struct {
	ID     uuid.UUID
	Numero string

	ClientID      uuid.UUID
	ServiceTypeID uuid.UUID
	DestinationID uuid.UUID
	AgentID       *uuid.UUID

	Weight      decimal.Decimal
	Volume      decimal.Decimal
	Description string
	Amount      decimal.Decimal

	Status Status

	TourID *uuid.UUID

	// PredictedDeliveryAt is advisory only, filled best-effort by the
	// external predictor.
	PredictedDeliveryAt *time.Time
	DeliveredAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal reports whether the expedition can no longer transition.
func (e *Expedition) IsTerminal() bool {
	return e.Status == StatusDelivered || e.Status == StatusFailed
}

// StatusChange records one transition for the history log. Actor is a user id
// string or SystemActor for automated transitions.
type StatusChange struct {
	ID           uuid.UUID
	ExpeditionID uuid.UUID
	OldStatus    Status
	NewStatus    Status
	Actor        string
	Notes        string
	ChangedAt    time.Time
}

// Scope is the explicit authorization predicate applied to list queries.
// A nil field means unrestricted on that axis; admins pass an empty scope.
type Scope struct {
	AgentID  *uuid.UUID // restrict to expeditions handled by this agent
	DriverID *uuid.UUID // restrict to expeditions on this driver's tours
}

// Filter represents filtering options for listing expeditions
type Filter struct {
	Status        *Status
	ClientID      *uuid.UUID
	TourID        *uuid.UUID
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Search        string

	Page     int
	PageSize int
}
