package incident

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeDelay     Type = "delay"
	TypeLoss      Type = "loss"
	TypeDamage    Type = "damage"
	TypeTechnical Type = "technical"
	TypeOther     Type = "other"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Incident is an operational problem linked to an expedition or a tour.
// A critical incident tied to an expedition forces it to failed.
type Incident struct {
	ID       uuid.UUID
	Type     Type
	Severity Severity
	Priority Priority

	ExpeditionID *uuid.UUID
	TourID       *uuid.UUID

	Comment           string
	ResolutionDetails string
	ResolvedAt        *time.Time

	ReportedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsResolved reports whether the incident has been closed.
func (i *Incident) IsResolved() bool {
	return i.ResolvedAt != nil
}
