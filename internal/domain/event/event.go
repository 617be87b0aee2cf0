package event

import (
	"context"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryExpedition Category = "expedition"
	CategoryIncident   Category = "incident"
	CategoryTour       Category = "tournee"
	CategoryPayment    Category = "payment"
	CategorySystem     Category = "system"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Event is the structured description every state-mutating operation emits.
// Side effects (persistence, email, UI fan-out) are the dispatcher's problem,
// never the emitter's.
type Event struct {
	Category      Category
	Severity      Severity
	Title         string
	Message       string
	SubjectClient *uuid.UUID
	SubjectUser   *uuid.UUID
}

// Dispatcher receives domain events fire-and-forget. Implementations must not
// surface delivery failures to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event)
}
