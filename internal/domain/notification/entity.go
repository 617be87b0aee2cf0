package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the persisted form of a dispatched domain event, addressed
// to either a back-office user or a client.
type Notification struct {
	ID       uuid.UUID
	UserID   *uuid.UUID
	ClientID *uuid.UUID

	Type     string // info, warning, error, success
	Category string // expedition, incident, tournee, payment, system
	Title    string
	Message  string

	Read         bool
	SentViaEmail bool

	CreatedAt time.Time
	ReadAt    *time.Time
}
