package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for notification repository operations
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*Notification, int64, error)
	ListForClient(ctx context.Context, clientID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	// MarkEmailSent records that the notification went out by email. Set only
	// after a successful send.
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
}
