package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainNotification "transport-manager/internal/domain/notification"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Category     string     `json:"category"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	Read         bool       `json:"read"`
	SentViaEmail bool       `json:"sent_via_email"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
}

func toNotificationResponse(n *domainNotification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:           n.ID,
		Type:         n.Type,
		Category:     n.Category,
		Title:        n.Title,
		Message:      n.Message,
		Read:         n.Read,
		SentViaEmail: n.SentViaEmail,
		CreatedAt:    n.CreatedAt,
		ReadAt:       n.ReadAt,
	}
}

// Service exposes the notification inbox: listing per owner and marking read.
type Service struct {
	repo domainNotification.Repository
}

func NewService(repo domainNotification.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]NotificationResponse, int64, error) {
	notifications, total, err := s.repo.ListForUser(ctx, userID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(notifications), total, nil
}

func (s *Service) ListForClient(ctx context.Context, clientID uuid.UUID, unreadOnly bool, page, pageSize int) ([]NotificationResponse, int64, error) {
	notifications, total, err := s.repo.ListForClient(ctx, clientID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(notifications), total, nil
}

// MarkRead is idempotent: marking an already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

func toResponses(notifications []*domainNotification.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	return out
}
