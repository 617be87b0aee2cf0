package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"transport-manager/internal/domain/notification"
	"transport-manager/internal/infrastructure/database/postgres/models"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()

	dbModel := toNotificationModel(n)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	n.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*notification.Notification, int64, error) {
	return r.list(ctx, "user_id = ?", userID, unreadOnly, page, pageSize)
}

func (r *NotificationRepository) ListForClient(ctx context.Context, clientID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*notification.Notification, int64, error) {
	return r.list(ctx, "client_id = ?", clientID, unreadOnly, page, pageSize)
}

func (r *NotificationRepository) list(ctx context.Context, ownerCond string, ownerID uuid.UUID, unreadOnly bool, page, pageSize int) ([]*notification.Notification, int64, error) {
	var dbModels []models.NotificationModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.NotificationModel{}).Where(ownerCond, ownerID)
	if unreadOnly {
		db = db.Where("read = false")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*notification.Notification, len(dbModels))
	for i := range dbModels {
		notifications[i] = toNotificationEntity(&dbModels[i])
	}

	return notifications, total, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ? AND read = false", id).
		Updates(map[string]interface{}{
			"read":    true,
			"read_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}

	return nil
}

func (r *NotificationRepository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ?", id).
		Update("sent_via_email", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification email sent: %w", result.Error)
	}

	return nil
}

// Helper functions to convert between domain entities and database models
func toNotificationModel(n *notification.Notification) *models.NotificationModel {
	return &models.NotificationModel{
		ID:           n.ID,
		UserID:       n.UserID,
		ClientID:     n.ClientID,
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

func toNotificationEntity(m *models.NotificationModel) *notification.Notification {
	return &notification.Notification{
		ID:           m.ID,
		UserID:       m.UserID,
		ClientID:     m.ClientID,
		Type:         m.Type,
		Category:     m.Category,
		Title:        m.Title,
		Message:      m.Message,
		Read:         m.Read,
		SentViaEmail: m.SentViaEmail,
		CreatedAt:    m.CreatedAt,
		ReadAt:       m.ReadAt,
	}
}
