package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationModel represents the database model for Notifications
type NotificationModel struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	ClientID *uuid.UUID `gorm:"type:uuid;index"`

	Type     string `gorm:"type:varchar(20);not null"`
	Category string `gorm:"type:varchar(20);not null;index"`
	Title    string `gorm:"type:varchar(255);not null"`
	Message  string `gorm:"type:text;not null"`

	Read         bool `gorm:"not null;default:false;index"`
	SentViaEmail bool `gorm:"not null;default:false"`

	CreatedAt time.Time  `gorm:"not null;index"`
	ReadAt    *time.Time `gorm:"type:timestamptz"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}
