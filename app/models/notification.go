package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types for credit-window alerts.
const (
	NotificationTypeExpiring = "expiring"
	NotificationTypeExpired  = "expired"
)

// Notification records one dispatched credit-window alert for a deal.
// BatchID groups all notifications produced by a single dispatch run.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	DealID    uint           `gorm:"index" json:"deal_id"`
	Deal      Deal           `gorm:"foreignKey:DealID" json:"-"`
	BatchID   string         `gorm:"type:char(36);index" json:"batch_id"`
	Type      string         `gorm:"type:varchar(20)" json:"type" validate:"oneof=expiring expired"`
	Content   string         `gorm:"type:text" json:"content"`
	SentAt    *time.Time     `gorm:"type:timestamp;default:null" json:"sent_at,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateNotification stores one alert record for a deal.
func CreateNotification(db *gorm.DB, dealID uint, batchID string, notificationType string, content string, sentAt *time.Time) error {
	notification := Notification{
		DealID:  dealID,
		BatchID: batchID,
		Type:    notificationType,
		Content: content,
		SentAt:  sentAt,
	}

	return db.Create(&notification).Error
}
