package repository

import (
	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
	"gorm.io/gorm"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores one alert notification record
func (r *notificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByDeal retrieves the notifications sent for a deal
func (r *notificationRepository) ListByDeal(dealID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("deal_id = ?", dealID).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// ListByBatch retrieves all notifications of one dispatch run
func (r *notificationRepository) ListByBatch(batchID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("batch_id = ?", batchID).Order("deal_id ASC").Find(&notifications).Error
	return notifications, err
}

// ListRecent retrieves the latest notifications across all deals
func (r *notificationRepository) ListRecent(limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Limit(limit).Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}
