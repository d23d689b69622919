package repository

import (
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// notificationRepository implements the NotificationRepository interface
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository instance
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores an unread notification
func (r *notificationRepository) Create(accountID uint, notificationType, content string) error {
	return models.CreateAccountNotification(r.db, accountID, notificationType, content)
}

// ListByAccount returns the latest notifications of an account
func (r *notificationRepository) ListByAccount(accountID uint, limit int) ([]models.AccountNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var notifications []models.AccountNotification
	err := r.db.Where("company_account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead flags a notification of the account as read
func (r *notificationRepository) MarkAsRead(accountID, id uint) error {
	var n models.AccountNotification
	if err := r.db.Where("company_account_id = ?", accountID).First(&n, id).Error; err != nil {
		return err
	}
	return n.MarkAsRead(r.db)
}
