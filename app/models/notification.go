package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	NOTIFICATION_RENEWED        = "renewed"
	NOTIFICATION_EXPIRY_PENDING = "expiry_pending"
	NOTIFICATION_EXPIRED        = "expired"
	NOTIFICATION_RESTRICTED     = "restricted"
	NOTIFICATION_UNRESTRICTED   = "unrestricted"
)

// AccountNotification is a subscription event shown to the company owner.
type AccountNotification struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CompanyAccountID uint           `gorm:"index" json:"company_account_id"`
	Type             string         `gorm:"type:varchar(50)" json:"type" validate:"oneof=renewed expiry_pending expired restricted unrestricted"`
	Content          string         `gorm:"type:text" json:"content"`
	IsRead           bool           `gorm:"default:false" json:"is_read"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarkAsRead flags the notification as read
func (n *AccountNotification) MarkAsRead(db *gorm.DB) error {
	n.IsRead = true
	return db.Model(n).Update("is_read", true).Error
}

// CreateAccountNotification stores a new unread notification
func CreateAccountNotification(db *gorm.DB, accountID uint, notificationType string, content string) error {
	notification := AccountNotification{
		CompanyAccountID: accountID,
		Type:             notificationType,
		Content:          content,
		IsRead:           false,
	}

	return db.Create(&notification).Error
}
