package repository

import (
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// CompanyUserRepository defines the interface for company user operations
type CompanyUserRepository interface {
	Create(user *models.CompanyUser) error
	GetByID(accountID, id uint) (*models.CompanyUser, error)
	ListByAccount(accountID uint) ([]models.CompanyUser, error)
	CountActive(accountID uint) (int64, error)
	UpdateStatus(accountID, id uint, status string) error
	PermissionIDs(userID uint) ([]uint, error)
	SyncPermissions(userID uint, desired []uint) (added, removed []uint, err error)
}

// FavouriteRepository defines the interface for favourite operations. The
// kind selects the relation table.
type FavouriteRepository interface {
	Add(kind models.FavouriteKind, ownerID, targetID uint) (*models.Favourite, error)
	Remove(kind models.FavouriteKind, ownerID, targetID uint) error
	List(kind models.FavouriteKind, ownerID uint) ([]models.Favourite, error)
}

// NotificationRepository defines the interface for account notifications
type NotificationRepository interface {
	Create(accountID uint, notificationType, content string) error
	ListByAccount(accountID uint, limit int) ([]models.AccountNotification, error)
	MarkAsRead(accountID, id uint) error
}

// PlanRepository defines the interface for the subscription plan catalogue
type PlanRepository interface {
	Create(plan *models.SubscriptionPlan) error
	GetByID(id uint) (*models.SubscriptionPlan, error)
	ListActive() ([]models.SubscriptionPlan, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	CompanyUser  CompanyUserRepository
	Favourite    FavouriteRepository
	Notification NotificationRepository
	Plan         PlanRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		CompanyUser:  NewCompanyUserRepository(db),
		Favourite:    NewFavouriteRepository(db),
		Notification: NewNotificationRepository(db),
		Plan:         NewPlanRepository(db),
	}
}
