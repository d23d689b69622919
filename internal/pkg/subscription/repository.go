package subscription

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// Repository provides DB operations used by the subscription service.
type Repository interface {
	LoadAccount(id uint) (*models.CompanyAccount, error)
	FindAccountByExternalSubscriptionID(externalID string) (*models.CompanyAccount, error)
	CreateAccount(account *models.CompanyAccount) error
	SaveAccount(account *models.CompanyAccount) error
	SetRestrictedAt(accountID uint, at *time.Time) error
	GetPlan(id uint) (*models.SubscriptionPlan, error)
	GetInitialPlan() (*models.SubscriptionPlan, error)
	CountActiveUsers(accountID uint) (int64, error)
	ListLapsedAccounts(today time.Time, afterID uint, limit int) ([]models.CompanyAccount, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) LoadAccount(id uint) (*models.CompanyAccount, error) {
	var account models.CompanyAccount
	err := r.db.Preload("CurrentPlan").First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) FindAccountByExternalSubscriptionID(externalID string) (*models.CompanyAccount, error) {
	var account models.CompanyAccount
	err := r.db.Preload("CurrentPlan").
		Where("external_subscription_id = ?", externalID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *gormRepository) CreateAccount(account *models.CompanyAccount) error {
	return r.db.Omit("CurrentPlan").Create(account).Error
}

func (r *gormRepository) SaveAccount(account *models.CompanyAccount) error {
	// Save writes nil pointers as NULL, which clears expiry_date and restricted_at.
	return r.db.Omit("CurrentPlan").Save(account).Error
}

// SetRestrictedAt writes only the restriction stamp so it never races the
// lifecycle columns.
func (r *gormRepository) SetRestrictedAt(accountID uint, at *time.Time) error {
	return r.db.Model(&models.CompanyAccount{}).
		Where("id = ?", accountID).
		Update("restricted_at", at).Error
}

func (r *gormRepository) GetPlan(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) GetInitialPlan() (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.Where("is_initial = ? AND is_active = ?", true, true).
		Order("id ASC").
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *gormRepository) CountActiveUsers(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CompanyUser{}).
		Where("company_account_id = ? AND status = ?", accountID, models.STATUS_ACTIVE).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) ListLapsedAccounts(today time.Time, afterID uint, limit int) ([]models.CompanyAccount, error) {
	var accounts []models.CompanyAccount
	err := r.db.Preload("CurrentPlan").
		Where("is_expired = ? AND plan_end_date < ? AND id > ?", false, today, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}
