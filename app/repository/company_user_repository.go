package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/access"
)

// companyUserRepository implements the CompanyUserRepository interface
type companyUserRepository struct {
	db *gorm.DB
}

// NewCompanyUserRepository creates a new company user repository instance
func NewCompanyUserRepository(db *gorm.DB) CompanyUserRepository {
	return &companyUserRepository{db: db}
}

// Create creates a new company user in the database
func (r *companyUserRepository) Create(user *models.CompanyUser) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user of the given account
func (r *companyUserRepository) GetByID(accountID, id uint) (*models.CompanyUser, error) {
	var user models.CompanyUser
	err := r.db.Where("company_account_id = ?", accountID).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByAccount returns all users of an account, oldest first
func (r *companyUserRepository) ListByAccount(accountID uint) ([]models.CompanyUser, error) {
	var users []models.CompanyUser
	err := r.db.Where("company_account_id = ?", accountID).Order("id ASC").Find(&users).Error
	return users, err
}

// CountActive counts the users occupying a seat
func (r *companyUserRepository) CountActive(accountID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CompanyUser{}).
		Where("company_account_id = ? AND status = ?", accountID, models.STATUS_ACTIVE).
		Count(&count).Error
	return count, err
}

// UpdateStatus changes the status of a user of the given account
func (r *companyUserRepository) UpdateStatus(accountID, id uint, status string) error {
	res := r.db.Model(&models.CompanyUser{}).
		Where("id = ? AND company_account_id = ?", id, accountID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PermissionIDs returns the permission ids granted to a user
func (r *companyUserRepository) PermissionIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.CompanyUserPermission{}).
		Where("company_user_id = ?", userID).
		Order("permission_id ASC").
		Pluck("permission_id", &ids).Error
	return ids, err
}

// SyncPermissions makes the granted set equal desired, touching only the
// rows that differ.
func (r *companyUserRepository) SyncPermissions(userID uint, desired []uint) (added, removed []uint, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var current []uint
		if err := tx.Model(&models.CompanyUserPermission{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("company_user_id = ?", userID).
			Pluck("permission_id", &current).Error; err != nil {
			return err
		}

		added, removed = access.DiffIDs(current, desired)
		if len(removed) > 0 {
			if err := tx.Where("company_user_id = ? AND permission_id IN ?", userID, removed).
				Delete(&models.CompanyUserPermission{}).Error; err != nil {
				return err
			}
		}
		if len(added) > 0 {
			rows := make([]models.CompanyUserPermission, 0, len(added))
			for _, id := range added {
				rows = append(rows, models.CompanyUserPermission{CompanyUserID: userID, PermissionID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return added, removed, nil
}
