package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	COMPANY_ROLE_OWNER  = "owner"
	COMPANY_ROLE_ADMIN  = "admin"
	COMPANY_ROLE_MEMBER = "member"

	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

// CompanyUser is a person occupying a seat on a company account. Only
// users with STATUS_ACTIVE count towards the plan's seat limit.
type CompanyUser struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CompanyAccountID uint           `gorm:"not null;index;uniqueIndex:ux_company_users_account_email,priority:1" json:"company_account_id"`
	Name             string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email            string         `gorm:"type:varchar(200);uniqueIndex:ux_company_users_account_email,priority:2" json:"email" validate:"required,email,max=200"`
	Role             string         `gorm:"type:varchar(50);default:'member'" json:"role" validate:"oneof=owner admin member"`
	Status           string         `gorm:"type:varchar(50);default:'active';index" json:"status" validate:"oneof=active inactive disabled"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// CompanyUserPermission grants a permission to a company user.
type CompanyUserPermission struct {
	CompanyUserID uint      `gorm:"primaryKey;autoIncrement:false" json:"company_user_id"`
	PermissionID  uint      `gorm:"primaryKey;autoIncrement:false" json:"permission_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *CompanyUser) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// NewCompanyUser builds a validated active member for the given account.
func NewCompanyUser(accountID uint, name, email, role string) (*CompanyUser, error) {
	if role == "" {
		role = COMPANY_ROLE_MEMBER
	}
	u := &CompanyUser{
		CompanyAccountID: accountID,
		Name:             name,
		Email:            email,
		Role:             role,
		Status:           STATUS_ACTIVE,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// IsActive reports whether the user occupies a seat
func (u *CompanyUser) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}
