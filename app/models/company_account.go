package models

import "time"

// CompanyAccount holds the subscription state of a registered company.
// Accounts are never deleted; lapsed accounts are flagged with IsExpired.
type CompanyAccount struct {
	ID                     uint              `gorm:"primaryKey" json:"id"`
	Name                   string            `gorm:"type:varchar(150);not null" json:"name"`
	Email                  string            `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	CurrentPlanID          uint              `gorm:"not null;index" json:"current_plan_id"`
	CurrentPlan            *SubscriptionPlan `gorm:"foreignKey:CurrentPlanID" json:"current_plan,omitempty"`
	PlanEndDate            time.Time         `gorm:"type:date;not null;index" json:"plan_end_date"`
	ExpiryDate             *time.Time        `gorm:"type:date;default:null" json:"expiry_date,omitempty"`
	IsExpired              bool              `gorm:"default:false;index" json:"is_expired"`
	IsRecurring            bool              `gorm:"default:false" json:"is_recurring"`
	ExternalSubscriptionID *string           `gorm:"type:varchar(191);default:null;index" json:"external_subscription_id,omitempty"`
	IsFreePlanSubscribed   bool              `gorm:"default:false" json:"is_free_plan_subscribed"`
	RestrictedAt           *time.Time        `gorm:"type:timestamp;default:null" json:"restricted_at,omitempty"`
	CreatedAt              time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsRestricted reports whether the account is flagged for exceeding its seats.
func (a *CompanyAccount) IsRestricted() bool {
	return a.RestrictedAt != nil
}

// HasPendingExpiry reports whether a billing provider announced an expiry
// that has not been followed by a successful renewal yet.
func (a *CompanyAccount) HasPendingExpiry() bool {
	return a.ExpiryDate != nil
}
