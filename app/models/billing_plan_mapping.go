package models

import "time"

// BillingPlanMapping maps a provider-specific plan reference (price/product
// id) to a local subscription plan.
type BillingPlanMapping struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Provider           string    `gorm:"type:varchar(20);not null;index:ux_billing_plan_mappings_ref,unique,priority:1" json:"provider"`
	ProviderPlanRef    string    `gorm:"type:varchar(191);not null;index:ux_billing_plan_mappings_ref,unique,priority:2" json:"provider_plan_ref"`
	SubscriptionPlanID uint      `gorm:"not null;index" json:"subscription_plan_id"`
	IsActive           bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
