package models

import "time"

const (
	PlanPeriodMonthly = 30
	PlanPeriodYearly  = 365
)

// SubscriptionPlan is a billable tier a company account can be placed on.
// A nil MaxPersons means the plan has no seat limit.
type SubscriptionPlan struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name" validate:"required,min=2,max=100"`
	Period     int       `gorm:"not null;default:30" json:"period" validate:"required,oneof=30 365"`
	IsInitial  bool      `gorm:"default:false;index" json:"is_initial"`
	MaxPersons *int      `gorm:"default:null" json:"max_persons,omitempty" validate:"omitempty,min=1"`
	MinPersons *int      `gorm:"default:null" json:"min_persons,omitempty" validate:"omitempty,min=0"`
	Price      int64     `gorm:"not null;default:0" json:"price" validate:"min=0"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsMonthly reports whether the plan renews by calendar month.
func (p *SubscriptionPlan) IsMonthly() bool {
	return p.Period == PlanPeriodMonthly
}

// HasSeatLimit reports whether the plan caps the number of active users.
func (p *SubscriptionPlan) HasSeatLimit() bool {
	return p.MaxPersons != nil
}
