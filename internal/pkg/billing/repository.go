package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	FindActivePlanMapping(provider, providerPlanRef string) (*models.BillingPlanMapping, error)
	UpsertPlanMapping(m *models.BillingPlanMapping) error
	FindAccountIDByExternalSubscriptionID(externalID string) (uint, error)
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
	MarkWebhookFailed(id uint, processingError string) error
	ReclaimWebhookEvent(id uint) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindActivePlanMapping(provider, providerPlanRef string) (*models.BillingPlanMapping, error) {
	var m models.BillingPlanMapping
	err := r.db.
		Where("provider = ? AND provider_plan_ref = ? AND is_active = ?", provider, providerPlanRef, true).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotMapped
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) UpsertPlanMapping(m *models.BillingPlanMapping) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_plan_ref"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_plan_id",
			"is_active",
			"updated_at",
		}),
	}).Create(m).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("provider = ? AND provider_plan_ref = ?", m.Provider, m.ProviderPlanRef).
		First(m).Error
}

func (r *gormRepository) FindAccountIDByExternalSubscriptionID(externalID string) (uint, error) {
	var account models.CompanyAccount
	err := r.db.Select("id").Where("external_subscription_id = ?", externalID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrAccountNotLinked
		}
		return 0, err
	}
	return account.ID, nil
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
		"retryable":        false,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) MarkWebhookFailed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
		"retryable":        true,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

// ReclaimWebhookEvent hands a failed event to a redelivery. Only one caller
// wins the conditional update, concurrent redeliveries see false.
func (r *gormRepository) ReclaimWebhookEvent(id uint) (bool, error) {
	tx := r.db.Model(&models.BillingWebhookEvent{}).
		Where("id = ? AND retryable = ?", id, true).
		Updates(map[string]interface{}{
			"retryable":        false,
			"processed_at":     nil,
			"processing_error": "",
			"attempts":         gorm.Expr("attempts + ?", 1),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
