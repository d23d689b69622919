package repository

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/cache"
)

const (
	activePlansCacheKey = "plans:active"
	activePlansCacheTTL = 10 * time.Minute
)

// planRepository implements the PlanRepository interface. The active
// catalogue is cached in Redis and dropped on every write.
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create stores a plan and invalidates the cached catalogue
func (r *planRepository) Create(plan *models.SubscriptionPlan) error {
	if err := r.db.Create(plan).Error; err != nil {
		return err
	}
	if err := cache.Delete(activePlansCacheKey); err != nil {
		log.Warnf("[PlanRepository] Failed to invalidate plan cache: %v", err)
	}
	return nil
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(id uint) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActive returns the active plans ordered by price
func (r *planRepository) ListActive() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := cache.GetJSON(activePlansCacheKey, &plans)
	if err == nil {
		return plans, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Warnf("[PlanRepository] Plan cache read failed: %v", err)
	}

	plans = nil
	if err := r.db.Where("is_active = ?", true).Order("price ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	if err := cache.SetJSON(activePlansCacheKey, plans, activePlansCacheTTL); err != nil {
		log.Warnf("[PlanRepository] Failed to cache plans: %v", err)
	}
	return plans, nil
}
