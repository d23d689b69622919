package statistics

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/cache"
)

const (
	CacheKeySnapshot = "statistics:companies"
	CacheExpiration  = 5 * time.Minute
)

// Snapshot summarises the subscription state of all companies.
type Snapshot struct {
	TotalCompanies   int64     `json:"total_companies"`
	ActiveCompanies  int64     `json:"active_companies"`
	PendingExpiry    int64     `json:"pending_expiry"`
	ExpiredCompanies int64     `json:"expired_companies"`
	Restricted       int64     `json:"restricted"`
	RegisteredToday  int64     `json:"registered_today"`
	ActiveUsers      int64     `json:"active_users"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Source computes a fresh snapshot.
type Source interface {
	Collect(ctx context.Context, today time.Time) (*Snapshot, error)
}

// Service serves snapshots from the cache and refreshes them from the source
// once they expire.
type Service struct {
	source Source
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a statistics service
func NewService(source Source) *Service {
	return &Service{source: source, ttl: CacheExpiration, now: time.Now}
}

// NewServiceFromDB creates a statistics service counting with db
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(&gormSource{db: db})
}

// Get returns the cached snapshot, collecting a new one on a miss.
func (s *Service) Get(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := cache.GetJSON(CacheKeySnapshot, &snap)
	if err == nil {
		return &snap, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Warnf("[Statistics] Failed to read cached snapshot: %v", err)
	}

	now := s.now()
	fresh, err := s.source.Collect(ctx, now)
	if err != nil {
		return nil, err
	}
	fresh.GeneratedAt = now
	if err := cache.SetJSON(CacheKeySnapshot, fresh, s.ttl); err != nil {
		log.Warnf("[Statistics] Failed to cache snapshot: %v", err)
	}
	return fresh, nil
}

// Invalidate drops the cached snapshot so the next Get recounts.
func (s *Service) Invalidate() error {
	return cache.Delete(CacheKeySnapshot)
}

type gormSource struct {
	db *gorm.DB
}

func (g *gormSource) Collect(ctx context.Context, today time.Time) (*Snapshot, error) {
	db := g.db.WithContext(ctx)
	accounts := func() *gorm.DB { return db.Model(&models.CompanyAccount{}) }
	dayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	var snap Snapshot
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&snap.TotalCompanies, accounts()},
		{&snap.ActiveCompanies, accounts().Where("is_expired = ? AND expiry_date IS NULL", false)},
		{&snap.PendingExpiry, accounts().Where("is_expired = ? AND expiry_date IS NOT NULL", false)},
		{&snap.ExpiredCompanies, accounts().Where("is_expired = ?", true)},
		{&snap.Restricted, accounts().Where("restricted_at IS NOT NULL")},
		{&snap.RegisteredToday, accounts().Where("created_at >= ?", dayStart)},
		{&snap.ActiveUsers, db.Model(&models.CompanyUser{}).Where("status = ?", models.STATUS_ACTIVE)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &snap, nil
}
