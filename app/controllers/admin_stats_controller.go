package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/statistics"
)

// StatisticsProvider returns the cached company statistics.
type StatisticsProvider interface {
	Get(ctx context.Context) (*statistics.Snapshot, error)
	Invalidate() error
}

// AdminStatsController serves platform wide subscription statistics
type AdminStatsController struct {
	stats StatisticsProvider
}

// NewAdminStatsController creates an admin stats controller
func NewAdminStatsController(stats StatisticsProvider) *AdminStatsController {
	return &AdminStatsController{stats: stats}
}

// HandleStats returns the statistics snapshot, ?refresh=true recounts
func (sc *AdminStatsController) HandleStats(c *fiber.Ctx) error {
	if c.QueryBool("refresh") {
		if err := sc.stats.Invalidate(); err != nil {
			return writeError(c, err)
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	snap, err := sc.stats.Get(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(snap)
}
