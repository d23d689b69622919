package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/jobqueue"
)

// JobQueue is the admin view onto the background job queue.
type JobQueue interface {
	GetJob(ctx context.Context, jobID string) (*jobqueue.Job, error)
	GetJobStats(ctx context.Context) (map[jobqueue.JobStatus]int64, error)
	GetQueueSize(ctx context.Context) (int64, error)
	GetProcessingSize(ctx context.Context) (int64, error)
	EnqueueExpirySweep() error
}

// AdminJobController handles admin job queue requests
type AdminJobController struct {
	queue JobQueue
}

// NewAdminJobController creates a new admin job controller
func NewAdminJobController(queue JobQueue) *AdminJobController {
	return &AdminJobController{queue: queue}
}

// HandleJobStats returns queue sizes and per status counters
func (ac *AdminJobController) HandleJobStats(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := ac.queue.GetJobStats(ctx)
	if err != nil {
		return writeError(c, err)
	}
	pending, err := ac.queue.GetQueueSize(ctx)
	if err != nil {
		return writeError(c, err)
	}
	processing, err := ac.queue.GetProcessingSize(ctx)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"stats":      stats,
		"queued":     pending,
		"processing": processing,
	})
}

// HandleGetJob returns a single job by id
func (ac *AdminJobController) HandleGetJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return badRequest(c, "job id is required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	job, err := ac.queue.GetJob(ctx, jobID)
	if errors.Is(err, redis.Nil) {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Job not found")
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

// HandleTriggerSweep schedules an expiry sweep outside the regular interval
func (ac *AdminJobController) HandleTriggerSweep(c *fiber.Ctx) error {
	if err := ac.queue.EnqueueExpirySweep(); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"ok": true, "job_type": jobqueue.JobTypeExpirySweep})
}
