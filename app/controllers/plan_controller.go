package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/app/repository"
)

// PlanController exposes the subscription plan catalogue
type PlanController struct {
	plans repository.PlanRepository
}

// NewPlanController creates a plan controller
func NewPlanController(plans repository.PlanRepository) *PlanController {
	return &PlanController{plans: plans}
}

// HandleListPlans returns every active plan
func (pc *PlanController) HandleListPlans(c *fiber.Ctx) error {
	plans, err := pc.plans.ListActive()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"plans": plans})
}

// HandleCreatePlan adds a plan to the catalogue
func (pc *PlanController) HandleCreatePlan(c *fiber.Ctx) error {
	var plan models.SubscriptionPlan
	if err := c.BodyParser(&plan); err != nil {
		return badRequest(c, "invalid request body")
	}
	plan.ID = 0
	plan.IsActive = true
	if err := validate.Struct(plan); err != nil {
		return writeError(c, err)
	}
	if plan.MaxPersons != nil && plan.MinPersons != nil && *plan.MinPersons > *plan.MaxPersons {
		return badRequest(c, "min_persons must not exceed max_persons")
	}

	if err := pc.plans.Create(&plan); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}
