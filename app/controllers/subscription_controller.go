package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

// SubscriptionService is the lifecycle surface the API calls into.
type SubscriptionService interface {
	RegisterCompany(ctx context.Context, in subscription.RegisterCompanyInput) (*models.CompanyAccount, error)
	RenewSubscription(ctx context.Context, in subscription.RenewInput) (*models.CompanyAccount, error)
	CheckPersonLimit(ctx context.Context, accountID uint) (bool, error)
	CanAddUser(ctx context.Context, accountID uint) (bool, error)
	Status(ctx context.Context, accountID uint) (*subscription.StatusView, error)
}

// SubscriptionController serves company registration and subscription routes
type SubscriptionController struct {
	svc SubscriptionService
}

// NewSubscriptionController creates a subscription controller
func NewSubscriptionController(svc SubscriptionService) *SubscriptionController {
	return &SubscriptionController{svc: svc}
}

type registerCompanyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type renewRequest struct {
	PlanID                 uint    `json:"plan_id" validate:"required"`
	Recurring              bool    `json:"recurring"`
	ExternalSubscriptionID *string `json:"external_subscription_id" validate:"omitempty,max=191"`
}

// HandleRegisterCompany opens a company account on the initial plan
func (sc *SubscriptionController) HandleRegisterCompany(c *fiber.Ctx) error {
	var req registerCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := sc.svc.RegisterCompany(ctx, subscription.RegisterCompanyInput{Name: req.Name, Email: req.Email})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// HandleGetSubscription returns the subscription read model of a company
func (sc *SubscriptionController) HandleGetSubscription(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	view, err := sc.svc.Status(ctx, accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// HandleRenewSubscription renews the company onto the requested plan
func (sc *SubscriptionController) HandleRenewSubscription(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req renewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := sc.svc.RenewSubscription(ctx, subscription.RenewInput{
		AccountID:              accountID,
		PlanID:                 req.PlanID,
		Recurring:              req.Recurring,
		ExternalSubscriptionID: req.ExternalSubscriptionID,
	}); err != nil {
		return writeError(c, err)
	}

	view, err := sc.svc.Status(ctx, accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(view)
}

// HandleCheckPersonLimit re-evaluates the seat limit of a company
func (sc *SubscriptionController) HandleCheckPersonLimit(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	over, err := sc.svc.CheckPersonLimit(ctx, accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"account_id": accountID, "over_person_limit": over})
}

// HandleCanAddUser reports whether the company has a free seat
func (sc *SubscriptionController) HandleCanAddUser(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ok, err := sc.svc.CanAddUser(ctx, accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"account_id": accountID, "can_add_user": ok})
}
