package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/app/repository"
)

// SeatChecker answers whether a company may take on another active user.
type SeatChecker interface {
	CanAddUser(ctx context.Context, accountID uint) (bool, error)
}

// LimitCheckQueue schedules an asynchronous person limit evaluation.
type LimitCheckQueue interface {
	EnqueuePersonLimitCheck(accountID uint) error
}

// CompanyUserController manages the people of a company account
type CompanyUserController struct {
	users  repository.CompanyUserRepository
	seats  SeatChecker
	checks LimitCheckQueue
}

// NewCompanyUserController creates a company user controller. checks may be
// nil, in which case no limit check is scheduled after membership changes.
func NewCompanyUserController(users repository.CompanyUserRepository, seats SeatChecker, checks LimitCheckQueue) *CompanyUserController {
	return &CompanyUserController{users: users, seats: seats, checks: checks}
}

type createCompanyUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive disabled"`
}

type syncPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids"`
}

// HandleListUsers lists the users of a company
func (uc *CompanyUserController) HandleListUsers(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	users, err := uc.users.ListByAccount(accountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"users": users, "count": len(users)})
}

// HandleCreateUser adds a user when the plan still has a free seat
func (uc *CompanyUserController) HandleCreateUser(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req createCompanyUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	user, err := models.NewCompanyUser(accountID, req.Name, req.Email, req.Role)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	ok, err := uc.seats.CanAddUser(ctx, accountID)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return jsonError(c, fiber.StatusConflict, "person_limit_reached", "The subscription plan has no free seat")
	}

	if err := uc.users.Create(user); err != nil {
		return writeError(c, err)
	}
	uc.scheduleLimitCheck(accountID)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleUpdateUserStatus activates or deactivates a user
func (uc *CompanyUserController) HandleUpdateUserStatus(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, err)
	}

	user, err := uc.users.GetByID(accountID, userID)
	if err != nil {
		return writeError(c, err)
	}

	if req.Status == models.STATUS_ACTIVE && !user.IsActive() {
		ctx, cancel := requestContext(c)
		defer cancel()

		ok, err := uc.seats.CanAddUser(ctx, accountID)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return jsonError(c, fiber.StatusConflict, "person_limit_reached", "The subscription plan has no free seat")
		}
	}

	if err := uc.users.UpdateStatus(accountID, userID, req.Status); err != nil {
		return writeError(c, err)
	}
	user.Status = req.Status
	uc.scheduleLimitCheck(accountID)

	return c.JSON(user)
}

// HandleSyncPermissions replaces the permission set of a user
func (uc *CompanyUserController) HandleSyncPermissions(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	userID, err := parseIDParam(c, "userId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req syncPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if _, err := uc.users.GetByID(accountID, userID); err != nil {
		return writeError(c, err)
	}

	added, removed, err := uc.users.SyncPermissions(userID, req.PermissionIDs)
	if err != nil {
		return writeError(c, err)
	}
	if added == nil {
		added = []uint{}
	}
	if removed == nil {
		removed = []uint{}
	}
	return c.JSON(fiber.Map{"added": added, "removed": removed})
}

func (uc *CompanyUserController) scheduleLimitCheck(accountID uint) {
	if uc.checks == nil {
		return
	}
	if err := uc.checks.EnqueuePersonLimitCheck(accountID); err != nil {
		log.Warnf("[CompanyUsers] Failed to enqueue person limit check for account %d: %v", accountID, err)
	}
}
