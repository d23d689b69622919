package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

const requestTimeout = 15 * time.Second

var validate = validator.New()

// requestContext bounds service calls made on behalf of a request.
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// parseIDParam reads a positive numeric route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(v), nil
}

func jsonError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return jsonError(c, fiber.StatusBadRequest, "bad_request", message)
}

// writeError maps service and persistence errors to JSON responses.
func writeError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, subscription.ErrInvalidArgument):
		return badRequest(c, err.Error())
	case errors.Is(err, subscription.ErrAccountNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Company account not found")
	case errors.Is(err, subscription.ErrPlanNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Subscription plan not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return jsonError(c, fiber.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, subscription.ErrRenewalInProgress):
		return jsonError(c, fiber.StatusConflict, "conflict", "A renewal for this account is already in progress")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return jsonError(c, fiber.StatusConflict, "conflict", "Resource already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return jsonError(c, fiber.StatusServiceUnavailable, "timeout", "Request timed out")
	default:
		log.Errorf("[API] %s %s failed: %v", c.Method(), c.Path(), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Internal server error")
	}
}
