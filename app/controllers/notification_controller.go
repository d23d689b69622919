package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/repository"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// NotificationController lists and acknowledges account notifications
type NotificationController struct {
	notifications repository.NotificationRepository
}

// NewNotificationController creates a notification controller
func NewNotificationController(notifications repository.NotificationRepository) *NotificationController {
	return &NotificationController{notifications: notifications}
}

// HandleListNotifications returns the newest notifications of a company
func (nc *NotificationController) HandleListNotifications(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	limit := c.QueryInt("limit", defaultNotificationLimit)
	if limit <= 0 || limit > maxNotificationLimit {
		limit = defaultNotificationLimit
	}

	items, err := nc.notifications.ListByAccount(accountID, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": items})
}

// HandleMarkNotificationRead acknowledges a single notification
func (nc *NotificationController) HandleMarkNotificationRead(c *fiber.Ctx) error {
	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	notificationID, err := parseIDParam(c, "notificationId")
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := nc.notifications.MarkAsRead(accountID, notificationID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
