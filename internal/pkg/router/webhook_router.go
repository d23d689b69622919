package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/constants"
)

// WebhookRouter serves provider callbacks, authenticated by signature only.
type WebhookRouter struct {
	cfg Config
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post(constants.BillingWebhookRoute, newRateLimiter(h.cfg, "webhook"), h.cfg.Controllers.Billing.HandleBillingWebhook)
}

func NewWebhookRouter(cfg Config) *WebhookRouter {
	return &WebhookRouter{cfg: cfg}
}
