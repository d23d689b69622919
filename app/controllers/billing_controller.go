package controllers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/billing"
)

const (
	headerBillingSignature = "X-Billing-Signature"
	headerBillingEventID   = "X-Billing-Event-ID"
)

// BillingService is what the billing routes need from the billing package.
type BillingService interface {
	HandleWebhook(ctx context.Context, req billing.WebhookRequest) (*billing.WebhookResult, error)
	UpsertPlanMapping(ctx context.Context, provider, providerPlanRef string, planID uint, active bool) (*models.BillingPlanMapping, error)
}

// BillingController receives provider webhooks and manages plan mappings
type BillingController struct {
	svc BillingService
}

// NewBillingController creates a billing controller
func NewBillingController(svc BillingService) *BillingController {
	return &BillingController{svc: svc}
}

type planMappingRequest struct {
	Provider           string `json:"provider" validate:"required,max=20"`
	ProviderPlanRef    string `json:"provider_plan_ref" validate:"required,max=191"`
	SubscriptionPlanID uint   `json:"subscription_plan_id" validate:"required"`
	IsActive           *bool  `json:"is_active"`
}

// HandleBillingWebhook verifies and applies one provider delivery
func (bc *BillingController) HandleBillingWebhook(c *fiber.Ctx) error {
	provider := strings.TrimSpace(c.Params("provider"))
	if provider == "" {
		return badRequest(c, "provider is required")
	}

	rawBody := append([]byte(nil), c.Body()...)
	req := billing.WebhookRequest{
		Provider:  provider,
		EventID:   firstHeaderValue(c, headerBillingEventID, "X-Event-ID"),
		Signature: firstHeaderValue(c, headerBillingSignature, "X-Signature"),
		Body:      rawBody,
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := bc.svc.HandleWebhook(ctx, req)
	if err != nil {
		log.Errorf("[Billing] Webhook from %s failed: %v", provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	}

	switch result.Outcome {
	case billing.OutcomeDuplicate:
		return c.JSON(fiber.Map{"ok": true, "duplicate": true})
	case billing.OutcomeIgnored:
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	case billing.OutcomeInvalidSignature:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	case billing.OutcomeInvalidPayload:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	case billing.OutcomeFailed:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_processing_failed"})
	default:
		return c.JSON(fiber.Map{"ok": true})
	}
}

// HandleUpsertPlanMapping links a provider plan reference to a local plan
func (bc *BillingController) HandleUpsertPlanMapping(c *fiber.Ctx) error {
	var req planMappingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return writeError(c, err)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	mapping, err := bc.svc.UpsertPlanMapping(ctx, req.Provider, req.ProviderPlanRef, req.SubscriptionPlanID, active)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(mapping)
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
