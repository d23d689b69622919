package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type eventAction int

const (
	actionIgnore eventAction = iota
	actionRenew
	actionPendingExpiry
)

var errMissingSubscriptionRef = errors.New("event carries neither company_account_id nor subscription_id")

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func classifyEvent(eventType string) eventAction {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case EventSubscriptionRenewed, EventInvoicePaid:
		return actionRenew
	case EventSubscriptionExpiring, EventInvoicePaymentFailed:
		return actionPendingExpiry
	default:
		return actionIgnore
	}
}

// ParseWebhookEvent decodes a webhook body and checks the fields every
// actionable event needs.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	ev.ID = strings.TrimSpace(ev.ID)
	ev.Type = strings.ToLower(strings.TrimSpace(ev.Type))
	ev.Data.SubscriptionID = strings.TrimSpace(ev.Data.SubscriptionID)
	ev.Data.PlanRef = strings.TrimSpace(ev.Data.PlanRef)
	if ev.Type == "" {
		return nil, errors.New("webhook payload has no type")
	}

	switch classifyEvent(ev.Type) {
	case actionRenew:
		if ev.Data.PlanRef == "" {
			return nil, fmt.Errorf("%s event without plan_ref", ev.Type)
		}
	case actionPendingExpiry:
		if ev.Data.ExpiresAt == nil || ev.Data.ExpiresAt.IsZero() {
			return nil, fmt.Errorf("%s event without expires_at", ev.Type)
		}
	default:
		return &ev, nil
	}
	if ev.Data.CompanyAccountID == 0 && ev.Data.SubscriptionID == "" {
		return nil, errMissingSubscriptionRef
	}
	return &ev, nil
}
