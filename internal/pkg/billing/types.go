package billing

import "time"

// Event types accepted on the billing webhook.
const (
	EventSubscriptionRenewed  = "subscription.renewed"
	EventInvoicePaid          = "invoice.paid"
	EventSubscriptionExpiring = "subscription.expiring"
	EventInvoicePaymentFailed = "invoice.payment_failed"
)

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider         string
	ProviderEventID  string
	EventType        string
	CompanyAccountID *uint
	PayloadJSON      string
	SignatureValid   bool
}

// WebhookEvent is the provider payload posted to the billing webhook.
type WebhookEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData carries the subscription details of a webhook event.
type WebhookEventData struct {
	SubscriptionID   string     `json:"subscription_id"`
	CompanyAccountID uint       `json:"company_account_id"`
	PlanRef          string     `json:"plan_ref"`
	Recurring        bool       `json:"recurring"`
	ExpiresAt        *time.Time `json:"expires_at"`
}

// WebhookRequest bundles what the HTTP layer hands over for one delivery.
type WebhookRequest struct {
	Provider  string
	EventID   string
	Signature string
	Body      []byte
}

// Outcome tells the HTTP layer how a delivery ended.
type Outcome string

const (
	OutcomeProcessed        Outcome = "processed"
	OutcomeDuplicate        Outcome = "duplicate"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeInvalidPayload   Outcome = "invalid_payload"
	OutcomeFailed           Outcome = "failed"
)

// WebhookResult is returned by Service.HandleWebhook.
type WebhookResult struct {
	Outcome        Outcome
	WebhookEventID uint
	EventType      string
	AccountID      uint
}
