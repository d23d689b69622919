package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWebhookEvent(t *testing.T) {
	ev, err := ParseWebhookEvent([]byte(`{"id":" evt_1 ","type":"Subscription.Renewed","data":{"subscription_id":"sub_1","company_account_id":12,"plan_ref":"price_monthly","recurring":true,"expires_at":"2024-02-10T00:00:00Z"}}`))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, EventSubscriptionRenewed, ev.Type)
	assert.Equal(t, uint(12), ev.Data.CompanyAccountID)
	assert.True(t, ev.Data.Recurring)
	require.NotNil(t, ev.Data.ExpiresAt)
	assert.True(t, ev.Data.ExpiresAt.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
}

func TestParseWebhookEventRejects(t *testing.T) {
	tests := map[string]string{
		"not json":            `{`,
		"missing type":        `{"id":"evt_1","data":{}}`,
		"renew without plan":  `{"type":"invoice.paid","data":{"company_account_id":1}}`,
		"expiring no date":    `{"type":"subscription.expiring","data":{"company_account_id":1}}`,
		"no account ref":      `{"type":"invoice.paid","data":{"plan_ref":"price_monthly"}}`,
		"failed without date": `{"type":"invoice.payment_failed","data":{"subscription_id":"sub_1"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseWebhookEvent([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestParseWebhookEventUnknownTypeIsAccepted(t *testing.T) {
	ev, err := ParseWebhookEvent([]byte(`{"id":"evt_9","type":"customer.updated","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, actionIgnore, classifyEvent(ev.Type))
}

func TestClassifyEvent(t *testing.T) {
	assert.Equal(t, actionRenew, classifyEvent(EventSubscriptionRenewed))
	assert.Equal(t, actionRenew, classifyEvent(" INVOICE.PAID "))
	assert.Equal(t, actionPendingExpiry, classifyEvent(EventSubscriptionExpiring))
	assert.Equal(t, actionPendingExpiry, classifyEvent(EventInvoicePaymentFailed))
	assert.Equal(t, actionIgnore, classifyEvent("invoice.created"))
}
