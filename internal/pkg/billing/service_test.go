package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

const testSecret = "whsec_test"

type fakeRepo struct {
	mappings  map[string]uint
	external  map[string]uint
	events    []*models.BillingWebhookEvent
	processed map[uint]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		mappings:  map[string]uint{"generic/price_monthly": 2},
		external:  map[string]uint{"sub_1": 12},
		processed: map[uint]string{},
	}
}

func (r *fakeRepo) FindActivePlanMapping(provider, ref string) (*models.BillingPlanMapping, error) {
	id, ok := r.mappings[provider+"/"+ref]
	if !ok {
		return nil, ErrPlanNotMapped
	}
	return &models.BillingPlanMapping{Provider: provider, ProviderPlanRef: ref, SubscriptionPlanID: id, IsActive: true}, nil
}

func (r *fakeRepo) UpsertPlanMapping(m *models.BillingPlanMapping) error {
	r.mappings[m.Provider+"/"+m.ProviderPlanRef] = m.SubscriptionPlanID
	m.ID = uint(len(r.mappings))
	return nil
}

func (r *fakeRepo) FindAccountIDByExternalSubscriptionID(externalID string) (uint, error) {
	id, ok := r.external[externalID]
	if !ok {
		return 0, ErrAccountNotLinked
	}
	return id, nil
}

func (r *fakeRepo) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	for _, e := range r.events {
		if e.Provider == event.Provider && e.ProviderEventID == event.ProviderEventID {
			return false, e, nil
		}
	}
	event.ID = uint(len(r.events) + 1)
	r.events = append(r.events, event)
	return true, event, nil
}

func (r *fakeRepo) MarkWebhookProcessed(id uint, processingError string) error {
	r.processed[id] = processingError
	r.events[id-1].Retryable = false
	return nil
}

func (r *fakeRepo) MarkWebhookFailed(id uint, processingError string) error {
	r.processed[id] = processingError
	r.events[id-1].Retryable = true
	return nil
}

func (r *fakeRepo) ReclaimWebhookEvent(id uint) (bool, error) {
	e := r.events[id-1]
	if !e.Retryable {
		return false, nil
	}
	e.Retryable = false
	e.Attempts++
	delete(r.processed, id)
	return true, nil
}

type fakeLifecycle struct {
	calls    []string
	renewErr error
}

func (l *fakeLifecycle) RenewSubscription(_ context.Context, in subscription.RenewInput) (*models.CompanyAccount, error) {
	l.calls = append(l.calls, fmt.Sprintf("renew:%d:%d:%t", in.AccountID, in.PlanID, in.Recurring))
	if l.renewErr != nil {
		return nil, l.renewErr
	}
	return &models.CompanyAccount{ID: in.AccountID}, nil
}

func (l *fakeLifecycle) MarkPendingExpiry(_ context.Context, accountID uint, expiry time.Time, _ *string) (*models.CompanyAccount, error) {
	l.calls = append(l.calls, fmt.Sprintf("pending:%d:%s", accountID, expiry.Format(time.DateOnly)))
	return &models.CompanyAccount{ID: accountID}, nil
}

func signedRequest(eventID, body string) WebhookRequest {
	return WebhookRequest{
		Provider:  "Generic",
		EventID:   eventID,
		Signature: SignWebhookPayload([]byte(body), testSecret),
		Body:      []byte(body),
	}
}

func TestHandleWebhookRenewal(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{}
	svc := NewService(repo, lc, testSecret)

	body := `{"id":"evt_1","type":"subscription.renewed","data":{"subscription_id":"sub_1","plan_ref":"price_monthly","recurring":true,"expires_at":"2024-02-10T00:00:00Z"}}`
	res, err := svc.HandleWebhook(context.Background(), signedRequest("", body))
	require.NoError(t, err)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, uint(12), res.AccountID)
	assert.Equal(t, []string{"pending:12:2024-02-10", "renew:12:2:true"}, lc.calls)
	require.Len(t, repo.events, 1)
	assert.Equal(t, "evt_1", repo.events[0].ProviderEventID)
	assert.Equal(t, models.BillingProviderGeneric, repo.events[0].Provider)
	assert.True(t, repo.events[0].SignatureValid)
	assert.Equal(t, "", repo.processed[res.WebhookEventID])
}

func TestHandleWebhookDuplicateDelivery(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{}
	svc := NewService(repo, lc, testSecret)

	body := `{"id":"evt_2","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_monthly"}}`
	_, err := svc.HandleWebhook(context.Background(), signedRequest("delivery-1", body))
	require.NoError(t, err)
	res, err := svc.HandleWebhook(context.Background(), signedRequest("delivery-1", body))
	require.NoError(t, err)

	assert.Equal(t, OutcomeDuplicate, res.Outcome)
	assert.Equal(t, []string{"renew:5:2:false"}, lc.calls)
}

func TestHandleWebhookPendingExpiry(t *testing.T) {
	lc := &fakeLifecycle{}
	svc := NewService(newFakeRepo(), lc, testSecret)

	body := `{"id":"evt_3","type":"invoice.payment_failed","data":{"company_account_id":7,"expires_at":"2024-03-01T12:00:00Z"}}`
	res, err := svc.HandleWebhook(context.Background(), signedRequest("", body))
	require.NoError(t, err)

	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, []string{"pending:7:2024-03-01"}, lc.calls)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{}
	svc := NewService(repo, lc, testSecret)

	req := signedRequest("", `{"id":"evt_4","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_monthly"}}`)
	req.Signature = "deadbeef"
	res, err := svc.HandleWebhook(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, OutcomeInvalidSignature, res.Outcome)
	assert.Empty(t, lc.calls)
	assert.Equal(t, "invalid webhook signature", repo.processed[res.WebhookEventID])
	assert.False(t, repo.events[0].SignatureValid)
}

func TestHandleWebhookInvalidPayload(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeLifecycle{}, testSecret)

	res, err := svc.HandleWebhook(context.Background(), signedRequest("", `{"type":"invoice.paid"`))
	require.NoError(t, err)

	assert.Equal(t, OutcomeInvalidPayload, res.Outcome)
	require.Len(t, repo.events, 1)
	assert.Contains(t, repo.events[0].ProviderEventID, "hash:")
	assert.NotEmpty(t, repo.processed[res.WebhookEventID])
}

func TestHandleWebhookIgnoredEvents(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{}
	svc := NewService(repo, lc, testSecret)

	res, err := svc.HandleWebhook(context.Background(), signedRequest("", `{"id":"evt_5","type":"customer.updated","data":{}}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)

	res, err = svc.HandleWebhook(context.Background(), signedRequest("", `{"id":"evt_6","type":"invoice.paid","data":{"subscription_id":"sub_unknown","plan_ref":"price_monthly"}}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Equal(t, ErrAccountNotLinked.Error(), repo.processed[res.WebhookEventID])

	res, err = svc.HandleWebhook(context.Background(), signedRequest("", `{"id":"evt_7","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_unknown"}}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Empty(t, lc.calls)
}

func TestHandleWebhookRetryableFailure(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{renewErr: fmt.Errorf("%w: 5", subscription.ErrRenewalInProgress)}
	svc := NewService(repo, lc, testSecret)

	res, err := svc.HandleWebhook(context.Background(), signedRequest("", `{"id":"evt_8","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_monthly"}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, subscription.ErrRenewalInProgress))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	require.Len(t, repo.events, 1)
	assert.True(t, repo.events[0].Retryable)
}

func TestHandleWebhookRedeliveryAfterFailure(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{renewErr: errors.New("db timeout")}
	svc := NewService(repo, lc, testSecret)
	body := `{"id":"evt_9","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_monthly"}}`

	res, err := svc.HandleWebhook(context.Background(), signedRequest("", body))
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, res.Outcome)

	// the provider retries once the transient error is gone
	lc.renewErr = nil
	res, err = svc.HandleWebhook(context.Background(), signedRequest("", body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, []string{"renew:5:2:false", "renew:5:2:false"}, lc.calls)
	require.Len(t, repo.events, 1)
	assert.Equal(t, 2, repo.events[0].Attempts)
	assert.False(t, repo.events[0].Retryable)
	assert.Equal(t, "", repo.processed[res.WebhookEventID])

	// once applied, further redeliveries are duplicates
	res, err = svc.HandleWebhook(context.Background(), signedRequest("", body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, res.Outcome)
	assert.Len(t, lc.calls, 2)
}

func TestHandleWebhookUnsignedDeliveryDoesNotClaimEventID(t *testing.T) {
	repo := newFakeRepo()
	lc := &fakeLifecycle{}
	svc := NewService(repo, lc, testSecret)
	body := `{"id":"evt_10","type":"invoice.paid","data":{"company_account_id":5,"plan_ref":"price_monthly"}}`

	forged := WebhookRequest{Provider: "generic", EventID: "evt_10", Signature: "00ff", Body: []byte(`{"id":"evt_10","type":"customer.updated"}`)}
	res, err := svc.HandleWebhook(context.Background(), forged)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalidSignature, res.Outcome)

	res, err = svc.HandleWebhook(context.Background(), forged)
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalidSignature, res.Outcome)

	res, err = svc.HandleWebhook(context.Background(), signedRequest("evt_10", body))
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, res.Outcome)
	assert.Equal(t, []string{"renew:5:2:false"}, lc.calls)
	require.Len(t, repo.events, 2)
	assert.Contains(t, repo.events[0].ProviderEventID, "unsigned:")
	assert.Equal(t, "evt_10", repo.events[1].ProviderEventID)
}

func TestUpsertPlanMappingAndResolve(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeLifecycle{}, testSecret)

	_, err := svc.UpsertPlanMapping(context.Background(), " GENERIC ", "price_yearly", 3, true)
	require.NoError(t, err)

	planID, err := svc.ResolvePlanID(context.Background(), "generic", "price_yearly")
	require.NoError(t, err)
	assert.Equal(t, uint(3), planID)

	_, err = svc.UpsertPlanMapping(context.Background(), "generic", "", 3, true)
	assert.ErrorIs(t, err, subscription.ErrInvalidArgument)

	_, err = svc.ResolvePlanID(context.Background(), "generic", "missing")
	assert.ErrorIs(t, err, ErrPlanNotMapped)
}
