package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

type fakeSubscriptionService struct {
	renewErr   error
	renewCalls []subscription.RenewInput
	registered []subscription.RegisterCompanyInput
	over       bool
	canAdd     bool
	statusErr  error
}

func (f *fakeSubscriptionService) RegisterCompany(ctx context.Context, in subscription.RegisterCompanyInput) (*models.CompanyAccount, error) {
	f.registered = append(f.registered, in)
	return &models.CompanyAccount{ID: 7, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeSubscriptionService) RenewSubscription(ctx context.Context, in subscription.RenewInput) (*models.CompanyAccount, error) {
	f.renewCalls = append(f.renewCalls, in)
	if f.renewErr != nil {
		return nil, f.renewErr
	}
	return &models.CompanyAccount{ID: in.AccountID}, nil
}

func (f *fakeSubscriptionService) CheckPersonLimit(ctx context.Context, accountID uint) (bool, error) {
	return f.over, nil
}

func (f *fakeSubscriptionService) CanAddUser(ctx context.Context, accountID uint) (bool, error) {
	return f.canAdd, nil
}

func (f *fakeSubscriptionService) Status(ctx context.Context, accountID uint) (*subscription.StatusView, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &subscription.StatusView{
		AccountID:   accountID,
		State:       subscription.StateActive,
		PlanID:      2,
		PlanEndDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func newSubscriptionApp(svc SubscriptionService) *fiber.App {
	sc := NewSubscriptionController(svc)
	app := fiber.New()
	app.Post("/companies", sc.HandleRegisterCompany)
	app.Get("/companies/:id/subscription", sc.HandleGetSubscription)
	app.Post("/companies/:id/subscription/renew", sc.HandleRenewSubscription)
	app.Post("/companies/:id/subscription/check", sc.HandleCheckPersonLimit)
	app.Get("/companies/:id/users/can-add", sc.HandleCanAddUser)
	return app
}

func TestSubscriptionController_RegisterCompany(t *testing.T) {
	svc := &fakeSubscriptionService{}
	app := newSubscriptionApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/companies", map[string]any{"name": "Acme", "email": "ops@acme.test"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Acme", body["name"])
	require.Len(t, svc.registered, 1)
	assert.Equal(t, "ops@acme.test", svc.registered[0].Email)
}

func TestSubscriptionController_GetSubscription(t *testing.T) {
	app := newSubscriptionApp(&fakeSubscriptionService{})

	resp, body := doJSON(t, app, http.MethodGet, "/companies/12/subscription", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 12, body["account_id"])
	assert.Equal(t, string(subscription.StateActive), body["state"])

	resp, _ = doJSON(t, app, http.MethodGet, "/companies/abc/subscription", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	missing := newSubscriptionApp(&fakeSubscriptionService{statusErr: subscription.ErrAccountNotFound})
	resp, body = doJSON(t, missing, http.MethodGet, "/companies/12/subscription", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["error"])
}

func TestSubscriptionController_Renew(t *testing.T) {
	svc := &fakeSubscriptionService{}
	app := newSubscriptionApp(svc)

	resp, body := doJSON(t, app, http.MethodPost, "/companies/12/subscription/renew", map[string]any{
		"plan_id":                  2,
		"recurring":                true,
		"external_subscription_id": "sub_1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 12, body["account_id"])
	require.Len(t, svc.renewCalls, 1)
	call := svc.renewCalls[0]
	assert.Equal(t, uint(12), call.AccountID)
	assert.Equal(t, uint(2), call.PlanID)
	assert.True(t, call.Recurring)
	require.NotNil(t, call.ExternalSubscriptionID)
	assert.Equal(t, "sub_1", *call.ExternalSubscriptionID)
}

func TestSubscriptionController_RenewErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   map[string]any
		status int
	}{
		{"missing plan", nil, map[string]any{"recurring": true}, fiber.StatusBadRequest},
		{"not pending", subscription.ErrInvalidArgument, map[string]any{"plan_id": 2}, fiber.StatusBadRequest},
		{"unknown plan", subscription.ErrPlanNotFound, map[string]any{"plan_id": 9}, fiber.StatusNotFound},
		{"in progress", subscription.ErrRenewalInProgress, map[string]any{"plan_id": 2}, fiber.StatusConflict},
		{"timeout", context.DeadlineExceeded, map[string]any{"plan_id": 2}, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newSubscriptionApp(&fakeSubscriptionService{renewErr: tt.err})
			resp, _ := doJSON(t, app, http.MethodPost, "/companies/12/subscription/renew", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSubscriptionController_SeatChecks(t *testing.T) {
	app := newSubscriptionApp(&fakeSubscriptionService{over: true, canAdd: false})

	resp, body := doJSON(t, app, http.MethodPost, "/companies/3/subscription/check", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["over_person_limit"])

	resp, body = doJSON(t, app, http.MethodGet, "/companies/3/users/can-add", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["can_add_user"])
}
