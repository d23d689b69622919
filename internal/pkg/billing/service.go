package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/metrics"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

var (
	ErrPlanNotMapped    = errors.New("billing plan reference is not mapped")
	ErrAccountNotLinked = errors.New("no company account linked to the billing subscription")
)

// Lifecycle is the part of the subscription service driven by billing events.
type Lifecycle interface {
	RenewSubscription(ctx context.Context, in subscription.RenewInput) (*models.CompanyAccount, error)
	MarkPendingExpiry(ctx context.Context, accountID uint, expiry time.Time, externalSubscriptionID *string) (*models.CompanyAccount, error)
}

// Service turns billing-provider webhooks into subscription lifecycle calls.
type Service struct {
	repo          Repository
	lifecycle     Lifecycle
	webhookSecret string
	metrics       *metrics.Collector
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository, lifecycle Lifecycle, webhookSecret string) *Service {
	return &Service{
		repo:          repo,
		lifecycle:     lifecycle,
		webhookSecret: webhookSecret,
		metrics:       metrics.Default(),
	}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, lifecycle Lifecycle, webhookSecret string) *Service {
	return NewService(NewRepository(db), lifecycle, webhookSecret)
}

// ResolvePlanID maps a provider plan reference to a local subscription plan.
func (s *Service) ResolvePlanID(ctx context.Context, provider, providerPlanRef string) (uint, error) {
	_ = ctx
	p := normalizeProvider(provider)
	ref := strings.TrimSpace(providerPlanRef)
	if p == "" || ref == "" {
		return 0, errors.New("provider and provider plan ref are required")
	}
	m, err := s.repo.FindActivePlanMapping(p, ref)
	if err != nil {
		return 0, err
	}
	return m.SubscriptionPlanID, nil
}

// UpsertPlanMapping links a provider plan reference to a local plan.
func (s *Service) UpsertPlanMapping(ctx context.Context, provider, providerPlanRef string, planID uint, active bool) (*models.BillingPlanMapping, error) {
	_ = ctx
	p := normalizeProvider(provider)
	ref := strings.TrimSpace(providerPlanRef)
	if p == "" || ref == "" || planID == 0 {
		return nil, fmt.Errorf("%w: provider, provider_plan_ref and subscription_plan_id are required", subscription.ErrInvalidArgument)
	}
	m := &models.BillingPlanMapping{
		Provider:           p,
		ProviderPlanRef:    ref,
		SubscriptionPlanID: planID,
		IsActive:           active,
	}
	if err := s.repo.UpsertPlanMapping(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ResolveAccountID finds the company account an event belongs to. An
// explicit account id wins over the external subscription id.
func (s *Service) ResolveAccountID(ctx context.Context, data WebhookEventData) (uint, error) {
	_ = ctx
	if data.CompanyAccountID != 0 {
		return data.CompanyAccountID, nil
	}
	if data.SubscriptionID == "" {
		return 0, errMissingSubscriptionRef
	}
	return s.repo.FindAccountIDByExternalSubscriptionID(data.SubscriptionID)
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.BillingWebhookEvent, error) {
	_ = ctx
	provider := normalizeProvider(in.Provider)
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.BillingWebhookEvent{
		Provider:         provider,
		ProviderEventID:  eventID,
		EventType:        strings.TrimSpace(in.EventType),
		CompanyAccountID: in.CompanyAccountID,
		PayloadJSON:      in.PayloadJSON,
		SignatureValid:   in.SignatureValid,
		Attempts:         1,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// HandleWebhook records one delivery and applies it to the subscription
// lifecycle. The returned error is reserved for failures the provider
// should retry; rejected deliveries are reported through the outcome.
func (s *Service) HandleWebhook(ctx context.Context, req WebhookRequest) (*WebhookResult, error) {
	provider := normalizeProvider(req.Provider)
	signatureValid := VerifyWebhookSignature(req.Body, req.Signature, s.webhookSecret)
	event, parseErr := ParseWebhookEvent(req.Body)

	in := WebhookEventInput{
		Provider:        provider,
		ProviderEventID: strings.TrimSpace(req.EventID),
		EventType:       "unknown",
		PayloadJSON:     string(req.Body),
		SignatureValid:  signatureValid,
	}
	if event != nil {
		if in.ProviderEventID == "" {
			in.ProviderEventID = event.ID
		}
		in.EventType = event.Type
		if event.Data.CompanyAccountID != 0 {
			id := event.Data.CompanyAccountID
			in.CompanyAccountID = &id
		}
	}
	if !signatureValid {
		// unsigned deliveries are logged under their payload hash and never
		// claim the provider event id
		in.ProviderEventID = unsignedEventID(req.Body)
	}

	created, stored, err := s.RecordWebhookEvent(ctx, in)
	if err != nil {
		s.countWebhook(in.EventType, OutcomeFailed)
		return nil, fmt.Errorf("failed to persist webhook event: %w", err)
	}
	result := &WebhookResult{WebhookEventID: stored.ID, EventType: in.EventType}

	if !signatureValid {
		if created {
			s.markProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		}
		result.Outcome = OutcomeInvalidSignature
		return s.finish(result), nil
	}
	if !created {
		if !stored.Retryable {
			result.Outcome = OutcomeDuplicate
			return s.finish(result), nil
		}
		reclaimed, err := s.repo.ReclaimWebhookEvent(stored.ID)
		if err != nil {
			s.countWebhook(in.EventType, OutcomeFailed)
			return nil, fmt.Errorf("failed to reclaim webhook event %d: %w", stored.ID, err)
		}
		if !reclaimed {
			// another redelivery is already processing it
			result.Outcome = OutcomeDuplicate
			return s.finish(result), nil
		}
		log.Infof("[Billing] Retrying %s event %s after a failed attempt", in.EventType, stored.ProviderEventID)
	}

	if parseErr != nil {
		s.markProcessed(ctx, stored.ID, parseErr)
		result.Outcome = OutcomeInvalidPayload
		return s.finish(result), nil
	}

	action := classifyEvent(event.Type)
	if action == actionIgnore {
		s.markProcessed(ctx, stored.ID, nil)
		result.Outcome = OutcomeIgnored
		return s.finish(result), nil
	}

	accountID, err := s.ResolveAccountID(ctx, event.Data)
	if err != nil {
		if errors.Is(err, ErrAccountNotLinked) {
			s.markProcessed(ctx, stored.ID, err)
			result.Outcome = OutcomeIgnored
			return s.finish(result), nil
		}
		s.markFailed(ctx, stored.ID, err)
		result.Outcome = OutcomeFailed
		s.finish(result)
		return result, err
	}
	result.AccountID = accountID

	applyErr := s.apply(ctx, provider, accountID, action, event)
	switch {
	case applyErr == nil:
		s.markProcessed(ctx, stored.ID, nil)
		result.Outcome = OutcomeProcessed
	case errors.Is(applyErr, ErrPlanNotMapped),
		errors.Is(applyErr, subscription.ErrAccountNotFound),
		errors.Is(applyErr, subscription.ErrPlanNotFound),
		errors.Is(applyErr, subscription.ErrInvalidArgument):
		s.markProcessed(ctx, stored.ID, applyErr)
		log.Warnf("[Billing] Ignoring %s event %s for account %d: %v", event.Type, stored.ProviderEventID, accountID, applyErr)
		result.Outcome = OutcomeIgnored
	default:
		s.markFailed(ctx, stored.ID, applyErr)
		result.Outcome = OutcomeFailed
		s.finish(result)
		return result, applyErr
	}
	return s.finish(result), nil
}

func (s *Service) apply(ctx context.Context, provider string, accountID uint, action eventAction, event *WebhookEvent) error {
	var externalID *string
	if event.Data.SubscriptionID != "" {
		id := event.Data.SubscriptionID
		externalID = &id
	}

	switch action {
	case actionPendingExpiry:
		_, err := s.lifecycle.MarkPendingExpiry(ctx, accountID, *event.Data.ExpiresAt, externalID)
		return err
	case actionRenew:
		planID, err := s.ResolvePlanID(ctx, provider, event.Data.PlanRef)
		if err != nil {
			return err
		}
		// a paid invoice may arrive without a prior expiring notice; the
		// period end it reports becomes the renewal base
		if event.Data.ExpiresAt != nil && !event.Data.ExpiresAt.IsZero() {
			if _, err := s.lifecycle.MarkPendingExpiry(ctx, accountID, *event.Data.ExpiresAt, externalID); err != nil {
				return err
			}
		}
		_, err = s.lifecycle.RenewSubscription(ctx, subscription.RenewInput{
			AccountID:              accountID,
			PlanID:                 planID,
			Recurring:              event.Data.Recurring,
			ExternalSubscriptionID: externalID,
		})
		return err
	}
	return nil
}

func (s *Service) markProcessed(ctx context.Context, id uint, processingErr error) {
	if err := s.MarkWebhookProcessed(ctx, id, processingErr); err != nil {
		log.Errorf("[Billing] Failed to mark webhook event %d as processed: %v", id, err)
	}
}

func (s *Service) markFailed(ctx context.Context, id uint, processingErr error) {
	_ = ctx
	if err := s.repo.MarkWebhookFailed(id, processingErr.Error()); err != nil {
		log.Errorf("[Billing] Failed to mark webhook event %d for retry: %v", id, err)
	}
}

func unsignedEventID(body []byte) string {
	sum := sha256.Sum256(body)
	return "unsigned:" + hex.EncodeToString(sum[:])
}

func (s *Service) finish(result *WebhookResult) *WebhookResult {
	s.countWebhook(result.EventType, result.Outcome)
	return result
}

func (s *Service) countWebhook(eventType string, outcome Outcome) {
	label := "other"
	if classifyEvent(eventType) != actionIgnore {
		label = eventType
	}
	s.metrics.WebhookEvents.WithLabelValues(label, string(outcome)).Inc()
}
