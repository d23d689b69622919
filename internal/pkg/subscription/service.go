package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/lock"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/metrics"
)

const (
	renewLockPrefix = "subscription:renew:"
	defaultLockTTL  = 30 * time.Second
	sweepBatchSize  = 100
)

// RenewInput is the request to put an account onto a plan for one more period.
type RenewInput struct {
	AccountID              uint
	PlanID                 uint
	Recurring              bool
	ExternalSubscriptionID *string
}

// RegisterCompanyInput carries the data needed to open a company account.
type RegisterCompanyInput struct {
	Name  string `validate:"required,min=2,max=150"`
	Email string `validate:"required,email,max=200"`
}

// StatusView is the read model returned to API clients.
type StatusView struct {
	AccountID            uint       `json:"account_id"`
	State                State      `json:"state"`
	PlanID               uint       `json:"plan_id"`
	PlanName             string     `json:"plan_name"`
	PlanPeriod           int        `json:"plan_period"`
	PlanEndDate          time.Time  `json:"plan_end_date"`
	ExpiryDate           *time.Time `json:"expiry_date,omitempty"`
	DaysRemaining        int        `json:"days_remaining"`
	IsRecurring          bool       `json:"is_recurring"`
	IsFreePlanSubscribed bool       `json:"is_free_plan_subscribed"`
	ActiveUsers          int64      `json:"active_users"`
	MaxPersons           *int       `json:"max_persons,omitempty"`
	RestrictedAt         *time.Time `json:"restricted_at,omitempty"`
}

// Service drives the company subscription lifecycle on top of a repository.
type Service struct {
	repo     Repository
	locker   lock.Locker
	notifier Notifier
	metrics  *metrics.Collector
	now      func() time.Time
	lockTTL  time.Duration

	sweepBatch int
}

// NewService creates a subscription service. locker serialises renewals of
// the same account; notifier may be nil.
func NewService(repo Repository, locker lock.Locker, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		metrics:  metrics.Default(),
		now:      time.Now,
		lockTTL:  defaultLockTTL,

		sweepBatch: sweepBatchSize,
	}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, locker lock.Locker, notifier Notifier) *Service {
	return NewService(NewRepository(db), locker, notifier)
}

// RegisterCompany opens a company account on the initial free plan.
func (s *Service) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (*models.CompanyAccount, error) {
	_ = ctx
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.New().Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	plan, err := s.repo.GetInitialPlan()
	if err != nil {
		return nil, fmt.Errorf("failed to load initial plan: %w", err)
	}

	account := &models.CompanyAccount{
		Name:                 in.Name,
		Email:                in.Email,
		CurrentPlanID:        plan.ID,
		CurrentPlan:          plan,
		PlanEndDate:          NextPeriodEnd(plan, TruncateToDay(s.now())),
		IsFreePlanSubscribed: true,
	}
	if err := s.repo.CreateAccount(account); err != nil {
		return nil, err
	}
	s.metrics.Registrations.Inc()
	log.Infof("[Subscription] Registered company account %d on plan %d until %s", account.ID, plan.ID, account.PlanEndDate.Format(time.DateOnly))
	return account, nil
}

// RenewSubscription renews the account onto the requested plan. Concurrent
// renewals of the same account are serialised through the locker.
func (s *Service) RenewSubscription(ctx context.Context, in RenewInput) (*models.CompanyAccount, error) {
	if in.AccountID == 0 || in.PlanID == 0 {
		return nil, fmt.Errorf("%w: account_id and plan_id are required", ErrInvalidArgument)
	}

	release, err := s.lockAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	defer release()

	plan, err := s.repo.GetPlan(in.PlanID)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.LoadAccount(in.AccountID)
	if err != nil {
		return nil, err
	}

	if _, err := Renew(plan, account, RenewOptions{
		Recurring:              in.Recurring,
		ExternalSubscriptionID: in.ExternalSubscriptionID,
	}, s.now()); err != nil {
		s.metrics.Renewals.WithLabelValues(periodLabel(plan), "rejected").Inc()
		return nil, err
	}
	if err := s.repo.SaveAccount(account); err != nil {
		s.metrics.Renewals.WithLabelValues(periodLabel(plan), "error").Inc()
		return nil, fmt.Errorf("failed to save renewed account %d: %w", account.ID, err)
	}
	s.metrics.Renewals.WithLabelValues(periodLabel(plan), "ok").Inc()

	log.Infof("[Subscription] Renewed account %d on plan %d until %s", account.ID, plan.ID, account.PlanEndDate.Format(time.DateOnly))
	s.notify(ctx, account, Event{
		Type:    models.NOTIFICATION_RENEWED,
		Subject: "Subscription renewed",
		Message: fmt.Sprintf("Your %s subscription now runs until %s.", plan.Name, account.PlanEndDate.Format(time.DateOnly)),
	})
	return account, nil
}

// MarkPendingExpiry records a billing-provider expiry notice, moving the
// account from active to pending expiry.
func (s *Service) MarkPendingExpiry(ctx context.Context, accountID uint, expiry time.Time, externalSubscriptionID *string) (*models.CompanyAccount, error) {
	if accountID == 0 || expiry.IsZero() {
		return nil, fmt.Errorf("%w: account_id and expiry are required", ErrInvalidArgument)
	}

	release, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release()

	account, err := s.repo.LoadAccount(accountID)
	if err != nil {
		return nil, err
	}
	day := TruncateToDay(expiry)
	account.ExpiryDate = &day
	if externalSubscriptionID != nil {
		id := *externalSubscriptionID
		account.ExternalSubscriptionID = &id
	}
	if err := s.repo.SaveAccount(account); err != nil {
		return nil, fmt.Errorf("failed to save pending expiry for account %d: %w", accountID, err)
	}
	s.metrics.PendingExpiry.Inc()

	s.notify(ctx, account, Event{
		Type:    models.NOTIFICATION_EXPIRY_PENDING,
		Subject: "Subscription payment pending",
		Message: fmt.Sprintf("Your subscription expires on %s unless the renewal succeeds.", day.Format(time.DateOnly)),
	})
	return account, nil
}

// ExpireLapsed flags every account whose plan ended before today and
// returns how many accounts changed. Accounts with a renewal in flight are
// skipped and picked up by the next sweep. A failing account does not stop
// the sweep; its error is reported once the listing is exhausted.
func (s *Service) ExpireLapsed(ctx context.Context) (int, error) {
	today := TruncateToDay(s.now())
	expired := 0
	var (
		afterID uint
		errs    []error
	)

	for {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		batch, err := s.repo.ListLapsedAccounts(today, afterID, s.sweepBatch)
		if err != nil {
			return expired, fmt.Errorf("failed to list lapsed accounts: %w", err)
		}

		for i := range batch {
			afterID = batch[i].ID
			ok, err := s.expireOne(ctx, batch[i].ID, today)
			if err != nil {
				log.Errorf("[Subscription] Sweep could not expire account %d: %v", batch[i].ID, err)
				errs = append(errs, err)
				continue
			}
			if ok {
				expired++
			}
		}

		if len(batch) < s.sweepBatch {
			break
		}
	}

	if expired > 0 {
		log.Infof("[Subscription] Sweep expired %d account(s)", expired)
	}
	if len(errs) > 0 {
		return expired, fmt.Errorf("sweep failed for %d account(s): %w", len(errs), errors.Join(errs...))
	}
	return expired, nil
}

func (s *Service) expireOne(ctx context.Context, accountID uint, today time.Time) (bool, error) {
	release, ok, err := s.locker.TryAcquire(ctx, renewLockPrefix+fmt.Sprint(accountID), s.lockTTL)
	if err != nil {
		return false, err
	}
	if !ok {
		log.Debugf("[Subscription] Skipping account %d, renewal in progress", accountID)
		return false, nil
	}
	defer release()

	// re-read under the lock, a renewal may have landed since the listing
	account, err := s.repo.LoadAccount(accountID)
	if err != nil {
		return false, err
	}
	if account.IsExpired || !account.PlanEndDate.Before(today) {
		return false, nil
	}

	account.IsExpired = true
	if err := s.repo.SaveAccount(account); err != nil {
		return false, fmt.Errorf("failed to expire account %d: %w", accountID, err)
	}
	s.metrics.Expirations.Inc()

	s.notify(ctx, account, Event{
		Type:    models.NOTIFICATION_EXPIRED,
		Subject: "Subscription expired",
		Message: fmt.Sprintf("Your subscription ended on %s. Renew to restore full access.", account.PlanEndDate.Format(time.DateOnly)),
	})
	return true, nil
}

// CheckPersonLimit evaluates the seat limit and persists the restriction
// stamp: set when over the limit, cleared otherwise. It holds the account
// lock so the evaluation sees the plan a concurrent renewal settles on.
func (s *Service) CheckPersonLimit(ctx context.Context, accountID uint) (bool, error) {
	release, err := s.lockAccount(ctx, accountID)
	if err != nil {
		return false, err
	}
	defer release()

	account, err := s.repo.LoadAccount(accountID)
	if err != nil {
		return false, err
	}
	activeUsers, err := s.repo.CountActiveUsers(accountID)
	if err != nil {
		return false, fmt.Errorf("failed to count active users of account %d: %w", accountID, err)
	}

	over := IsOverPersonLimit(account, activeUsers)
	switch {
	case over && account.RestrictedAt == nil:
		now := s.now()
		if err := s.repo.SetRestrictedAt(accountID, &now); err != nil {
			return over, err
		}
		account.RestrictedAt = &now
		s.metrics.Restrictions.WithLabelValues("restricted").Inc()
		s.notify(ctx, account, Event{
			Type:    models.NOTIFICATION_RESTRICTED,
			Subject: "Seat limit reached",
			Message: fmt.Sprintf("Your company has %d active users, the current plan allows %d.", activeUsers, *account.CurrentPlan.MaxPersons),
		})
	case !over && account.RestrictedAt != nil:
		if err := s.repo.SetRestrictedAt(accountID, nil); err != nil {
			return over, err
		}
		account.RestrictedAt = nil
		s.metrics.Restrictions.WithLabelValues("unrestricted").Inc()
		s.notify(ctx, account, Event{
			Type:    models.NOTIFICATION_UNRESTRICTED,
			Subject: "Seat limit restriction lifted",
			Message: "Your company is within its seat allowance again.",
		})
	}
	return over, nil
}

// CanAddUser reports whether the account has a free seat.
func (s *Service) CanAddUser(ctx context.Context, accountID uint) (bool, error) {
	_ = ctx
	account, err := s.repo.LoadAccount(accountID)
	if err != nil {
		return false, err
	}
	activeUsers, err := s.repo.CountActiveUsers(accountID)
	if err != nil {
		return false, err
	}
	return CanAddUser(account, activeUsers), nil
}

// Status builds the read model for an account.
func (s *Service) Status(ctx context.Context, accountID uint) (*StatusView, error) {
	_ = ctx
	account, err := s.repo.LoadAccount(accountID)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.repo.CountActiveUsers(accountID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		AccountID:            account.ID,
		State:                StateOf(account),
		PlanID:               account.CurrentPlanID,
		PlanEndDate:          account.PlanEndDate,
		ExpiryDate:           account.ExpiryDate,
		DaysRemaining:        DaysBetween(s.now(), account.PlanEndDate),
		IsRecurring:          account.IsRecurring,
		IsFreePlanSubscribed: account.IsFreePlanSubscribed,
		ActiveUsers:          activeUsers,
		RestrictedAt:         account.RestrictedAt,
	}
	if account.CurrentPlan != nil {
		view.PlanName = account.CurrentPlan.Name
		view.PlanPeriod = account.CurrentPlan.Period
		view.MaxPersons = account.CurrentPlan.MaxPersons
	}
	return view, nil
}

func (s *Service) lockAccount(ctx context.Context, accountID uint) (func(), error) {
	release, err := s.locker.Acquire(ctx, renewLockPrefix+fmt.Sprint(accountID), s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, fmt.Errorf("%w: %d", ErrRenewalInProgress, accountID)
		}
		return nil, err
	}
	return release, nil
}

func (s *Service) notify(ctx context.Context, account *models.CompanyAccount, event Event) {
	if err := s.notifier.Notify(ctx, account, event); err != nil {
		log.Errorf("[Subscription] Failed to notify account %d about %s: %v", account.ID, event.Type, err)
	}
}

func periodLabel(plan *models.SubscriptionPlan) string {
	if plan.IsMonthly() {
		return "monthly"
	}
	return "yearly"
}
