package subscription

import (
	"fmt"
	"time"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// RenewOptions carries the optional renewal inputs.
type RenewOptions struct {
	Recurring              bool
	ExternalSubscriptionID *string
}

// Renew moves account onto plan and extends its paid period by one plan
// increment. Unused time is kept when the pending expiry lies in the
// future, lapsed accounts renew from today. The caller persists the result
// and must serialise renewals of the same account.
func Renew(plan *models.SubscriptionPlan, account *models.CompanyAccount, opts RenewOptions, now time.Time) (*models.CompanyAccount, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: plan is required", ErrInvalidArgument)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account is required", ErrInvalidArgument)
	}
	if account.ExpiryDate == nil {
		return nil, fmt.Errorf("%w: account %d has no expiry date to renew from", ErrInvalidArgument, account.ID)
	}

	today := TruncateToDay(now)
	// the stored expiry is a calendar date; keep its day, not its instant
	ey, em, ed := account.ExpiryDate.Date()
	planEnd := time.Date(ey, em, ed, 0, 0, 0, 0, now.Location())

	base := today
	if DaysBetween(today, planEnd) >= 0 {
		base = planEnd
	}

	account.PlanEndDate = NextPeriodEnd(plan, base)
	account.ExpiryDate = nil
	account.IsExpired = false
	account.CurrentPlan = plan
	account.CurrentPlanID = plan.ID
	account.IsRecurring = opts.Recurring
	if opts.ExternalSubscriptionID != nil {
		id := *opts.ExternalSubscriptionID
		account.ExternalSubscriptionID = &id
	}
	if plan.IsInitial {
		account.IsFreePlanSubscribed = true
	}
	return account, nil
}

// NextPeriodEnd advances from by one calendar month for monthly plans and
// one calendar year otherwise. Month overflow normalises the way AddDate
// does (Jan 31 + 1 month = Mar 2 or 3).
func NextPeriodEnd(plan *models.SubscriptionPlan, from time.Time) time.Time {
	if plan.IsMonthly() {
		return from.AddDate(0, 1, 0)
	}
	return from.AddDate(1, 0, 0)
}

// IsOverPersonLimit reports whether activeUsers exhausts the seat allowance.
// Initial plans and plans without a limit never restrict.
func IsOverPersonLimit(account *models.CompanyAccount, activeUsers int64) bool {
	if account == nil || account.CurrentPlan == nil {
		return false
	}
	plan := account.CurrentPlan
	if plan.IsInitial || plan.MaxPersons == nil {
		return false
	}
	return activeUsers >= int64(*plan.MaxPersons)
}

// CanAddUser reports whether one more active user fits the plan.
func CanAddUser(account *models.CompanyAccount, activeUsers int64) bool {
	if account == nil || account.CurrentPlan == nil || account.CurrentPlan.MaxPersons == nil {
		return true
	}
	return activeUsers+1 <= int64(*account.CurrentPlan.MaxPersons)
}

// TruncateToDay drops the time of day, keeping t's location.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the signed number of calendar days from a to b.
// Dates are compared in UTC so DST shifts cannot skew the count.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
