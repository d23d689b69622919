package subscription

import "errors"

var (
	// ErrInvalidArgument is returned for nil inputs or an account without a
	// pending expiry date to renew from.
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAccountNotFound   = errors.New("company account not found")
	ErrPlanNotFound      = errors.New("subscription plan not found")
	ErrRenewalInProgress = errors.New("renewal already in progress for account")
)
