package subscription

import "github.com/rl-Rahul/balu-property-sub003/app/models"

// State is the derived lifecycle state of a company account.
type State string

const (
	StateActive        State = "active"
	StatePendingExpiry State = "pending_expiry"
	StateExpired       State = "expired"
	StateRestricted    State = "restricted"
)

// StateOf derives the account state. A restriction masks every other
// state until the seat count drops again.
func StateOf(account *models.CompanyAccount) State {
	switch {
	case account.IsRestricted():
		return StateRestricted
	case account.IsExpired:
		return StateExpired
	case account.HasPendingExpiry():
		return StatePendingExpiry
	default:
		return StateActive
	}
}
