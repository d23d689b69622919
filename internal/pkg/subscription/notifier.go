package subscription

import (
	"context"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// Event describes a lifecycle transition worth telling the company about.
type Event struct {
	Type    string
	Subject string
	Message string
}

// Notifier delivers lifecycle events. Delivery failures are logged by the
// service and never roll back a state change.
type Notifier interface {
	Notify(ctx context.Context, account *models.CompanyAccount, event Event) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, *models.CompanyAccount, Event) error { return nil }
