package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

// Store persists in-app notifications.
type Store interface {
	Create(accountID uint, notificationType, content string) error
}

// MailQueue hands mails to background delivery.
type MailQueue interface {
	EnqueueMail(to, subject, body string) error
}

// Notifier records lifecycle events for the company and queues a mail to
// the account address. Either sink may be nil.
type Notifier struct {
	store Store
	mail  MailQueue
}

var _ subscription.Notifier = (*Notifier)(nil)

// New creates a notifier.
func New(store Store, mail MailQueue) *Notifier {
	return &Notifier{store: store, mail: mail}
}

// Notify implements subscription.Notifier.
func (n *Notifier) Notify(ctx context.Context, account *models.CompanyAccount, event subscription.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if account == nil {
		return errors.New("notify: account is required")
	}

	var errs []error
	if n.store != nil {
		if err := n.store.Create(account.ID, event.Type, event.Message); err != nil {
			errs = append(errs, fmt.Errorf("store notification: %w", err))
		}
	}
	if n.mail != nil && strings.TrimSpace(account.Email) != "" {
		if err := n.mail.EnqueueMail(account.Email, event.Subject, mailBody(account, event)); err != nil {
			errs = append(errs, fmt.Errorf("enqueue mail: %w", err))
		}
	}
	if len(errs) == 0 {
		log.Debugf("[Notify] %s sent for account %d", event.Type, account.ID)
	}
	return errors.Join(errs...)
}

func mailBody(account *models.CompanyAccount, event subscription.Event) string {
	name := strings.TrimSpace(account.Name)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hello %s,\n\n%s\n\nBalu Property", name, event.Message)
}
