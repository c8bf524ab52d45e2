// Package notification defines the collaborator contract for welcome and
// verification messages. Actual delivery (email/SMS) lives outside this
// repository; the worker only ever talks to the Notifier interface.
package notification

import (
	"context"
	"log/slog"

	"github.com/sunubank/ledger/pkg/domain/events"
)

// Notifier delivers the messages triggered by an account opening. It must
// not be called inside the opening unit of work; the outbox worker invokes
// it after commit.
type Notifier interface {
	// SendWelcome sends the credentials mail to a newly created client and
	// the verification SMS to the client's phone.
	SendWelcome(ctx context.Context, event events.AccountOpened) error
}

// LogNotifier is the default Notifier: it logs instead of delivering.
// Deployments plug a real collaborator here.
type LogNotifier struct {
	Logger *slog.Logger
}

// SendWelcome implements Notifier.
func (n *LogNotifier) SendWelcome(_ context.Context, event events.AccountOpened) error {
	n.Logger.Info("welcome notification",
		"account", event.AccountNumber,
		"client", event.ClientName,
		"email", event.Email,
		"new_client", event.IsNewClient,
	)
	return nil
}
