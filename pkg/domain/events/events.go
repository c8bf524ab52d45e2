// Package events defines the domain events appended to the outbox.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
}

// AccountOpenedType identifies AccountOpened records in the outbox.
const AccountOpenedType = "account.opened"

// AccountOpened is emitted after an account-opening unit of work commits.
// It carries everything the notification collaborator needs, so dispatch
// does not have to re-read the store.
type AccountOpened struct {
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	ClientID      uuid.UUID `json:"client_id"`
	ClientName    string    `json:"client_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	IsNewClient   bool      `json:"is_new_client"`
	// TempPassword is set only when the client was created by this opening;
	// the credentials mail is its single consumer.
	TempPassword     string    `json:"temp_password,omitempty"`
	VerificationCode string    `json:"verification_code,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Type implements Event.
func (AccountOpened) Type() string { return AccountOpenedType }
