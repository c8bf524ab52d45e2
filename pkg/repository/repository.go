// Package repository defines the persistence contracts consumed by the
// services. Implementations live in infra/repository; tests use the
// in-memory fakes from internal/fixtures.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/domain/client"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/outbox"
)

// AccountRepository persists accounts.
//
// Soft deletion is explicit at every call site: Get and GetForUpdate exclude
// soft-deleted rows, GetIncludingDeleted does not. There is no implicit
// query scope.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error

	// Get returns a non-deleted account by id, or account.ErrAccountNotFound.
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetIncludingDeleted returns the account even after closure.
	GetIncludingDeleted(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// GetForUpdate is Get plus a row lock held until the surrounding unit
	// of work commits. Every read-check-write sequence on an account must
	// go through it.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// Update applies a typed field update to the account row.
	Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error

	// ListByClient returns the non-deleted accounts owned by a client.
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*account.Account, error)

	// CountActiveByClient reports how many active accounts a client owns.
	CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// ListBlockedToArchive returns blocked, not yet archived accounts whose
	// block window has started at now.
	ListBlockedToArchive(ctx context.Context, now time.Time) ([]*account.Account, error)

	// ListArchivedToUnarchive returns archived accounts whose block window
	// has ended at now.
	ListArchivedToUnarchive(ctx context.Context, now time.Time) ([]*account.Account, error)
}

// TransactionRepository persists the immutable transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, t *account.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error)

	// ListByAccount returns transactions referencing the account as source
	// or destination.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)

	// SetArchivedByAccount flips the archive flag on every transaction
	// referencing the account and reports how many rows changed.
	SetArchivedByAccount(ctx context.Context, accountID uuid.UUID, archived bool, now time.Time) (int64, error)
}

// ClientRepository persists clients.
type ClientRepository interface {
	Create(ctx context.Context, c *client.Client) error
	Get(ctx context.Context, id uuid.UUID) (*client.Client, error)
	GetIncludingDeleted(ctx context.Context, id uuid.UUID) (*client.Client, error)

	// SoftDelete marks the client deleted.
	SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error
}

// OutboxRepository persists domain event records for asynchronous dispatch.
type OutboxRepository interface {
	Append(ctx context.Context, rec *outbox.Record) error

	// FetchPending returns up to limit pending records, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*outbox.Record, error)

	// MarkDispatched finalizes a delivered record.
	MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkFailed records a delivery failure; after outbox.MaxAttempts the
	// record is parked as failed.
	MarkFailed(ctx context.Context, id uuid.UUID, attempt int, lastError string) error
}
