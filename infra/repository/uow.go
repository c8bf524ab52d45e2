package repository

import (
	"context"
	"errors"

	"github.com/sunubank/ledger/pkg/repository"
	"gorm.io/gorm"
)

// ErrNoTransaction is returned when a repository accessor is used outside
// Do. Repositories must always share the transaction session.
var ErrNoTransaction = errors.New("repository access outside a unit of work")

// UoW is the gorm-backed unit of work. Do opens a database transaction and
// hands fn a UoW bound to it, so every repository obtained inside fn works
// on the same session and commits or rolls back atomically. Row locks taken
// with GetForUpdate are released when Do returns.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a unit of work factory for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction. Serialization failures raised
// at commit, after fn already returned nil, still surface as concurrency
// conflicts so callers can retry.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
	return translateConflict(err)
}

// AccountRepository returns the account repository bound to the transaction.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	if u.tx == nil {
		return nil, ErrNoTransaction
	}
	return NewAccountRepository(u.tx), nil
}

// TransactionRepository returns the transaction repository bound to the
// transaction.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	if u.tx == nil {
		return nil, ErrNoTransaction
	}
	return NewTransactionRepository(u.tx), nil
}

// ClientRepository returns the client repository bound to the transaction.
func (u *UoW) ClientRepository() (repository.ClientRepository, error) {
	if u.tx == nil {
		return nil, ErrNoTransaction
	}
	return NewClientRepository(u.tx), nil
}

// OutboxRepository returns the outbox repository bound to the transaction.
func (u *UoW) OutboxRepository() (repository.OutboxRepository, error) {
	if u.tx == nil {
		return nil, ErrNoTransaction
	}
	return NewOutboxRepository(u.tx), nil
}
