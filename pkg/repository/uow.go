package repository

import "context"

// UnitOfWork is the transaction boundary for all balance and lifecycle
// mutations. Do runs fn inside a storage transaction; repositories obtained
// from the UnitOfWork passed to fn share that transaction, so every write in
// fn commits or rolls back as one atomic unit.
//
// Row locks taken through AccountRepository.GetForUpdate are held until Do
// returns, which is what makes each read-check-write sequence atomic with
// respect to concurrent units touching the same account.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	ClientRepository() (ClientRepository, error)
	OutboxRepository() (OutboxRepository, error)
}
