// Package ledger implements the transaction engine: it validates and
// applies a single money-movement request as one atomic unit of work.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/currency"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/repository"
)

// DefaultMaxRetries bounds the unit-of-work retries after a concurrency
// conflict when the service is built without an explicit value.
const DefaultMaxRetries = 3

// Service is the ledger engine. All balance effects and the transaction-log
// write happen in one unit of work; on a concurrency conflict the whole
// operation is retried from scratch a bounded number of times.
type Service struct {
	uow        repository.UnitOfWork
	logger     *slog.Logger
	maxRetries int
}

// New creates the ledger engine.
func New(uow repository.UnitOfWork, logger *slog.Logger, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{
		uow:        uow,
		logger:     logger.With("service", "ledger"),
		maxRetries: maxRetries,
	}
}

// CreateTransaction validates the request against current account state,
// applies the balance mutations and persists the transaction record, all
// atomically. Validation failures surface before any mutation; partial
// application is impossible because every write shares the unit of work.
func (s *Service) CreateTransaction(
	ctx context.Context,
	cmd dto.CreateTransaction,
) (*account.Transaction, error) {
	code, err := currency.Parse(cmd.Currency)
	if err != nil {
		return nil, err
	}

	// Shape checks first: type, amount, required references.
	trx, err := account.NewTransaction(
		account.TransactionType(cmd.Type),
		cmd.Amount,
		code,
		cmd.SourceID,
		cmd.DestinationID,
		cmd.Description,
		cmd.Date,
	)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With("type", trx.Type, "number", trx.Number)
	if err := s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		return s.apply(ctx, uow, trx)
	}); err != nil {
		logger.Warn("transaction rejected", "error", err)
		return nil, err
	}
	logger.Info("transaction created", "amount", trx.Amount, "currency", trx.Currency)
	return trx, nil
}

// apply runs the read-check-write sequence inside the unit of work. Accounts
// are locked in ascending id order so two transfers over the same pair in
// opposite directions cannot deadlock.
func (s *Service) apply(ctx context.Context, uow repository.UnitOfWork, trx *account.Transaction) error {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	transactions, err := uow.TransactionRepository()
	if err != nil {
		return err
	}

	locked := make(map[uuid.UUID]*account.Account, 2)
	for _, id := range lockOrder(trx.SourceID, trx.DestinationID) {
		a, err := accounts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		locked[id] = a
	}

	var src, dst *account.Account
	if trx.SourceID != nil {
		src = locked[*trx.SourceID]
	}
	if trx.DestinationID != nil {
		dst = locked[*trx.DestinationID]
	}

	// All checks precede the first mutation.
	if src != nil {
		if src.Status != account.StatusActive {
			return account.ErrAccountInactive
		}
		if src.Currency != trx.Currency {
			return account.ErrCurrencyMismatch
		}
		if !src.CanDebit(trx.Amount) {
			return account.ErrInsufficientFunds
		}
	}
	if dst != nil {
		if dst.Status != account.StatusActive {
			return account.ErrAccountInactive
		}
		if dst.Currency != trx.Currency {
			return account.ErrCurrencyMismatch
		}
	}

	if src != nil {
		if err := src.Debit(trx.Amount); err != nil {
			return err
		}
		if err := accounts.Update(ctx, src.ID, dto.BalanceUpdate(src.Balance)); err != nil {
			return err
		}
	}
	if dst != nil {
		if err := dst.Credit(trx.Amount); err != nil {
			return err
		}
		if err := accounts.Update(ctx, dst.ID, dto.BalanceUpdate(dst.Balance)); err != nil {
			return err
		}
	}
	return transactions.Create(ctx, trx)
}

// GetTransaction returns a transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (trx *account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		trx, err = repo.Get(ctx, id)
		return err
	})
	return
}

// ListAccountTransactions returns the transactions referencing an account as
// source or destination.
func (s *Service) ListAccountTransactions(ctx context.Context, accountID uuid.UUID) (list []*account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = accounts.Get(ctx, accountID); err != nil {
			return err
		}
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		list, err = repo.ListByAccount(ctx, accountID)
		return err
	})
	return
}

// withRetry reruns the unit of work after concurrency conflicts, re-reading
// all state each attempt. Business-rule violations and not-found errors are
// never retried.
func (s *Service) withRetry(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.uow.Do(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		s.logger.Warn("concurrency conflict, retrying", "attempt", attempt)
	}
	return err
}

// lockOrder returns the distinct account ids sorted ascending by byte value.
func lockOrder(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	if len(out) == 2 {
		if bytes.Compare(out[0][:], out[1][:]) > 0 {
			out[0], out[1] = out[1], out[0]
		}
	}
	return out
}
