// Package lifecycle implements the account lifecycle manager: the
// block/unblock/close state machine and the archive/unarchive sweeps driven
// by blocking date windows.
package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/repository"
)

// Service drives account status transitions. Every transition runs as one
// unit of work holding a row lock on the account.
type Service struct {
	uow        repository.UnitOfWork
	logger     *slog.Logger
	maxRetries int
	now        func() time.Time
}

// New creates the lifecycle manager.
func New(uow repository.UnitOfWork, logger *slog.Logger, maxRetries int) *Service {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Service{
		uow:        uow,
		logger:     logger.With("service", "lifecycle"),
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Block transitions an active savings account to blocked with the given
// window. Preconditions are checked by the entity against the current time.
func (s *Service) Block(ctx context.Context, accountID uuid.UUID, cmd dto.BlockAccount) (a *account.Account, err error) {
	err = s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if err = a.ApplyBlock(cmd.Reason, cmd.StartDate, cmd.EndDate, s.now()); err != nil {
			return err
		}
		return accounts.Update(ctx, accountID, dto.BlockUpdate(cmd.Reason, cmd.StartDate, cmd.EndDate))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account blocked", "account", a.Number, "reason", cmd.Reason,
		"start", cmd.StartDate, "end", cmd.EndDate)
	return a, nil
}

// Unblock transitions a blocked account back to active and clears the
// blocking window.
func (s *Service) Unblock(ctx context.Context, accountID uuid.UUID, cmd dto.UnblockAccount) (a *account.Account, err error) {
	err = s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if err = a.Unblock(); err != nil {
			return err
		}
		return accounts.Update(ctx, accountID, dto.UnblockUpdate())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account unblocked", "account", a.Number, "reason", cmd.Reason)
	return a, nil
}

// Close soft-deletes an account holding no funds. Closed accounts disappear
// from default reads but are never hard-deleted.
func (s *Service) Close(ctx context.Context, accountID uuid.UUID) (a *account.Account, err error) {
	err = s.withRetry(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		now := s.now()
		if err = a.Close(now); err != nil {
			return err
		}
		return accounts.Update(ctx, accountID, dto.CloseUpdate(now))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account closed", "account", a.Number)
	return a, nil
}

// GetAccount returns a non-deleted account by id.
func (s *Service) GetAccount(ctx context.Context, accountID uuid.UUID) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.Get(ctx, accountID)
		return err
	})
	return
}

// GetAccountIncludingDeleted returns the account even after closure; the
// call site makes the wider visibility explicit.
func (s *Service) GetAccountIncludingDeleted(ctx context.Context, accountID uuid.UUID) (a *account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = accounts.GetIncludingDeleted(ctx, accountID)
		return err
	})
	return
}

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
