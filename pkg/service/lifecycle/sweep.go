package lifecycle

import (
	"context"

	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/repository"
)

// SweepResult reports how many rows a sweep transitioned.
type SweepResult struct {
	Accounts     int
	Transactions int64
}

// ArchiveExpiredBlocks archives every blocked account whose block window has
// started: the account is flagged archived, hard-closed, and all its
// transactions are flagged archived.
//
// Each account transitions in its own unit of work under a row lock with the
// eligibility re-checked, so the sweep is idempotent and safe to run while
// normal traffic is in flight; an interrupted sweep simply resumes on the
// next trigger.
func (s *Service) ArchiveExpiredBlocks(ctx context.Context) (SweepResult, error) {
	now := s.now()
	var result SweepResult

	var eligible []*account.Account
	if err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		eligible, err = accounts.ListBlockedToArchive(ctx, now)
		return err
	}); err != nil {
		return result, err
	}

	for _, candidate := range eligible {
		var archived int64
		var done bool
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			a, err := accounts.GetIncludingDeleted(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// Re-check under lock: another sweep may have archived it.
			if a.Archived || a.Status != account.StatusBlocked || a.Block == nil || a.Block.StartDate.After(now) {
				return nil
			}
			if err = accounts.Update(ctx, a.ID, dto.ArchiveUpdate(now)); err != nil {
				return err
			}
			transactions, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			archived, err = transactions.SetArchivedByAccount(ctx, a.ID, true, now)
			if err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			s.logger.Error("archive failed", "account", candidate.Number, "error", err)
			continue
		}
		if done {
			result.Accounts++
			result.Transactions += archived
			s.logger.Info("account archived", "account", candidate.Number, "transactions", archived)
		}
	}

	s.logger.Info("archive sweep done",
		"accounts", result.Accounts, "transactions", result.Transactions)
	return result, nil
}

// UnarchiveExpiredBlocks reverses the archive path once the block window has
// ended: the account returns to active with blocking and archival fields
// cleared, and its transactions are unarchived.
func (s *Service) UnarchiveExpiredBlocks(ctx context.Context) (SweepResult, error) {
	now := s.now()
	var result SweepResult

	var eligible []*account.Account
	if err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		eligible, err = accounts.ListArchivedToUnarchive(ctx, now)
		return err
	}); err != nil {
		return result, err
	}

	for _, candidate := range eligible {
		var unarchived int64
		var done bool
		err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			accounts, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			a, err := accounts.GetIncludingDeleted(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !a.Archived || a.Block == nil || a.Block.EndDate.After(now) {
				return nil
			}
			if err = accounts.Update(ctx, a.ID, dto.UnarchiveUpdate()); err != nil {
				return err
			}
			transactions, err := uow.TransactionRepository()
			if err != nil {
				return err
			}
			unarchived, err = transactions.SetArchivedByAccount(ctx, a.ID, false, now)
			if err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			s.logger.Error("unarchive failed", "account", candidate.Number, "error", err)
			continue
		}
		if done {
			result.Accounts++
			result.Transactions += unarchived
			s.logger.Info("account unarchived", "account", candidate.Number, "transactions", unarchived)
		}
	}

	s.logger.Info("unarchive sweep done",
		"accounts", result.Accounts, "transactions", result.Transactions)
	return result, nil
}
