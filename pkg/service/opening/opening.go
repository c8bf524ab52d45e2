// Package opening implements the account-opening workflow: find or create
// the owning client, open the account, and append the AccountOpened event to
// the outbox — all in one unit of work, so the notification dispatch can
// never observe an uncommitted opening.
package opening

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/currency"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/domain/client"
	"github.com/sunubank/ledger/pkg/domain/events"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/outbox"
	"github.com/sunubank/ledger/pkg/repository"
)

// Service opens accounts and manages client records.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// New creates the opening service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{
		uow:    uow,
		logger: logger.With("service", "opening"),
		now:    time.Now,
	}
}

// OpenAccount creates an account for an existing or new client. The account
// write, the client write (when new) and the outbox append commit together.
func (s *Service) OpenAccount(ctx context.Context, cmd dto.OpenAccount) (a *account.Account, c *client.Client, err error) {
	code, err := currency.Parse(cmd.Currency)
	if err != nil {
		return nil, nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		outboxRepo, err := uow.OutboxRepository()
		if err != nil {
			return err
		}

		var isNew bool
		var password string
		if cmd.Client.ID != nil {
			c, err = clients.Get(ctx, *cmd.Client.ID)
			if err != nil {
				return err
			}
		} else {
			c, password, err = client.NewClient(
				cmd.Client.FirstName,
				cmd.Client.LastName,
				cmd.Client.NCI,
				cmd.Client.Email,
				cmd.Client.Phone,
				cmd.Client.Address,
			)
			if err != nil {
				return err
			}
			if err = clients.Create(ctx, c); err != nil {
				return err
			}
			isNew = true
		}

		a, err = account.New().
			WithClientID(c.ID).
			WithType(account.Type(cmd.Type)).
			WithCurrency(code).
			WithInitialBalance(cmd.InitialBalance).
			WithLabel(cmd.Label).
			Build()
		if err != nil {
			return err
		}
		if err = accounts.Create(ctx, a); err != nil {
			return err
		}

		event := events.AccountOpened{
			AccountID:     a.ID,
			AccountNumber: a.Number,
			ClientID:      c.ID,
			ClientName:    c.FullName(),
			Email:         c.Email,
			Phone:         c.Phone,
			IsNewClient:   isNew,
			OccurredAt:    s.now(),
		}
		if isNew {
			event.TempPassword = password
			event.VerificationCode = c.VerificationCode
		}
		rec, err := outbox.NewRecord(event)
		if err != nil {
			return err
		}
		return outboxRepo.Append(ctx, rec)
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("account opened", "account", a.Number, "client", c.Number, "type", a.Type)
	return a, c, nil
}

// DeleteClient soft-deletes a client and cascades the soft delete to its
// accounts. A client with active accounts cannot be deleted.
func (s *Service) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err = clients.Get(ctx, clientID); err != nil {
			return err
		}
		active, err := accounts.CountActiveByClient(ctx, clientID)
		if err != nil {
			return err
		}
		if active > 0 {
			return client.ErrHasActiveAccounts
		}
		now := s.now()
		owned, err := accounts.ListByClient(ctx, clientID)
		if err != nil {
			return err
		}
		for _, a := range owned {
			if err = accounts.Update(ctx, a.ID, dto.SoftDeleteUpdate(now)); err != nil {
				return err
			}
		}
		return clients.SoftDelete(ctx, clientID, now)
	})
	if err != nil {
		return err
	}
	s.logger.Info("client deleted", "client", clientID)
	return nil
}

// GetClient returns a non-deleted client by id.
func (s *Service) GetClient(ctx context.Context, clientID uuid.UUID) (c *client.Client, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		c, err = clients.Get(ctx, clientID)
		return err
	})
	return
}

// ListClientAccounts returns the non-deleted accounts a client owns.
func (s *Service) ListClientAccounts(ctx context.Context, clientID uuid.UUID) (list []*account.Account, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		clients, err := uow.ClientRepository()
		if err != nil {
			return err
		}
		if _, err = clients.Get(ctx, clientID); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		list, err = accounts.ListByClient(ctx, clientID)
		return err
	})
	return
}
