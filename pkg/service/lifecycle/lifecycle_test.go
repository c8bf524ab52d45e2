package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunubank/ledger/internal/fixtures"
	"github.com/sunubank/ledger/pkg/currency"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedAccount(t *testing.T, uow *fixtures.MemoryUOW, typ account.Type, balance int64, opts ...func(*account.Account)) *account.Account {
	t.Helper()
	a := &account.Account{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Number:   typ.NumberPrefix() + "-" + uuid.NewString()[:8],
		Type:     typ,
		Balance:  decimal.NewFromInt(balance),
		Currency: currency.DefaultCurrency,
		Status:   account.StatusActive,
		OpenedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	uow.Seed(a)
	return a
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	uow := fixtures.NewMemoryUOW()
	savings := seedAccount(t, uow, account.TypeEpargne, 20000)
	svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

	blocked, err := svc.Block(context.Background(), savings.ID, dto.BlockAccount{
		Reason:    "judicial hold",
		StartDate: start,
		EndDate:   end,
	})
	require.NoError(t, err)
	assert.Equal(t, account.StatusBlocked, blocked.Status)

	stored := uow.Account(savings.ID)
	assert.Equal(t, account.StatusBlocked, stored.Status)
	require.NotNil(t, stored.Block)
	assert.Equal(t, "judicial hold", stored.Block.Reason)
	assert.True(t, stored.Block.StartDate.Equal(start))
	assert.True(t, stored.Block.EndDate.Equal(end))
}

func TestBlock_Rejections(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		seed    func(uow *fixtures.MemoryUOW) uuid.UUID
		cmd     dto.BlockAccount
		wantErr error
	}{
		{
			name: "current account not blockable",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return seedAccount(t, uow, account.TypeCourant, 20000).ID
			},
			cmd:     dto.BlockAccount{Reason: "hold", StartDate: start, EndDate: end},
			wantErr: account.ErrNotBlockable,
		},
		{
			name: "already blocked",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return seedAccount(t, uow, account.TypeEpargne, 20000, func(a *account.Account) {
					a.Status = account.StatusBlocked
					a.Block = &account.BlockWindow{Reason: "hold", StartDate: start, EndDate: end}
				}).ID
			},
			cmd:     dto.BlockAccount{Reason: "hold", StartDate: start, EndDate: end},
			wantErr: account.ErrAlreadyBlocked,
		},
		{
			name: "start in the past",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return seedAccount(t, uow, account.TypeEpargne, 20000).ID
			},
			cmd: dto.BlockAccount{
				Reason:    "hold",
				StartDate: now.AddDate(0, 0, -2),
				EndDate:   end,
			},
			wantErr: account.ErrBlockStartInPast,
		},
		{
			name: "end before start",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return seedAccount(t, uow, account.TypeEpargne, 20000).ID
			},
			cmd:     dto.BlockAccount{Reason: "hold", StartDate: end, EndDate: start},
			wantErr: account.ErrBlockEndBeforeStart,
		},
		{
			name: "archived account",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return seedAccount(t, uow, account.TypeEpargne, 20000, func(a *account.Account) {
					a.Archived = true
				}).ID
			},
			cmd:     dto.BlockAccount{Reason: "hold", StartDate: start, EndDate: end},
			wantErr: account.ErrBlockArchived,
		},
		{
			name: "unknown account",
			seed: func(uow *fixtures.MemoryUOW) uuid.UUID {
				return uuid.New()
			},
			cmd:     dto.BlockAccount{Reason: "hold", StartDate: start, EndDate: end},
			wantErr: account.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := fixtures.NewMemoryUOW()
			id := tt.seed(uow)
			svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

			_, err := svc.Block(context.Background(), id, tt.cmd)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBlockStartingToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	startToday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	uow := fixtures.NewMemoryUOW()
	savings := seedAccount(t, uow, account.TypeEpargne, 20000)
	svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

	// Midnight today is not "in the past" even though the clock reads 15:00.
	_, err := svc.Block(context.Background(), savings.ID, dto.BlockAccount{
		Reason:    "hold",
		StartDate: startToday,
		EndDate:   end,
	})
	require.NoError(t, err)
}

func TestUnblockRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	uow := fixtures.NewMemoryUOW()
	savings := seedAccount(t, uow, account.TypeEpargne, 20000)
	svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

	_, err := svc.Block(context.Background(), savings.ID, dto.BlockAccount{
		Reason:    "hold",
		StartDate: now.AddDate(0, 0, 1),
		EndDate:   now.AddDate(0, 0, 10),
	})
	require.NoError(t, err)

	unblocked, err := svc.Unblock(context.Background(), savings.ID, dto.UnblockAccount{Reason: "lifted"})
	require.NoError(t, err)
	assert.Equal(t, account.StatusActive, unblocked.Status)

	stored := uow.Account(savings.ID)
	assert.Equal(t, account.StatusActive, stored.Status)
	assert.Nil(t, stored.Block)
}

func TestUnblock_NotBlocked(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	active := seedAccount(t, uow, account.TypeEpargne, 20000)
	svc := New(uow, testLogger(), 0)

	_, err := svc.Unblock(context.Background(), active.ID, dto.UnblockAccount{})
	require.ErrorIs(t, err, account.ErrNotBlocked)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
}

func TestClose(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("positive balance rejected", func(t *testing.T) {
		uow := fixtures.NewMemoryUOW()
		funded := seedAccount(t, uow, account.TypeCourant, 500)
		svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

		_, err := svc.Close(context.Background(), funded.ID)
		require.ErrorIs(t, err, account.ErrPositiveBalance)
		assert.Equal(t, account.StatusActive, uow.Account(funded.ID).Status)
	})

	t.Run("zero balance closes and soft-deletes", func(t *testing.T) {
		uow := fixtures.NewMemoryUOW()
		empty := seedAccount(t, uow, account.TypeCourant, 0)
		svc := New(uow, testLogger(), 0).WithClock(fixedClock(now))

		closed, err := svc.Close(context.Background(), empty.ID)
		require.NoError(t, err)
		assert.Equal(t, account.StatusClosed, closed.Status)

		// Gone from default reads, still reachable explicitly.
		_, err = svc.GetAccount(context.Background(), empty.ID)
		require.ErrorIs(t, err, account.ErrAccountNotFound)

		stored, err := svc.GetAccountIncludingDeleted(context.Background(), empty.ID)
		require.NoError(t, err)
		assert.Equal(t, account.StatusClosed, stored.Status)
		assert.NotNil(t, stored.DeletedAt)
	})
}
