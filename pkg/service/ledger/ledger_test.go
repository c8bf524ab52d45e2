package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
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

func seedAccount(t *testing.T, uow *fixtures.MemoryUOW, balance int64, opts ...func(*account.Account)) *account.Account {
	t.Helper()
	a := &account.Account{
		ID:       uuid.New(),
		ClientID: uuid.New(),
		Number:   "CC-TEST" + uuid.NewString()[:6],
		Type:     account.TypeCourant,
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

func TestCreateTransaction_Deposit(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	dst := seedAccount(t, uow, 5000)
	svc := New(uow, testLogger(), 0)

	trx, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:          string(account.TypeDeposit),
		Amount:        decimal.NewFromInt(1000),
		DestinationID: &dst.ID,
		Description:   "cash deposit",
	})
	require.NoError(t, err)
	require.NotNil(t, trx)

	assert.Nil(t, trx.SourceID)
	require.NotNil(t, trx.DestinationID)
	assert.Equal(t, dst.ID, *trx.DestinationID)
	assert.Equal(t, account.StatusValidated, trx.Status)
	assert.True(t, uow.Account(dst.ID).Balance.Equal(decimal.NewFromInt(6000)))
}

func TestCreateTransaction_Withdrawal(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 30000)
	svc := New(uow, testLogger(), 0)

	trx, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(12000),
		SourceID: &src.ID,
	})
	require.NoError(t, err)
	assert.Nil(t, trx.DestinationID)
	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(18000)))
}

func TestCreateTransaction_InsufficientFunds(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 30000)
	svc := New(uow, testLogger(), 0)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(50000),
		SourceID: &src.ID,
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)

	// Nothing moved, nothing logged.
	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(30000)))
	assert.Empty(t, uow.Transactions())
}

func TestCreateTransaction_Transfer(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)
	dst := seedAccount(t, uow, 2000)
	svc := New(uow, testLogger(), 0)

	trx, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:          string(account.TypeTransfer),
		Amount:        decimal.NewFromInt(1000),
		SourceID:      &src.ID,
		DestinationID: &dst.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, trx.SourceID)
	require.NotNil(t, trx.DestinationID)

	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(4000)))
	assert.True(t, uow.Account(dst.ID).Balance.Equal(decimal.NewFromInt(3000)))
	assert.Len(t, uow.Transactions(), 1)
}

func TestCreateTransaction_TransferRollsBackOnInactiveDestination(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)
	dst := seedAccount(t, uow, 2000, func(a *account.Account) {
		a.Status = account.StatusBlocked
	})
	svc := New(uow, testLogger(), 0)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:          string(account.TypeTransfer),
		Amount:        decimal.NewFromInt(1000),
		SourceID:      &src.ID,
		DestinationID: &dst.ID,
	})
	require.ErrorIs(t, err, account.ErrAccountInactive)

	// The debit side must not survive the failed credit side.
	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(5000)))
	assert.True(t, uow.Account(dst.ID).Balance.Equal(decimal.NewFromInt(2000)))
	assert.Empty(t, uow.Transactions())
}

func TestCreateTransaction_CurrencyMismatch(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000, func(a *account.Account) {
		a.Currency = currency.Code("EUR")
	})
	svc := New(uow, testLogger(), 0)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(100),
		Currency: "XOF",
		SourceID: &src.ID,
	})
	require.ErrorIs(t, err, account.ErrCurrencyMismatch)
}

func TestCreateTransaction_SameAccountTransfer(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)
	svc := New(uow, testLogger(), 0)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:          string(account.TypeTransfer),
		Amount:        decimal.NewFromInt(100),
		SourceID:      &src.ID,
		DestinationID: &src.ID,
	})
	require.ErrorIs(t, err, account.ErrSameAccount)
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	svc := New(uow, testLogger(), 0)
	missing := uuid.New()

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:          string(account.TypeDeposit),
		Amount:        decimal.NewFromInt(100),
		DestinationID: &missing,
	})
	require.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransaction_NoDoubleSpend(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)
	svc := New(uow, testLogger(), 0)

	const workers = 10
	amount := decimal.NewFromInt(1000)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateTransaction(context.Background(), dto.CreateTransaction{
				Type:     string(account.TypeWithdrawal),
				Amount:   amount,
				SourceID: &src.ID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.True(t, uow.Account(src.ID).Balance.IsZero())
	assert.Len(t, uow.Transactions(), 5)
}

func TestCreateTransaction_RetriesOnConflict(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)

	conflicts := 2
	uow.AccountUpdateHook = func(uuid.UUID) error {
		if conflicts > 0 {
			conflicts--
			return domain.ErrConcurrencyConflict
		}
		return nil
	}
	svc := New(uow, testLogger(), 3)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(1000),
		SourceID: &src.ID,
	})
	require.NoError(t, err)
	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(4000)))
	assert.Len(t, uow.Transactions(), 1)
}

func TestCreateTransaction_GivesUpAfterMaxRetries(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 5000)
	uow.AccountUpdateHook = func(uuid.UUID) error {
		return domain.ErrConcurrencyConflict
	}
	svc := New(uow, testLogger(), 3)

	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(1000),
		SourceID: &src.ID,
	})
	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.True(t, uow.Account(src.ID).Balance.Equal(decimal.NewFromInt(5000)))
}

func TestListAccountTransactions(t *testing.T) {
	uow := fixtures.NewMemoryUOW()
	src := seedAccount(t, uow, 50000)
	other := seedAccount(t, uow, 50000)
	svc := New(uow, testLogger(), 0)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
			Type:     string(account.TypeWithdrawal),
			Amount:   decimal.NewFromInt(1000),
			SourceID: &src.ID,
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateTransaction(context.Background(), dto.CreateTransaction{
		Type:     string(account.TypeWithdrawal),
		Amount:   decimal.NewFromInt(1000),
		SourceID: &other.ID,
	})
	require.NoError(t, err)

	list, err := svc.ListAccountTransactions(context.Background(), src.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = svc.ListAccountTransactions(context.Background(), uuid.New())
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestLockOrder(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	ordered := lockOrder(&a, &b)
	require.Len(t, ordered, 2)
	assert.Equal(t, b, ordered[0])
	assert.Equal(t, a, ordered[1])

	assert.Len(t, lockOrder(&a, nil), 1)
	assert.Empty(t, lockOrder(nil, nil))
}
