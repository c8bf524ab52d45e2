package account_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/account"
)

func newActive(t *testing.T, typ account.Type, balance int64) *account.Account {
	t.Helper()
	a, err := account.New().
		WithClientID(uuid.New()).
		WithType(typ).
		WithInitialBalance(decimal.NewFromInt(balance)).
		Build()
	require.NoError(t, err)
	return a
}

func TestBuild_GeneratesTypedNumber(t *testing.T) {
	tests := []struct {
		typ    account.Type
		prefix string
	}{
		{account.TypeCourant, "CC-"},
		{account.TypeEpargne, "CE-"},
		{account.TypeEntreprise, "CE-"},
		{account.TypeJoint, "CJ-"},
	}
	for _, tt := range tests {
		a := newActive(t, tt.typ, 50000)
		assert.True(t, len(a.Number) > len(tt.prefix))
		assert.Equal(t, tt.prefix, a.Number[:len(tt.prefix)])
		assert.Equal(t, account.StatusActive, a.Status)
	}
}

func TestBuild_RejectsBelowMinimum(t *testing.T) {
	_, err := account.New().
		WithClientID(uuid.New()).
		WithType(account.TypeCourant).
		WithInitialBalance(decimal.NewFromInt(500)).
		Build()
	assert.ErrorIs(t, err, account.ErrBelowMinimumOpening)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
}

func TestBuild_RequiresClient(t *testing.T) {
	_, err := account.New().
		WithType(account.TypeCourant).
		WithInitialBalance(decimal.NewFromInt(10000)).
		Build()
	assert.ErrorIs(t, err, account.ErrClientRequired)
}

func TestDebit(t *testing.T) {
	a := newActive(t, account.TypeCourant, 30000)

	err := a.Debit(decimal.NewFromInt(50000))
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(30000)), "failed debit must not move the balance")

	require.NoError(t, a.Debit(decimal.NewFromInt(30000)))
	assert.True(t, a.Balance.IsZero())

	err = a.Debit(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, account.ErrAmountNotPositive)
}

func TestCredit_InactiveAccount(t *testing.T) {
	a := newActive(t, account.TypeEpargne, 20000)
	now := time.Now()
	require.NoError(t, a.ApplyBlock("fraud suspicion", now, now.AddDate(0, 0, 30), now))

	err := a.Credit(decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, account.ErrAccountInactive)
	err = a.Debit(decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, account.ErrAccountInactive)
}

func TestApplyBlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	start := now
	end := now.AddDate(0, 0, 30)

	t.Run("only savings accounts", func(t *testing.T) {
		a := newActive(t, account.TypeCourant, 20000)
		assert.ErrorIs(t, a.ApplyBlock("r", start, end, now), account.ErrNotBlockable)
	})

	t.Run("already blocked", func(t *testing.T) {
		a := newActive(t, account.TypeEpargne, 100000)
		require.NoError(t, a.ApplyBlock("fraud suspicion", start, end, now))
		assert.ErrorIs(t, a.ApplyBlock("again", start, end, now), account.ErrAlreadyBlocked)
	})

	t.Run("archived account", func(t *testing.T) {
		a := newActive(t, account.TypeEpargne, 20000)
		a.Archived = true
		assert.ErrorIs(t, a.ApplyBlock("r", start, end, now), account.ErrBlockArchived)
	})

	t.Run("start in past", func(t *testing.T) {
		a := newActive(t, account.TypeEpargne, 20000)
		err := a.ApplyBlock("r", now.AddDate(0, 0, -1), end, now)
		assert.ErrorIs(t, err, account.ErrBlockStartInPast)
	})

	t.Run("end not after start", func(t *testing.T) {
		a := newActive(t, account.TypeEpargne, 20000)
		err := a.ApplyBlock("r", start, start, now)
		assert.ErrorIs(t, err, account.ErrBlockEndBeforeStart)
	})

	t.Run("start today is allowed", func(t *testing.T) {
		a := newActive(t, account.TypeEpargne, 20000)
		require.NoError(t, a.ApplyBlock("r", startOfDay(now), end, now))
		assert.Equal(t, account.StatusBlocked, a.Status)
		require.NotNil(t, a.Block)
		assert.Equal(t, "r", a.Block.Reason)
	})
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	a := newActive(t, account.TypeEpargne, 100000)
	now := time.Now()
	require.NoError(t, a.ApplyBlock("fraud suspicion", now, now.AddDate(0, 0, 30), now))
	require.Equal(t, account.StatusBlocked, a.Status)

	require.NoError(t, a.Unblock())
	assert.Equal(t, account.StatusActive, a.Status)
	assert.Nil(t, a.Block)

	assert.ErrorIs(t, a.Unblock(), account.ErrNotBlocked)
}

func TestClose(t *testing.T) {
	now := time.Now()

	withFunds := newActive(t, account.TypeCourant, 10500)
	assert.ErrorIs(t, withFunds.Close(now), account.ErrPositiveBalance)
	assert.Nil(t, withFunds.DeletedAt)

	empty := newActive(t, account.TypeCourant, 10000)
	require.NoError(t, empty.Debit(decimal.NewFromInt(10000)))
	require.NoError(t, empty.Close(now))
	assert.Equal(t, account.StatusClosed, empty.Status)
	require.NotNil(t, empty.DeletedAt)
	assert.Equal(t, now, *empty.DeletedAt)
}

func TestArchiveUnarchive(t *testing.T) {
	a := newActive(t, account.TypeEpargne, 100000)
	now := time.Now()
	require.NoError(t, a.ApplyBlock("dormant", now, now.AddDate(0, 0, 10), now))

	a.Archive(now)
	assert.True(t, a.Archived)
	assert.Equal(t, account.StatusClosed, a.Status)
	require.NotNil(t, a.ArchivedAt)

	a.Unarchive()
	assert.False(t, a.Archived)
	assert.Nil(t, a.ArchivedAt)
	assert.Nil(t, a.Block)
	assert.Equal(t, account.StatusActive, a.Status)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
