package account_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunubank/ledger/pkg/currency"
	"github.com/sunubank/ledger/pkg/domain/account"
)

func TestNewTransaction_Shapes(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()
	amount := decimal.NewFromInt(1000)

	tests := []struct {
		name    string
		typ     account.TransactionType
		src     *uuid.UUID
		dst     *uuid.UUID
		wantErr error
	}{
		{"deposit needs destination", account.TypeDeposit, nil, nil, account.ErrDestinationRequired},
		{"withdrawal needs source", account.TypeWithdrawal, nil, &dst, account.ErrSourceRequired},
		{"transfer needs both", account.TypeTransfer, &src, nil, account.ErrDestinationRequired},
		{"transfer same account", account.TypeTransfer, &src, &src, account.ErrSameAccount},
		{"deposit ok", account.TypeDeposit, nil, &dst, nil},
		{"withdrawal ok", account.TypeWithdrawal, &src, nil, nil},
		{"transfer ok", account.TypeTransfer, &src, &dst, nil},
		{"internal transfer ok", account.TypeInternalTransfer, &src, &dst, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trx, err := account.NewTransaction(tt.typ, amount, currency.DefaultCurrency, tt.src, tt.dst, "", time.Time{})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, account.StatusValidated, trx.Status)
			assert.True(t, strings.HasPrefix(trx.Number, "TRX-"))
			assert.False(t, trx.Date.IsZero())
		})
	}
}

func TestNewTransaction_DropsIrrelevantReferences(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()

	dep, err := account.NewTransaction(account.TypeDeposit, decimal.NewFromInt(10), "XOF", &src, &dst, "", time.Time{})
	require.NoError(t, err)
	assert.Nil(t, dep.SourceID, "deposit keeps destination only")

	wd, err := account.NewTransaction(account.TypeWithdrawal, decimal.NewFromInt(10), "XOF", &src, &dst, "", time.Time{})
	require.NoError(t, err)
	assert.Nil(t, wd.DestinationID, "withdrawal keeps source only")
}

func TestNewTransaction_AmountRules(t *testing.T) {
	dst := uuid.New()
	_, err := account.NewTransaction(account.TypeDeposit, decimal.Zero, "XOF", nil, &dst, "", time.Time{})
	assert.ErrorIs(t, err, account.ErrAmountNotPositive)

	trx, err := account.NewTransaction(account.TypeDeposit, decimal.RequireFromString("10.005"), "XOF", nil, &dst, "", time.Time{})
	require.NoError(t, err)
	assert.True(t, trx.Amount.Equal(decimal.RequireFromString("10.01")), "amounts are kept at 2-digit precision")
}
