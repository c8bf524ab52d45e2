package account

import (
	"fmt"

	"github.com/sunubank/ledger/pkg/domain"
)

// Rule errors wrap domain.ErrBusinessRule so callers can both match the
// exact rule and classify the error kind with errors.Is.
var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = fmt.Errorf("%w: account", domain.ErrNotFound)
	// ErrTransactionNotFound is returned when a transaction cannot be found.
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", domain.ErrNotFound)

	// ErrAmountNotPositive is returned when a transaction amount is zero or
	// negative.
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be positive", domain.ErrBusinessRule)
	// ErrInsufficientFunds is returned when the source balance cannot cover
	// a withdrawal or transfer.
	ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", domain.ErrBusinessRule)
	// ErrAccountInactive is returned when a debit or credit targets an
	// account that is not active.
	ErrAccountInactive = fmt.Errorf("%w: inactive account", domain.ErrBusinessRule)
	// ErrSameAccount is returned when a transfer names the same account as
	// source and destination.
	ErrSameAccount = fmt.Errorf("%w: identical source and destination accounts", domain.ErrBusinessRule)
	// ErrSourceRequired is returned when a withdrawal or transfer omits the
	// source account.
	ErrSourceRequired = fmt.Errorf("%w: source account required", domain.ErrBusinessRule)
	// ErrDestinationRequired is returned when a deposit or transfer omits
	// the destination account.
	ErrDestinationRequired = fmt.Errorf("%w: destination account required", domain.ErrBusinessRule)
	// ErrCurrencyMismatch is returned when a transaction currency differs
	// from the account currency.
	ErrCurrencyMismatch = fmt.Errorf("%w: currency mismatch", domain.ErrBusinessRule)

	// ErrAlreadyBlocked is returned when blocking an account that is
	// already blocked.
	ErrAlreadyBlocked = fmt.Errorf("%w: already blocked", domain.ErrBusinessRule)
	// ErrNotBlocked is returned when unblocking an account that is not
	// blocked.
	ErrNotBlocked = fmt.Errorf("%w: account is not blocked", domain.ErrBusinessRule)
	// ErrNotBlockable is returned when blocking an account whose type is
	// not "epargne".
	ErrNotBlockable = fmt.Errorf("%w: only savings accounts can be blocked", domain.ErrBusinessRule)
	// ErrBlockArchived is returned when blocking an archived account.
	ErrBlockArchived = fmt.Errorf("%w: cannot block an archived account", domain.ErrBusinessRule)
	// ErrBlockStartInPast is returned when the blocking start date is
	// before today.
	ErrBlockStartInPast = fmt.Errorf("%w: blocking start date cannot be in the past", domain.ErrBusinessRule)
	// ErrBlockEndBeforeStart is returned when the blocking end date is not
	// strictly after the start date.
	ErrBlockEndBeforeStart = fmt.Errorf("%w: blocking end date must be after start date", domain.ErrBusinessRule)
	// ErrBlockEndInPast is returned when the blocking end date is before
	// today.
	ErrBlockEndInPast = fmt.Errorf("%w: blocking end date cannot be in the past", domain.ErrBusinessRule)

	// ErrPositiveBalance is returned when closing an account that still
	// holds funds.
	ErrPositiveBalance = fmt.Errorf("%w: positive balance", domain.ErrBusinessRule)
	// ErrBelowMinimumOpening is returned when the initial balance of a new
	// account is under the opening threshold.
	ErrBelowMinimumOpening = fmt.Errorf("%w: initial balance below minimum", domain.ErrBusinessRule)
	// ErrClosed is returned when mutating a closed account.
	ErrClosed = fmt.Errorf("%w: account is closed", domain.ErrBusinessRule)
	// ErrInvalidType is returned when an account is opened with an unknown
	// type.
	ErrInvalidType = fmt.Errorf("%w: invalid account type", domain.ErrBusinessRule)
	// ErrClientRequired is returned when an account is opened without an
	// owning client.
	ErrClientRequired = fmt.Errorf("%w: owning client required", domain.ErrBusinessRule)
	// ErrInvalidTransactionType is returned when a transaction is created
	// with an unknown type.
	ErrInvalidTransactionType = fmt.Errorf("%w: invalid transaction type", domain.ErrBusinessRule)
)
