package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sunubank/ledger/pkg/currency"
)

// TransactionType is the kind of money movement a transaction records.
type TransactionType string

// Transaction types. Internal transfers follow the same balance semantics as
// transfers; the distinct value is kept for reporting.
const (
	TypeDeposit          TransactionType = "deposit"
	TypeWithdrawal       TransactionType = "withdrawal"
	TypeTransfer         TransactionType = "transfer"
	TypeInternalTransfer TransactionType = "internal-transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeInternalTransfer:
		return true
	}
	return false
}

// RequiresSource reports whether the type debits a source account.
func (t TransactionType) RequiresSource() bool {
	return t == TypeWithdrawal || t == TypeTransfer || t == TypeInternalTransfer
}

// RequiresDestination reports whether the type credits a destination account.
func (t TransactionType) RequiresDestination() bool {
	return t == TypeDeposit || t == TypeTransfer || t == TypeInternalTransfer
}

// TransactionStatus is the processing state of a transaction.
type TransactionStatus string

// Transaction statuses. Transactions are created with their balance effects
// already applied, so the default is validated.
const (
	StatusPending   TransactionStatus = "pending"
	StatusValidated TransactionStatus = "validated"
	StatusRejected  TransactionStatus = "rejected"
)

// Transaction is the immutable record of a money movement. Once persisted,
// only the archive flag changes, mirroring the related account's archival
// state.
type Transaction struct {
	ID            uuid.UUID
	Number        string
	Type          TransactionType
	Amount        decimal.Decimal
	Currency      currency.Code
	Description   string
	SourceID      *uuid.UUID
	DestinationID *uuid.UUID
	Date          time.Time
	Status        TransactionStatus
	Archived      bool
	ArchivedAt    *time.Time
	CreatedAt     time.Time
}

// NewTransaction validates the per-type shape of a money movement and
// returns the immutable record. Invariants:
//   - amount > 0
//   - deposit has a destination only; withdrawal a source only
//   - transfers have both, and source != destination
func NewTransaction(
	typ TransactionType,
	amount decimal.Decimal,
	code currency.Code,
	sourceID, destinationID *uuid.UUID,
	description string,
	date time.Time,
) (*Transaction, error) {
	if !typ.Valid() {
		return nil, ErrInvalidTransactionType
	}
	if !amount.IsPositive() {
		return nil, ErrAmountNotPositive
	}
	if typ.RequiresSource() && sourceID == nil {
		return nil, ErrSourceRequired
	}
	if typ.RequiresDestination() && destinationID == nil {
		return nil, ErrDestinationRequired
	}
	if typ == TypeDeposit {
		sourceID = nil
	}
	if typ == TypeWithdrawal {
		destinationID = nil
	}
	if sourceID != nil && destinationID != nil && *sourceID == *destinationID {
		return nil, ErrSameAccount
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &Transaction{
		ID:            uuid.New(),
		Number:        NewTransactionNumber(),
		Type:          typ,
		Amount:        amount.Round(2),
		Currency:      code,
		Description:   description,
		SourceID:      sourceID,
		DestinationID: destinationID,
		Date:          date,
		Status:        StatusValidated,
		CreatedAt:     time.Now(),
	}, nil
}
