// Package account contains the account and transaction entities of the
// ledger. The entities enforce their own preconditions: balances move only
// through Debit and Credit, and lifecycle transitions only through the
// Block/Unblock/Close/Archive methods.
package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sunubank/ledger/pkg/currency"
)

// Type is the commercial account type.
type Type string

// Account types. "entreprise" shares the savings prefix with "epargne".
const (
	TypeCourant    Type = "courant"
	TypeEpargne    Type = "epargne"
	TypeEntreprise Type = "entreprise"
	TypeJoint      Type = "joint"
)

// Valid reports whether t is one of the known account types.
func (t Type) Valid() bool {
	switch t {
	case TypeCourant, TypeEpargne, TypeEntreprise, TypeJoint:
		return true
	}
	return false
}

// NumberPrefix returns the human-readable account number prefix for the type.
func (t Type) NumberPrefix() string {
	switch t {
	case TypeCourant:
		return "CC"
	case TypeEpargne, TypeEntreprise:
		return "CE"
	case TypeJoint:
		return "CJ"
	}
	return "C"
}

// Status is the lifecycle state of an account.
type Status string

// Lifecycle states. Closed is terminal and implemented as a soft delete.
const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusClosed  Status = "closed"
)

// MinimumOpeningBalance is the smallest initial balance accepted when an
// account is opened.
var MinimumOpeningBalance = decimal.NewFromInt(10000)

// BlockWindow is the [start, end] interval during which a savings account is
// blocked, with the reason given at block time.
type BlockWindow struct {
	Reason    string
	StartDate time.Time
	EndDate   time.Time
}

// Account is the aggregate protecting balance and lifecycle invariants.
//
// Invariants:
//   - Balance is mutated only through Debit and Credit, which check status.
//   - The balance never goes negative: debits check sufficient funds.
//   - Status transitions follow the block/unblock/close state machine.
//   - Only accounts of type "epargne" may be blocked.
type Account struct {
	ID         uuid.UUID
	ClientID   uuid.UUID
	Number     string
	Label      string
	Type       Type
	Balance    decimal.Decimal
	Currency   currency.Code
	Status     Status
	OpenedAt   time.Time
	Block      *BlockWindow
	Archived   bool
	ArchivedAt *time.Time
	DeletedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Builder constructs new accounts for the opening workflow. Hydration from
// storage builds the struct directly and bypasses the opening checks.
type Builder struct {
	id       uuid.UUID
	clientID uuid.UUID
	label    string
	typ      Type
	balance  decimal.Decimal
	currency currency.Code
	openedAt time.Time
}

// New returns a Builder seeded with a fresh id, the default currency and the
// current time as opening date.
func New() *Builder {
	return &Builder{
		id:       uuid.New(),
		currency: currency.DefaultCurrency,
		openedAt: time.Now(),
	}
}

// WithID overrides the generated account id.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithClientID sets the owning client. Mandatory.
func (b *Builder) WithClientID(clientID uuid.UUID) *Builder {
	b.clientID = clientID
	return b
}

// WithType sets the account type. Mandatory.
func (b *Builder) WithType(t Type) *Builder {
	b.typ = t
	return b
}

// WithLabel sets the display label.
func (b *Builder) WithLabel(label string) *Builder {
	b.label = label
	return b
}

// WithInitialBalance sets the opening balance.
func (b *Builder) WithInitialBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCurrency sets the account currency.
func (b *Builder) WithCurrency(c currency.Code) *Builder {
	b.currency = c
	return b
}

// WithOpenedAt sets the opening date.
func (b *Builder) WithOpenedAt(t time.Time) *Builder {
	b.openedAt = t
	return b
}

// Build validates the opening invariants and returns the account in active
// status with a freshly generated account number.
func (b *Builder) Build() (*Account, error) {
	if !b.typ.Valid() {
		return nil, ErrInvalidType
	}
	if b.clientID == uuid.Nil {
		return nil, ErrClientRequired
	}
	if !currency.IsValidFormat(string(b.currency)) {
		return nil, currency.ErrInvalidCurrencyCode
	}
	if !currency.IsSupported(string(b.currency)) {
		return nil, currency.ErrUnsupportedCurrency
	}
	if b.balance.LessThan(MinimumOpeningBalance) {
		return nil, ErrBelowMinimumOpening
	}
	label := b.label
	if label == "" {
		label = "Compte " + string(b.typ)
	}
	now := time.Now()
	return &Account{
		ID:        b.id,
		ClientID:  b.clientID,
		Number:    NewAccountNumber(b.typ),
		Label:     label,
		Type:      b.typ,
		Balance:   b.balance.Round(2),
		Currency:  b.currency,
		Status:    StatusActive,
		OpenedAt:  b.openedAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanDebit reports whether the account is active and holds at least amount.
func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return a.Status == StatusActive && a.Balance.GreaterThanOrEqual(amount)
}

// Debit removes amount from the balance. The account must be active, the
// amount positive, and the balance sufficient.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if a.Status != StatusActive {
		return ErrAccountInactive
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds amount to the balance. The account must be active and the
// amount positive.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if a.Status != StatusActive {
		return ErrAccountInactive
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// ValidateBlock checks the blocking preconditions against now without
// mutating the account. Blocking is restricted to savings accounts and the
// window dates must not be in the past.
func (a *Account) ValidateBlock(start, end, now time.Time) error {
	if a.Status == StatusBlocked {
		return ErrAlreadyBlocked
	}
	if a.Archived {
		return ErrBlockArchived
	}
	if a.Type != TypeEpargne {
		return ErrNotBlockable
	}
	today := startOfDay(now)
	if start.Before(today) {
		return ErrBlockStartInPast
	}
	if !end.After(start) {
		return ErrBlockEndBeforeStart
	}
	if end.Before(today) {
		return ErrBlockEndInPast
	}
	return nil
}

// ApplyBlock transitions the account to blocked with the given window.
func (a *Account) ApplyBlock(reason string, start, end, now time.Time) error {
	if err := a.ValidateBlock(start, end, now); err != nil {
		return err
	}
	a.Status = StatusBlocked
	a.Block = &BlockWindow{Reason: reason, StartDate: start, EndDate: end}
	return nil
}

// Unblock transitions a blocked account back to active and clears the
// blocking window.
func (a *Account) Unblock() error {
	if a.Status != StatusBlocked {
		return ErrNotBlocked
	}
	a.Status = StatusActive
	a.Block = nil
	return nil
}

// ValidateClose checks that the account holds no funds.
func (a *Account) ValidateClose() error {
	if a.Balance.IsPositive() {
		return ErrPositiveBalance
	}
	return nil
}

// Close soft-deletes the account. The balance must be zero.
func (a *Account) Close(now time.Time) error {
	if err := a.ValidateClose(); err != nil {
		return err
	}
	a.Status = StatusClosed
	a.DeletedAt = &now
	return nil
}

// Archive flags the account for cold storage once its block window has
// started. Archival also hard-closes the account; the unarchive path is the
// only way back to active.
func (a *Account) Archive(now time.Time) {
	a.Archived = true
	a.ArchivedAt = &now
	a.Status = StatusClosed
}

// Unarchive reverses Archive once the block window has ended: the account
// returns to active and the blocking fields are cleared.
func (a *Account) Unarchive() {
	a.Archived = false
	a.ArchivedAt = nil
	a.Status = StatusActive
	a.Block = nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
