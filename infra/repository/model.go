// Package repository contains the gorm-backed implementations of the
// persistence contracts in pkg/repository. Entities are mapped to flat
// rows here; domain invariants stay in pkg/domain.
package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sunubank/ledger/pkg/currency"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/domain/client"
	"github.com/sunubank/ledger/pkg/outbox"
	"gorm.io/gorm"
)

// Account is the accounts row. DeletedAt is a plain nullable column, not
// gorm.DeletedAt: soft-delete visibility is decided per query, never by an
// implicit scope.
type Account struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number      string          `gorm:"uniqueIndex;not null;size:20"`
	Label       string          `gorm:"size:100"`
	Type        string          `gorm:"type:varchar(16);not null"`
	Balance     decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'XOF'"`
	Status      string          `gorm:"type:varchar(16);not null;default:'active';index"`
	OpenedAt    time.Time       `gorm:"not null"`
	BlockReason *string         `gorm:"size:255"`
	BlockStart  *time.Time
	BlockEnd    *time.Time
	Archived    bool `gorm:"not null;default:false;index"`
	ArchivedAt  *time.Time
	DeletedAt   *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transaction is the append-only transactions row.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number        string          `gorm:"uniqueIndex;not null;size:20"`
	Type          string          `gorm:"type:varchar(24);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'XOF'"`
	Description   string          `gorm:"size:255"`
	SourceID      *uuid.UUID      `gorm:"type:uuid;index"`
	DestinationID *uuid.UUID      `gorm:"type:uuid;index"`
	Date          time.Time       `gorm:"not null;index"`
	Status        string          `gorm:"type:varchar(16);not null"`
	Archived      bool            `gorm:"not null;default:false;index"`
	ArchivedAt    *time.Time
	CreatedAt     time.Time
}

// Client is the clients row.
type Client struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number           string     `gorm:"uniqueIndex;not null;size:20"`
	FirstName        string     `gorm:"not null;size:100"`
	LastName         string     `gorm:"not null;size:100"`
	NCI              string     `gorm:"column:nci;uniqueIndex;not null;size:13"`
	Email            string     `gorm:"uniqueIndex;not null;size:255"`
	Phone            string     `gorm:"not null;size:16"`
	Address          string     `gorm:"size:255"`
	PasswordHash     string     `gorm:"not null;size:100"`
	VerificationCode string     `gorm:"size:6"`
	DeletedAt        *time.Time `gorm:"index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OutboxRecord is the transactional outbox row.
type OutboxRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventType    string    `gorm:"not null;size:64;index"`
	Payload      []byte    `gorm:"type:jsonb;not null"`
	Status       string    `gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts     int       `gorm:"not null;default:0"`
	LastError    string    `gorm:"size:1024"`
	CreatedAt    time.Time `gorm:"index"`
	DispatchedAt *time.Time
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Client{}, &Account{}, &Transaction{}, &OutboxRecord{})
}

func accountToModel(a *account.Account) Account {
	m := Account{
		ID:         a.ID,
		ClientID:   a.ClientID,
		Number:     a.Number,
		Label:      a.Label,
		Type:       string(a.Type),
		Balance:    a.Balance,
		Currency:   string(a.Currency),
		Status:     string(a.Status),
		OpenedAt:   a.OpenedAt,
		Archived:   a.Archived,
		ArchivedAt: a.ArchivedAt,
		DeletedAt:  a.DeletedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.Block != nil {
		reason := a.Block.Reason
		start := a.Block.StartDate
		end := a.Block.EndDate
		m.BlockReason = &reason
		m.BlockStart = &start
		m.BlockEnd = &end
	}
	return m
}

func accountToEntity(m *Account) *account.Account {
	a := &account.Account{
		ID:         m.ID,
		ClientID:   m.ClientID,
		Number:     m.Number,
		Label:      m.Label,
		Type:       account.Type(m.Type),
		Balance:    m.Balance,
		Currency:   currency.Code(m.Currency),
		Status:     account.Status(m.Status),
		OpenedAt:   m.OpenedAt,
		Archived:   m.Archived,
		ArchivedAt: m.ArchivedAt,
		DeletedAt:  m.DeletedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.BlockReason != nil && m.BlockStart != nil && m.BlockEnd != nil {
		a.Block = &account.BlockWindow{
			Reason:    *m.BlockReason,
			StartDate: *m.BlockStart,
			EndDate:   *m.BlockEnd,
		}
	}
	return a
}

func transactionToModel(t *account.Transaction) Transaction {
	return Transaction{
		ID:            t.ID,
		Number:        t.Number,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Currency:      string(t.Currency),
		Description:   t.Description,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		Date:          t.Date,
		Status:        string(t.Status),
		Archived:      t.Archived,
		ArchivedAt:    t.ArchivedAt,
		CreatedAt:     t.CreatedAt,
	}
}

func transactionToEntity(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:            m.ID,
		Number:        m.Number,
		Type:          account.TransactionType(m.Type),
		Amount:        m.Amount,
		Currency:      currency.Code(m.Currency),
		Description:   m.Description,
		SourceID:      m.SourceID,
		DestinationID: m.DestinationID,
		Date:          m.Date,
		Status:        account.TransactionStatus(m.Status),
		Archived:      m.Archived,
		ArchivedAt:    m.ArchivedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func clientToModel(c *client.Client) Client {
	return Client{
		ID:               c.ID,
		Number:           c.Number,
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		NCI:              c.NCI,
		Email:            c.Email,
		Phone:            c.Phone,
		Address:          c.Address,
		PasswordHash:     c.PasswordHash,
		VerificationCode: c.VerificationCode,
		DeletedAt:        c.DeletedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func clientToEntity(m *Client) *client.Client {
	return &client.Client{
		ID:               m.ID,
		Number:           m.Number,
		FirstName:        m.FirstName,
		LastName:         m.LastName,
		NCI:              m.NCI,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		PasswordHash:     m.PasswordHash,
		VerificationCode: m.VerificationCode,
		DeletedAt:        m.DeletedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func recordToModel(r *outbox.Record) OutboxRecord {
	return OutboxRecord{
		ID:           r.ID,
		EventType:    r.EventType,
		Payload:      r.Payload,
		Status:       string(r.Status),
		Attempts:     r.Attempts,
		LastError:    r.LastError,
		CreatedAt:    r.CreatedAt,
		DispatchedAt: r.DispatchedAt,
	}
}

func recordToEntity(m *OutboxRecord) *outbox.Record {
	return &outbox.Record{
		ID:           m.ID,
		EventType:    m.EventType,
		Payload:      m.Payload,
		Status:       outbox.Status(m.Status),
		Attempts:     m.Attempts,
		LastError:    m.LastError,
		CreatedAt:    m.CreatedAt,
		DispatchedAt: m.DispatchedAt,
	}
}
