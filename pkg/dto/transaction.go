package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTransaction is the service command for a single money movement.
// Source and destination are optional here; the ledger engine enforces the
// per-type requirements.
type CreateTransaction struct {
	Type          string
	Amount        decimal.Decimal
	Currency      string
	SourceID      *uuid.UUID
	DestinationID *uuid.UUID
	Description   string
	Date          time.Time
}

// BlockAccount is the service command for the active → blocked transition.
type BlockAccount struct {
	Reason    string
	StartDate time.Time
	EndDate   time.Time
}

// UnblockAccount is the service command for the blocked → active transition.
type UnblockAccount struct {
	Reason string
}
