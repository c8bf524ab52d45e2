// Package dto holds the typed commands exchanged between the request layer,
// the services and the repositories. Every mutation enumerates exactly the
// fields it may touch; there are no open-ended attribute bags.
package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenAccount is the service command for the account-opening workflow.
// Client.ID is set when the account is attached to an existing client;
// otherwise the remaining client fields describe the client to create.
type OpenAccount struct {
	Type           string
	Currency       string
	InitialBalance decimal.Decimal
	Label          string
	Client         ClientSpec
}

// ClientSpec identifies an existing client or describes a new one.
type ClientSpec struct {
	ID        *uuid.UUID
	FirstName string
	LastName  string
	NCI       string
	Email     string
	Phone     string
	Address   string
}

// AccountUpdate enumerates the mutable account fields. Nil pointers leave
// the column untouched. Use the constructors below rather than filling the
// struct by hand, so each lifecycle operation only ever touches its own
// fields.
type AccountUpdate struct {
	Balance     *decimal.Decimal
	Status      *string
	BlockReason *string
	BlockStart  *time.Time
	BlockEnd    *time.Time
	ClearBlock  bool
	Archived    *bool
	ArchivedAt  *time.Time
	DeletedAt   *time.Time
}

// BalanceUpdate returns the update applied by the ledger engine after a
// debit or credit.
func BalanceUpdate(balance decimal.Decimal) AccountUpdate {
	return AccountUpdate{Balance: &balance}
}

// BlockUpdate returns the update for the active → blocked transition.
func BlockUpdate(reason string, start, end time.Time) AccountUpdate {
	status := "blocked"
	return AccountUpdate{
		Status:      &status,
		BlockReason: &reason,
		BlockStart:  &start,
		BlockEnd:    &end,
	}
}

// UnblockUpdate returns the update for the blocked → active transition,
// clearing the blocking window.
func UnblockUpdate() AccountUpdate {
	status := "active"
	return AccountUpdate{Status: &status, ClearBlock: true}
}

// CloseUpdate returns the soft-deleting update for account closure.
func CloseUpdate(now time.Time) AccountUpdate {
	status := "closed"
	return AccountUpdate{Status: &status, DeletedAt: &now}
}

// SoftDeleteUpdate returns the update cascading a client deletion to its
// accounts: the row is marked deleted without forcing a status transition.
func SoftDeleteUpdate(now time.Time) AccountUpdate {
	return AccountUpdate{DeletedAt: &now}
}

// ArchiveUpdate returns the update applied by the archival sweep: the
// account is flagged archived and hard-closed.
func ArchiveUpdate(now time.Time) AccountUpdate {
	status := "closed"
	archived := true
	return AccountUpdate{Status: &status, Archived: &archived, ArchivedAt: &now}
}

// UnarchiveUpdate returns the update applied by the unarchive sweep: back to
// active with all blocking and archival fields cleared.
func UnarchiveUpdate() AccountUpdate {
	status := "active"
	archived := false
	return AccountUpdate{Status: &status, Archived: &archived, ClearBlock: true}
}
