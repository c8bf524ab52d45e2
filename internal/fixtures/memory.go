// Package fixtures provides an in-memory repository.UnitOfWork for service
// tests. A single mutex serializes Do, matching the isolation the real
// implementation gets from row locks, and a snapshot taken at Do entry is
// restored when fn fails, matching transaction rollback.
package fixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/domain/client"
	"github.com/sunubank/ledger/pkg/dto"
	"github.com/sunubank/ledger/pkg/outbox"
	"github.com/sunubank/ledger/pkg/repository"
)

// MemoryUOW holds all state behind one mutex.
//
// AccountUpdateHook, when set, runs before every account update inside a
// unit of work; tests use it to inject concurrency conflicts.
type MemoryUOW struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*account.Account
	transactions map[uuid.UUID]*account.Transaction
	clients      map[uuid.UUID]*client.Client
	records      map[uuid.UUID]*outbox.Record
	recordOrder  []uuid.UUID

	AccountUpdateHook func(id uuid.UUID) error
}

// NewMemoryUOW creates an empty in-memory unit of work.
func NewMemoryUOW() *MemoryUOW {
	return &MemoryUOW{
		accounts:     make(map[uuid.UUID]*account.Account),
		transactions: make(map[uuid.UUID]*account.Transaction),
		clients:      make(map[uuid.UUID]*client.Client),
		records:      make(map[uuid.UUID]*outbox.Record),
	}
}

// Do runs fn under the store mutex and rolls the store back if fn fails.
func (u *MemoryUOW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := u.snapshot()
	if err := fn(u); err != nil {
		u.restore(snap)
		return err
	}
	return nil
}

// AccountRepository returns the account store.
func (u *MemoryUOW) AccountRepository() (repository.AccountRepository, error) {
	return (*memoryAccounts)(u), nil
}

// TransactionRepository returns the transaction store.
func (u *MemoryUOW) TransactionRepository() (repository.TransactionRepository, error) {
	return (*memoryTransactions)(u), nil
}

// ClientRepository returns the client store.
func (u *MemoryUOW) ClientRepository() (repository.ClientRepository, error) {
	return (*memoryClients)(u), nil
}

// OutboxRepository returns the outbox store.
func (u *MemoryUOW) OutboxRepository() (repository.OutboxRepository, error) {
	return (*memoryOutbox)(u), nil
}

// Seed inserts accounts outside any unit of work.
func (u *MemoryUOW) Seed(accounts ...*account.Account) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, a := range accounts {
		u.accounts[a.ID] = cloneAccount(a)
	}
}

// SeedClients inserts clients outside any unit of work.
func (u *MemoryUOW) SeedClients(clients ...*client.Client) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, c := range clients {
		u.clients[c.ID] = cloneClient(c)
	}
}

// Account returns a copy of a stored account for assertions.
func (u *MemoryUOW) Account(id uuid.UUID) *account.Account {
	u.mu.Lock()
	defer u.mu.Unlock()
	a, ok := u.accounts[id]
	if !ok {
		return nil
	}
	return cloneAccount(a)
}

// Client returns a copy of a stored client for assertions.
func (u *MemoryUOW) Client(id uuid.UUID) *client.Client {
	u.mu.Lock()
	defer u.mu.Unlock()
	c, ok := u.clients[id]
	if !ok {
		return nil
	}
	return cloneClient(c)
}

// Clients returns copies of all stored clients.
func (u *MemoryUOW) Clients() []*client.Client {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*client.Client, 0, len(u.clients))
	for _, c := range u.clients {
		out = append(out, cloneClient(c))
	}
	return out
}

// Transactions returns copies of all stored transactions.
func (u *MemoryUOW) Transactions() []*account.Transaction {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*account.Transaction, 0, len(u.transactions))
	for _, t := range u.transactions {
		out = append(out, cloneTransaction(t))
	}
	return out
}

// Records returns copies of all outbox records, oldest first.
func (u *MemoryUOW) Records() []*outbox.Record {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*outbox.Record, 0, len(u.recordOrder))
	for _, id := range u.recordOrder {
		out = append(out, cloneRecord(u.records[id]))
	}
	return out
}

type storeSnapshot struct {
	accounts     map[uuid.UUID]*account.Account
	transactions map[uuid.UUID]*account.Transaction
	clients      map[uuid.UUID]*client.Client
	records      map[uuid.UUID]*outbox.Record
	recordOrder  []uuid.UUID
}

func (u *MemoryUOW) snapshot() storeSnapshot {
	snap := storeSnapshot{
		accounts:     make(map[uuid.UUID]*account.Account, len(u.accounts)),
		transactions: make(map[uuid.UUID]*account.Transaction, len(u.transactions)),
		clients:      make(map[uuid.UUID]*client.Client, len(u.clients)),
		records:      make(map[uuid.UUID]*outbox.Record, len(u.records)),
		recordOrder:  append([]uuid.UUID(nil), u.recordOrder...),
	}
	for id, a := range u.accounts {
		snap.accounts[id] = cloneAccount(a)
	}
	for id, t := range u.transactions {
		snap.transactions[id] = cloneTransaction(t)
	}
	for id, c := range u.clients {
		snap.clients[id] = cloneClient(c)
	}
	for id, r := range u.records {
		snap.records[id] = cloneRecord(r)
	}
	return snap
}

func (u *MemoryUOW) restore(snap storeSnapshot) {
	u.accounts = snap.accounts
	u.transactions = snap.transactions
	u.clients = snap.clients
	u.records = snap.records
	u.recordOrder = snap.recordOrder
}

type memoryAccounts MemoryUOW

func (r *memoryAccounts) Create(_ context.Context, a *account.Account) error {
	r.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *memoryAccounts) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok || a.DeletedAt != nil {
		return nil, account.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *memoryAccounts) GetIncludingDeleted(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *memoryAccounts) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	// Do already holds the store mutex, so the plain read is the lock.
	return r.Get(ctx, id)
}

func (r *memoryAccounts) Update(_ context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	if r.AccountUpdateHook != nil {
		if err := r.AccountUpdateHook(id); err != nil {
			return err
		}
	}
	a, ok := r.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	applyAccountUpdate(a, update)
	return nil
}

func (r *memoryAccounts) ListByClient(_ context.Context, clientID uuid.UUID) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range r.accounts {
		if a.ClientID == clientID && a.DeletedAt == nil {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

func (r *memoryAccounts) CountActiveByClient(_ context.Context, clientID uuid.UUID) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.ClientID == clientID && a.DeletedAt == nil && a.Status == account.StatusActive {
			n++
		}
	}
	return n, nil
}

func (r *memoryAccounts) ListBlockedToArchive(_ context.Context, now time.Time) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range r.accounts {
		if a.Status == account.StatusBlocked && !a.Archived &&
			a.Block != nil && !a.Block.StartDate.After(now) {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

func (r *memoryAccounts) ListArchivedToUnarchive(_ context.Context, now time.Time) ([]*account.Account, error) {
	var out []*account.Account
	for _, a := range r.accounts {
		if a.Archived && a.Block != nil && !a.Block.EndDate.After(now) {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

type memoryTransactions MemoryUOW

func (r *memoryTransactions) Create(_ context.Context, t *account.Transaction) error {
	r.transactions[t.ID] = cloneTransaction(t)
	return nil
}

func (r *memoryTransactions) Get(_ context.Context, id uuid.UUID) (*account.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok {
		return nil, account.ErrTransactionNotFound
	}
	return cloneTransaction(t), nil
}

func (r *memoryTransactions) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var out []*account.Transaction
	for _, t := range r.transactions {
		if (t.SourceID != nil && *t.SourceID == accountID) ||
			(t.DestinationID != nil && *t.DestinationID == accountID) {
			out = append(out, cloneTransaction(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memoryTransactions) SetArchivedByAccount(_ context.Context, accountID uuid.UUID, archived bool, now time.Time) (int64, error) {
	var n int64
	for _, t := range r.transactions {
		if (t.SourceID != nil && *t.SourceID == accountID) ||
			(t.DestinationID != nil && *t.DestinationID == accountID) {
			if t.Archived == archived {
				continue
			}
			t.Archived = archived
			if archived {
				at := now
				t.ArchivedAt = &at
			} else {
				t.ArchivedAt = nil
			}
			n++
		}
	}
	return n, nil
}

type memoryClients MemoryUOW

func (r *memoryClients) Create(_ context.Context, c *client.Client) error {
	r.clients[c.ID] = cloneClient(c)
	return nil
}

func (r *memoryClients) Get(_ context.Context, id uuid.UUID) (*client.Client, error) {
	c, ok := r.clients[id]
	if !ok || c.DeletedAt != nil {
		return nil, client.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *memoryClients) GetIncludingDeleted(_ context.Context, id uuid.UUID) (*client.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *memoryClients) SoftDelete(_ context.Context, id uuid.UUID, now time.Time) error {
	c, ok := r.clients[id]
	if !ok {
		return client.ErrClientNotFound
	}
	at := now
	c.DeletedAt = &at
	return nil
}

type memoryOutbox MemoryUOW

func (r *memoryOutbox) Append(_ context.Context, rec *outbox.Record) error {
	r.records[rec.ID] = cloneRecord(rec)
	r.recordOrder = append(r.recordOrder, rec.ID)
	return nil
}

func (r *memoryOutbox) FetchPending(_ context.Context, limit int) ([]*outbox.Record, error) {
	var out []*outbox.Record
	for _, id := range r.recordOrder {
		rec := r.records[id]
		if rec.Status != outbox.StatusPending {
			continue
		}
		out = append(out, cloneRecord(rec))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memoryOutbox) MarkDispatched(_ context.Context, id uuid.UUID, at time.Time) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: outbox record", domain.ErrNotFound)
	}
	rec.Status = outbox.StatusDispatched
	when := at
	rec.DispatchedAt = &when
	return nil
}

func (r *memoryOutbox) MarkFailed(_ context.Context, id uuid.UUID, attempt int, lastError string) error {
	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: outbox record", domain.ErrNotFound)
	}
	rec.Attempts = attempt
	rec.LastError = lastError
	if attempt >= outbox.MaxAttempts {
		rec.Status = outbox.StatusFailed
	}
	return nil
}

func applyAccountUpdate(a *account.Account, update dto.AccountUpdate) {
	if update.Balance != nil {
		a.Balance = *update.Balance
	}
	if update.Status != nil {
		a.Status = account.Status(*update.Status)
	}
	if update.BlockReason != nil && update.BlockStart != nil && update.BlockEnd != nil {
		a.Block = &account.BlockWindow{
			Reason:    *update.BlockReason,
			StartDate: *update.BlockStart,
			EndDate:   *update.BlockEnd,
		}
	}
	if update.ClearBlock {
		a.Block = nil
	}
	if update.Archived != nil {
		a.Archived = *update.Archived
		if !a.Archived {
			a.ArchivedAt = nil
		}
	}
	if update.ArchivedAt != nil {
		at := *update.ArchivedAt
		a.ArchivedAt = &at
	}
	if update.DeletedAt != nil {
		at := *update.DeletedAt
		a.DeletedAt = &at
	}
	a.UpdatedAt = time.Now()
}

func sortAccounts(accounts []*account.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Number < accounts[j].Number
	})
}

func cloneAccount(a *account.Account) *account.Account {
	cp := *a
	if a.Block != nil {
		b := *a.Block
		cp.Block = &b
	}
	cp.ArchivedAt = cloneTime(a.ArchivedAt)
	cp.DeletedAt = cloneTime(a.DeletedAt)
	return &cp
}

func cloneTransaction(t *account.Transaction) *account.Transaction {
	cp := *t
	cp.SourceID = cloneUUID(t.SourceID)
	cp.DestinationID = cloneUUID(t.DestinationID)
	cp.ArchivedAt = cloneTime(t.ArchivedAt)
	return &cp
}

func cloneClient(c *client.Client) *client.Client {
	cp := *c
	cp.DeletedAt = cloneTime(c.DeletedAt)
	return &cp
}

func cloneRecord(r *outbox.Record) *outbox.Record {
	cp := *r
	cp.Payload = append([]byte(nil), r.Payload...)
	cp.DispatchedAt = cloneTime(r.DispatchedAt)
	return &cp
}

func cloneUUID(u *uuid.UUID) *uuid.UUID {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
