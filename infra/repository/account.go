package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/account"
	"github.com/sunubank/ledger/pkg/dto"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates the gorm-backed account repository bound to
// the given session.
func NewAccountRepository(db *gorm.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	return mapError(r.db.WithContext(ctx).Create(&m).Error, account.ErrAccountNotFound)
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountToEntity(&m), nil
}

func (r *accountRepository) GetIncludingDeleted(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountToEntity(&m), nil
}

func (r *accountRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountToEntity(&m), nil
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update dto.AccountUpdate) error {
	updates := accountUpdateColumns(update)
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return mapError(res.Error, account.ErrAccountNotFound)
	}
	if res.RowsAffected == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND deleted_at IS NULL", clientID).
		Order("number").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountsToEntities(models), nil
}

func (r *accountRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Account{}).
		Where("client_id = ? AND status = ? AND deleted_at IS NULL", clientID, string(account.StatusActive)).
		Count(&n).Error
	if err != nil {
		return 0, mapError(err, account.ErrAccountNotFound)
	}
	return n, nil
}

func (r *accountRepository) ListBlockedToArchive(ctx context.Context, now time.Time) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("status = ? AND archived = false AND block_start IS NOT NULL AND block_start <= ?",
			string(account.StatusBlocked), now).
		Order("number").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountsToEntities(models), nil
}

func (r *accountRepository) ListArchivedToUnarchive(ctx context.Context, now time.Time) ([]*account.Account, error) {
	var models []Account
	err := r.db.WithContext(ctx).
		Where("archived = true AND block_end IS NOT NULL AND block_end <= ?", now).
		Order("number").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, account.ErrAccountNotFound)
	}
	return accountsToEntities(models), nil
}

// accountUpdateColumns maps the typed update onto column assignments. The
// zero command maps to no columns, which Update treats as a no-op.
func accountUpdateColumns(update dto.AccountUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}
	if update.BlockReason != nil {
		updates["block_reason"] = *update.BlockReason
	}
	if update.BlockStart != nil {
		updates["block_start"] = *update.BlockStart
	}
	if update.BlockEnd != nil {
		updates["block_end"] = *update.BlockEnd
	}
	if update.ClearBlock {
		updates["block_reason"] = nil
		updates["block_start"] = nil
		updates["block_end"] = nil
	}
	if update.Archived != nil {
		updates["archived"] = *update.Archived
		if !*update.Archived {
			updates["archived_at"] = nil
		}
	}
	if update.ArchivedAt != nil {
		updates["archived_at"] = *update.ArchivedAt
	}
	if update.DeletedAt != nil {
		updates["deleted_at"] = *update.DeletedAt
	}
	return updates
}

func accountsToEntities(models []Account) []*account.Account {
	out := make([]*account.Account, 0, len(models))
	for i := range models {
		out = append(out, accountToEntity(&models[i]))
	}
	return out
}
