package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/account"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates the gorm-backed transaction repository
// bound to the given session.
func NewTransactionRepository(db *gorm.DB) *transactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *account.Transaction) error {
	m := transactionToModel(t)
	return mapError(r.db.WithContext(ctx).Create(&m).Error, account.ErrTransactionNotFound)
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*account.Transaction, error) {
	var m Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, mapError(err, account.ErrTransactionNotFound)
	}
	return transactionToEntity(&m), nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Where("source_id = ? OR destination_id = ?", accountID, accountID).
		Order("date").
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, account.ErrTransactionNotFound)
	}
	out := make([]*account.Transaction, 0, len(models))
	for i := range models {
		out = append(out, transactionToEntity(&models[i]))
	}
	return out, nil
}

func (r *transactionRepository) SetArchivedByAccount(ctx context.Context, accountID uuid.UUID, archived bool, now time.Time) (int64, error) {
	updates := map[string]any{"archived": archived}
	if archived {
		updates["archived_at"] = now
	} else {
		updates["archived_at"] = nil
	}
	res := r.db.WithContext(ctx).Model(&Transaction{}).
		Where("(source_id = ? OR destination_id = ?) AND archived = ?", accountID, accountID, !archived).
		Updates(updates)
	if res.Error != nil {
		return 0, mapError(res.Error, account.ErrTransactionNotFound)
	}
	return res.RowsAffected, nil
}
