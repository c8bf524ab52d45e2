package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain"
	"github.com/sunubank/ledger/pkg/outbox"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errRecordNotFound = fmt.Errorf("%w: outbox record", domain.ErrNotFound)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates the gorm-backed outbox repository bound to the
// given session.
func NewOutboxRepository(db *gorm.DB) *outboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Append(ctx context.Context, rec *outbox.Record) error {
	m := recordToModel(rec)
	return mapError(r.db.WithContext(ctx).Create(&m).Error, errRecordNotFound)
}

// FetchPending locks the returned rows with SKIP LOCKED so concurrent
// workers never pick the same batch.
func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*outbox.Record, error) {
	var models []OutboxRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", string(outbox.StatusPending)).
		Order("created_at").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, errRecordNotFound)
	}
	out := make([]*outbox.Record, 0, len(models))
	for i := range models {
		out = append(out, recordToEntity(&models[i]))
	}
	return out, nil
}

func (r *outboxRepository) MarkDispatched(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&OutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        string(outbox.StatusDispatched),
			"dispatched_at": at,
		})
	if res.Error != nil {
		return mapError(res.Error, errRecordNotFound)
	}
	if res.RowsAffected == 0 {
		return errRecordNotFound
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, attempt int, lastError string) error {
	status := string(outbox.StatusPending)
	if attempt >= outbox.MaxAttempts {
		status = string(outbox.StatusFailed)
	}
	res := r.db.WithContext(ctx).Model(&OutboxRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"attempts":   attempt,
			"last_error": lastError,
		})
	if res.Error != nil {
		return mapError(res.Error, errRecordNotFound)
	}
	if res.RowsAffected == 0 {
		return errRecordNotFound
	}
	return nil
}
