package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/client"
	"gorm.io/gorm"
)

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates the gorm-backed client repository bound to the
// given session.
func NewClientRepository(db *gorm.DB) *clientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	m := clientToModel(c)
	return mapError(r.db.WithContext(ctx).Create(&m).Error, client.ErrClientNotFound)
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var m Client
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&m).Error
	if err != nil {
		return nil, mapError(err, client.ErrClientNotFound)
	}
	return clientToEntity(&m), nil
}

func (r *clientRepository) GetIncludingDeleted(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	var m Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, mapError(err, client.ErrClientNotFound)
	}
	return clientToEntity(&m), nil
}

func (r *clientRepository) SoftDelete(ctx context.Context, id uuid.UUID, now time.Time) error {
	res := r.db.WithContext(ctx).Model(&Client{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", now)
	if res.Error != nil {
		return mapError(res.Error, client.ErrClientNotFound)
	}
	if res.RowsAffected == 0 {
		return client.ErrClientNotFound
	}
	return nil
}
