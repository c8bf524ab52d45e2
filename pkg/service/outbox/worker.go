// Package outbox implements the asynchronous worker that drains the
// transactional outbox and invokes the notification collaborator, giving
// at-least-once delivery decoupled from the committing request.
package outbox

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sunubank/ledger/pkg/domain/events"
	"github.com/sunubank/ledger/pkg/notification"
	outboxdomain "github.com/sunubank/ledger/pkg/outbox"
	"github.com/sunubank/ledger/pkg/repository"
)

// Worker polls pending outbox records on a fixed interval.
type Worker struct {
	uow      repository.UnitOfWork
	notifier notification.Notifier
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

// NewWorker creates the outbox worker.
func NewWorker(
	uow repository.UnitOfWork,
	notifier notification.Notifier,
	logger *slog.Logger,
	interval time.Duration,
	batch int,
) *Worker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batch <= 0 {
		batch = 50
	}
	return &Worker{
		uow:      uow,
		notifier: notifier,
		logger:   logger.With("service", "outbox"),
		interval: interval,
		batch:    batch,
	}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.DrainOnce(ctx); err != nil {
				w.logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

// DrainOnce fetches one batch of pending records and dispatches them.
// It returns the number of records successfully dispatched.
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	var pending []*outboxdomain.Record
	if err := w.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OutboxRepository()
		if err != nil {
			return err
		}
		pending, err = repo.FetchPending(ctx, w.batch)
		return err
	}); err != nil {
		return 0, err
	}

	dispatched := 0
	for _, rec := range pending {
		if err := w.dispatch(ctx, rec); err != nil {
			w.markFailed(ctx, rec, err)
			continue
		}
		if err := w.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.OutboxRepository()
			if err != nil {
				return err
			}
			return repo.MarkDispatched(ctx, rec.ID, time.Now())
		}); err != nil {
			w.logger.Error("mark dispatched failed", "record", rec.ID, "error", err)
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (w *Worker) dispatch(ctx context.Context, rec *outboxdomain.Record) error {
	switch rec.EventType {
	case events.AccountOpenedType:
		var event events.AccountOpened
		if err := json.Unmarshal(rec.Payload, &event); err != nil {
			return err
		}
		return w.notifier.SendWelcome(ctx, event)
	default:
		w.logger.Warn("unknown outbox event type", "type", rec.EventType)
		return nil
	}
}

func (w *Worker) markFailed(ctx context.Context, rec *outboxdomain.Record, cause error) {
	w.logger.Error("dispatch failed", "record", rec.ID, "type", rec.EventType, "error", cause)
	if err := w.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OutboxRepository()
		if err != nil {
			return err
		}
		return repo.MarkFailed(ctx, rec.ID, rec.Attempts+1, cause.Error())
	}); err != nil {
		w.logger.Error("mark failed errored", "record", rec.ID, "error", err)
	}
}
