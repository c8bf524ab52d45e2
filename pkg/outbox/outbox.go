// Package outbox defines the transactional outbox record. The ledger
// appends a record in the same unit of work as the state change it
// announces; a separate worker polls pending records and invokes the
// notification collaborator, giving at-least-once delivery without coupling
// the commit to network calls.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sunubank/ledger/pkg/domain/events"
)

// Status is the dispatch state of an outbox record.
type Status string

const (
	// StatusPending marks records not yet handed to the collaborator.
	StatusPending Status = "pending"
	// StatusDispatched marks records the collaborator accepted.
	StatusDispatched Status = "dispatched"
	// StatusFailed marks records that exhausted their delivery attempts.
	StatusFailed Status = "failed"
)

// MaxAttempts is the number of deliveries tried before a record is parked
// as failed.
const MaxAttempts = 5

// Record is one appended domain event awaiting dispatch.
type Record struct {
	ID           uuid.UUID
	EventType    string
	Payload      []byte
	Status       Status
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	DispatchedAt *time.Time
}

// NewRecord serializes a domain event into a pending record.
func NewRecord(event events.Event) (*Record, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Record{
		ID:        uuid.New(),
		EventType: event.Type(),
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}, nil
}
