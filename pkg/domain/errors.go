// Package domain holds the error taxonomy shared by all ledger components.
//
// Errors fall into four kinds. Callers classify them with errors.Is against
// the kind sentinels below; the specific violated rule is carried by the
// wrapped sentinel (see pkg/domain/account).
package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced account or client does not
	// exist. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrBusinessRule is the kind sentinel for precondition failures. Every
	// violated-rule error wraps it, so errors.Is(err, ErrBusinessRule)
	// identifies the whole class while the concrete sentinel names the rule.
	ErrBusinessRule = errors.New("business rule violation")

	// ErrConcurrencyConflict is returned on lock timeout or version mismatch
	// during an atomic update. The whole operation is safe to retry from
	// scratch a bounded number of times.
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrPersistence is returned for underlying storage failures. The unit
	// of work is rolled back; nothing is partially applied.
	ErrPersistence = errors.New("persistence failure")
)
