package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrConflict is returned when an insert or update hits a unique constraint.
// Unique constraints are the only concurrency guard in this system (the
// service may run multiple instances, so there are no in-process locks);
// callers are expected to treat this error as a first-class outcome and
// either re-fetch or surface a duplicate error.
var ErrConflict = errors.New("unique constraint violation")

const pqUniqueViolation = "23505"

// translateError maps driver-level unique violations onto ErrConflict and
// passes everything else through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ErrConflict
	}
	return err
}
