package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

// isRetryableTxError reports aborts the server expects the client to retry.
func isRetryableTxError(err error) bool {
	switch pqCode(err) {
	case pqSerializationFailure, pqDeadlockDetected:
		return true
	default:
		return false
	}
}
