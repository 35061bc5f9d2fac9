// Package pgerr classifies postgres driver errors by SQLSTATE code.
package pgerr

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsSerializationFailure reports whether err is a serialization_failure
// (40001), raised when a serializable transaction must be retried.
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}
