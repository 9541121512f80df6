package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the mapping below cares about
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgNotNullViolation     = "23502"
	pgCheckViolation       = "23514"
	pgStringTruncation     = "22001"
	pgInvalidText          = "22P02"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgReadOnlyTx           = "25006"
	pgCannotConnectNow     = "57P03"
	pgAdminShutdown        = "57P01"
)

// PgError returns the *pgconn.PgError inside err, if any
func PgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with the given SQLSTATE
func IsSQLState(err error, code string) bool {
	pe, ok := PgError(err)
	return ok && pe.Code == code
}

func IsDuplicateKey(err error) bool { return IsSQLState(err, pgUniqueViolation) }

// DBErrorCode classifies a Postgres error; ok is false for non-Postgres errors
func DBErrorCode(err error) (ErrorCode, bool) {
	pe, ok := PgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pe.Code {
	case pgUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgForeignKeyViolation, pgStringTruncation, pgInvalidText:
		return ErrorCodeInvalidArgument, true
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation, true
	case pgReadOnlyTx, pgCannotConnectNow, pgAdminShutdown:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err under the code DBErrorCode picks, or DB; nil stays nil.
// The column or constraint, when Postgres reports one, becomes the field.
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pe, ok := PgError(err); ok {
		switch {
		case pe.ColumnName != "":
			out = WithField(out, pe.ColumnName)
		case pe.ConstraintName != "":
			out = WithField(out, pe.ConstraintName)
		}
	}
	return out
}

// IsRetryable reports transient contention worth another attempt.
// Caller cancellations are never retryable.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := PgError(err); ok {
		switch pe.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"canceling statement due to lock timeout",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
