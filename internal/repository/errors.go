package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSerialization reports that the store aborted a transaction because it
// conflicted with a concurrent one. The whole transaction may be retried.
var ErrSerialization = errors.New("serialization conflict")

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
	codeForeignKeyViolation  = "23503"
)

// translateErr maps pgx errors to domain errors so that no driver type
// leaves this package.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return ErrSerialization
		case codeLockNotAvailable, codeQueryCanceled:
			return fmt.Errorf("%w: %s", domain.ErrTimeout, pgErr.Message)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Detail)
		}
		return fmt.Errorf("%w: %s (SQLSTATE %s)", domain.ErrStoreUnavailable, pgErr.Message, pgErr.Code)
	}
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
