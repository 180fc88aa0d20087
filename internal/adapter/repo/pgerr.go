package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"collect/internal/domain"
)

const (
	pgCodeLockNotAvailable = "55P03"
	pgCodeQueryCanceled    = "57014"
	pgCodeForeignKey       = "23503"
)

// mapPgError translates driver-level failures into the domain taxonomy.
// Lock waits that exceed the bounded timeout become ErrConflict so the
// caller can retry; connection-class failures become ErrStoreUnavailable.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: transaction deadline exceeded", domain.ErrConflict)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgCodeLockNotAvailable, pgErr.Code == pgCodeQueryCanceled:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Code)
		case pgErr.Code == pgCodeForeignKey:
			return domain.ErrNotFound
		case strings.HasPrefix(pgErr.Code, "08"), // connection exceptions
			strings.HasPrefix(pgErr.Code, "53"), // insufficient resources
			strings.HasPrefix(pgErr.Code, "57"): // operator intervention
			return fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, pgErr.Code)
		}
		return err
	}

	// Failures without a SQLSTATE (dial errors, broken connections)
	// are infrastructure problems as far as callers are concerned.
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
