package implementation

import (
	"errors"

	"notebook-tree-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgForeignKeyViolation = "23503"

// translateError maps a foreign key violation to onViolation and passes
// everything else through.
func translateError(err error, onViolation error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return onViolation
	}
	return err
}

func translateWriteError(err error) error {
	return translateError(err, contract.ErrReferenceMissing)
}

func translateDeleteError(err error) error {
	return translateError(err, contract.ErrStillReferenced)
}
