package repository

import (
	"errors"
	"fmt"

	repo "restaurant/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// foreign_key_violation
const pgForeignKeyViolation = "23503"

// 書き込み時のFK違反は参照先なし（ErrNotFound）として返す
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", repo.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}
