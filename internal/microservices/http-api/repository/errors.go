package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from the schema migrations. Unique violations are reported
// against these.
const (
	ConstraintUsernameKey     = "users_username_key"
	ConstraintEmailKey        = "users_email_key"
	ConstraintCategorySlugKey = "categories_slug_key"
	ConstraintGenreSlugKey    = "genres_slug_key"
	ConstraintUniqueReview    = "unique_review"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrForeignKey is returned when a write references a row that does not exist.
var ErrForeignKey = errors.New("referenced row does not exist")

// UniqueViolationError reports which unique constraint rejected a write.
type UniqueViolationError struct {
	Constraint string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether err is a unique violation of constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var uv *UniqueViolationError
	return errors.As(err, &uv) && uv.Constraint == constraint
}

// translateError maps postgres constraint errors onto repository errors and
// wraps everything else with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &UniqueViolationError{Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrForeignKey)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
