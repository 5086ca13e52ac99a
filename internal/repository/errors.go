package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is wrapped by every "row does not exist" error of this package
var ErrNotFound = errors.New("not found")

// uniqueViolation is the SQLSTATE of a unique constraint violation
const uniqueViolation = "23505"

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// isUniqueViolation reports whether err is a unique violation of constraint
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
	}
	return false
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// setClause accumulates "column = $n" assignments for partial updates
type setClause struct {
	parts []string
	args  []any
}

func (s *setClause) add(column string, value any) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool {
	return len(s.parts) == 0
}

// build returns the assignments and the placeholder index for the WHERE id argument
func (s *setClause) build() (string, int) {
	return strings.Join(s.parts, ", "), len(s.args) + 1
}
