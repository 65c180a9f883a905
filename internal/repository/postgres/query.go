package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// whereClause accumulates AND-ed conditions with positional arguments.
// Each expression carries a single %d verb for its placeholder index.
// Seed args with values bound earlier in the statement (e.g. SET columns).
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(expr string, v any) {
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf(expr, len(w.args)))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
