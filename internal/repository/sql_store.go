package repository

import (
	"database/sql"
	"strings"
)

// SQLStore serves the Store contract from the normalized MySQL schema.
// All queries are parameterized; cost and day arithmetic happens inside
// the queries (DATEDIFF/GREATEST/COALESCE) so both workflows and both
// reports price bookings identically.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore returns a SQLStore bound to the given database pool.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Backend implements Store.
func (s *SQLStore) Backend() string { return "sql" }

// inClause builds a "?, ?, ?" placeholder list for IN queries and the
// matching argument slice.
func inClause(ids []string) (string, []any) {
	args := make([]any, 0, len(ids))
	marks := make([]string, 0, len(ids))
	for _, id := range ids {
		marks = append(marks, "?")
		args = append(args, id)
	}
	return strings.Join(marks, ", "), args
}

// dedupe removes duplicate ids while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
