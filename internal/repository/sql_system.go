package repository

import (
	"context"
	"fmt"
)

// tableAllowlist is the fixed set of tables the explorer may read.  The
// table name is interpolated into the query, so anything outside this
// list is rejected before SQL is built.
var tableAllowlist = []string{
	"Person",
	"Rating",
	"Customer",
	"Retailer",
	"Bankaccount",
	"Vehicle",
	"Booking",
	"AdditionalService",
	"Bookings_Services",
}

// Tables returns the explorer's table allowlist.
func (s *SQLStore) Tables() []string {
	out := make([]string, len(tableAllowlist))
	copy(out, tableAllowlist)
	return out
}

// TableRows reads up to limit rows from an allowlisted table, returning
// the column names and each row as a column-to-value map.  When the table is
// empty, column names fall back to INFORMATION_SCHEMA so the explorer can
// still render headers.
func (s *SQLStore) TableRows(ctx context.Context, table string, limit int) ([]string, []map[string]any, error) {
	allowed := false
	for _, t := range tableAllowlist {
		if t == table {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil, ErrUnknownTable
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM `%s` LIMIT ?", table), limit)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	if len(out) == 0 {
		columns, err = s.columnNames(ctx, table)
		if err != nil {
			return nil, nil, err
		}
	}
	return columns, out, nil
}

func (s *SQLStore) columnNames(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT COLUMN_NAME
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		 ORDER BY ORDINAL_POSITION`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// HasSeedData reports whether the relational schema already contains
// seed data.
func (s *SQLStore) HasSeedData(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Person").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Seed executes the external seed script verbatim.  The script is owned
// by the seed-data collaborator; this method just runs it.
func (s *SQLStore) Seed(ctx context.Context, script string) error {
	_, err := s.db.ExecContext(ctx, script)
	return err
}

// EnsureTotalCostsColumn adds the Booking.total_costs column when the
// deployed schema predates it.  Invoked once at startup.
func (s *SQLStore) EnsureTotalCostsColumn(ctx context.Context) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM INFORMATION_SCHEMA.COLUMNS
		 WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'Booking' AND COLUMN_NAME = 'total_costs'`,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		_, err = s.db.ExecContext(ctx, "ALTER TABLE Booking ADD COLUMN total_costs DECIMAL(10,2)")
	}
	return err
}
