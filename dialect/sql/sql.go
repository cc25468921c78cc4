// Package sql is the relational runtime generated SQL modules link against:
// placeholder styles, deterministic select building, and generic row
// scanning into column-keyed maps.
package sql

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/graph"
)

// Placeholder returns the bind placeholder for the 1-based position n in the
// given dialect.
func Placeholder(d string, n int) string {
	if d == dialect.Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SelectQuery builds a parameterized select over the filter columns. Columns
// appear in sorted order so the query text is stable across runs.
func SelectQuery(d, table string, filters map[string]any) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(QuoteIdent(table))
	args := make([]any, 0, len(filters))
	if len(filters) > 0 {
		keys := make([]string, 0, len(filters))
		for k := range filters {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteString(" WHERE ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" AND ")
			}
			b.WriteString(QuoteIdent(k))
			b.WriteString(" = ")
			b.WriteString(Placeholder(d, i+1))
			args = append(args, filters[k])
		}
	}
	return b.String(), args
}

// QuoteIdent double-quotes a table or column name.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ScanRows reads every remaining row into a column-keyed map. Byte slices
// become strings; drivers without native types report text columns as bytes.
func ScanRows(rows *stdsql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Select is the accessor contract for one table: filters are validated and
// coerced against the discovered column kinds, the query text is
// deterministic, and the result is an ordered, possibly empty, never-nil
// list.
func Select(ctx context.Context, db *stdsql.DB, d, table string, kinds graph.Properties, filters map[string]any) ([]map[string]any, error) {
	coerced, err := graph.CoerceFilters(filters, kinds)
	if err != nil {
		return nil, err
	}
	text, args := SelectQuery(d, table, coerced)
	rows, err := db.QueryContext(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return ScanRows(rows)
}
