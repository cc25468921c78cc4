package sqlschema

import (
	"context"
	"database/sql"
)

const (
	pgTablesQuery = `SELECT table_name FROM information_schema.tables
WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
ORDER BY table_name`

	pgColumnsQuery = `SELECT column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = 'public' AND table_name = $1
ORDER BY ordinal_position`

	pgPrimaryKeyQuery = `SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name
 AND kcu.table_schema = tc.table_schema
WHERE tc.table_schema = 'public' AND tc.table_name = $1
  AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`

	pgForeignKeysQuery = `SELECT kcu.column_name, ccu.table_name, ccu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name
 AND kcu.table_schema = tc.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name
 AND ccu.table_schema = tc.table_schema
WHERE tc.table_schema = 'public' AND tc.table_name = $1
  AND tc.constraint_type = 'FOREIGN KEY'
ORDER BY kcu.ordinal_position`
)

func introspectPostgres(ctx context.Context, db *sql.DB) (*Schema, error) {
	names, err := stringColumn(ctx, db, pgTablesQuery)
	if err != nil {
		return nil, err
	}
	s := &Schema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		t := Table{Name: name}

		rows, err := db.QueryContext(ctx, pgColumnsQuery, name)
		if err != nil {
			return nil, queryFailed(pgColumnsQuery, err)
		}
		for rows.Next() {
			var col, typ, nullable string
			if err := rows.Scan(&col, &typ, &nullable); err != nil {
				rows.Close()
				return nil, queryFailed(pgColumnsQuery, err)
			}
			t.Columns = append(t.Columns, Column{
				Name:     col,
				Kind:     ParseSQLKind(typ),
				Nullable: nullable == "YES",
			})
		}
		if err := closeRows(rows, pgColumnsQuery); err != nil {
			return nil, err
		}

		if t.PrimaryKey, err = stringColumn(ctx, db, pgPrimaryKeyQuery, name); err != nil {
			return nil, err
		}

		fks, err := db.QueryContext(ctx, pgForeignKeysQuery, name)
		if err != nil {
			return nil, queryFailed(pgForeignKeysQuery, err)
		}
		for fks.Next() {
			var fk ForeignKey
			if err := fks.Scan(&fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
				fks.Close()
				return nil, queryFailed(pgForeignKeysQuery, err)
			}
			t.ForeignKeys = append(t.ForeignKeys, fk)
		}
		if err := closeRows(fks, pgForeignKeysQuery); err != nil {
			return nil, err
		}

		s.Tables = append(s.Tables, t)
	}
	return s, nil
}

func stringColumn(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryFailed(query, err)
	}
	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, queryFailed(query, err)
		}
		out = append(out, v)
	}
	if err := closeRows(rows, query); err != nil {
		return nil, err
	}
	return out, nil
}

func closeRows(rows *sql.Rows, query string) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return queryFailed(query, err)
	}
	if err := rows.Close(); err != nil {
		return queryFailed(query, err)
	}
	return nil
}
