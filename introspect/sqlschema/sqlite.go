package sqlschema

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

const sqliteTablesQuery = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

func introspectSQLite(ctx context.Context, db *sql.DB) (*Schema, error) {
	names, err := stringColumn(ctx, db, sqliteTablesQuery)
	if err != nil {
		return nil, err
	}
	s := &Schema{Tables: make([]Table, 0, len(names))}
	for _, name := range names {
		t := Table{Name: name}
		if err := sqliteColumns(ctx, db, &t); err != nil {
			return nil, err
		}
		if err := sqliteForeignKeys(ctx, db, &t); err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, t)
	}
	return s, nil
}

// sqliteColumns reads PRAGMA table_info, which also carries primary key
// positions.
func sqliteColumns(ctx context.Context, db *sql.DB, t *Table) error {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteName(t.Name))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return queryFailed(query, err)
	}
	type pkCol struct {
		pos  int
		name string
	}
	var pk []pkCol
	for rows.Next() {
		var (
			cid, notNull, pkPos int
			name, typ           string
			dflt                sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pkPos); err != nil {
			rows.Close()
			return queryFailed(query, err)
		}
		t.Columns = append(t.Columns, Column{
			Name:     name,
			Kind:     ParseSQLKind(typ),
			Nullable: notNull == 0 && pkPos == 0,
		})
		if pkPos > 0 {
			pk = append(pk, pkCol{pos: pkPos, name: name})
		}
	}
	if err := closeRows(rows, query); err != nil {
		return err
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].pos < pk[j].pos })
	t.PrimaryKey = []string{}
	for _, c := range pk {
		t.PrimaryKey = append(t.PrimaryKey, c.name)
	}
	return nil
}

func sqliteForeignKeys(ctx context.Context, db *sql.DB, t *Table) error {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteSQLiteName(t.Name))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return queryFailed(query, err)
	}
	for rows.Next() {
		var (
			id, seq                   int
			table, from               string
			to                        sql.NullString
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &table, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			rows.Close()
			return queryFailed(query, err)
		}
		fk := ForeignKey{Column: from, RefTable: table, RefColumn: to.String}
		if !to.Valid {
			fk.RefColumn = from
		}
		t.ForeignKeys = append(t.ForeignKeys, fk)
	}
	return closeRows(rows, query)
}

func quoteSQLiteName(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
