// Package sqlschema discovers table structure from relational databases, the
// SQL counterpart of the graph introspection pass. Unlike graph discovery it
// reads real catalogs instead of sampling instances, so the result is exact.
package sqlschema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gardenlabs/grasshopper"
	"github.com/gardenlabs/grasshopper/dialect"
	"github.com/gardenlabs/grasshopper/graph"
)

// Column is one discovered table column.
type Column struct {
	Name     string     `yaml:"name"`
	Kind     graph.Kind `yaml:"kind"`
	Nullable bool       `yaml:"nullable,omitempty"`
}

// ForeignKey is one discovered reference to another table.
type ForeignKey struct {
	Column    string `yaml:"column"`
	RefTable  string `yaml:"ref_table"`
	RefColumn string `yaml:"ref_column"`
}

// Table is one discovered table with its columns in catalog order.
type Table struct {
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns"`
	PrimaryKey  []string     `yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
}

// Schema is one complete relational snapshot, tables sorted by name.
type Schema struct {
	Tables []Table `yaml:"tables"`
}

// Table returns the named table, if discovered.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Introspect reads the full catalog of the given database. The dialect name
// selects the catalog queries; postgres and sqlite are supported.
func Introspect(ctx context.Context, db *sql.DB, d string) (*Schema, error) {
	switch d {
	case dialect.Postgres:
		return introspectPostgres(ctx, db)
	case dialect.SQLite:
		return introspectSQLite(ctx, db)
	}
	return nil, fmt.Errorf("sqlschema: unsupported dialect %q", d)
}

// ParseSQLKind maps a catalog type name to the shared kind table, so graph
// and relational artifacts validate filters the same way.
func ParseSQLKind(dataType string) graph.Kind {
	name := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(name, '('); i > 0 {
		name = name[:i]
	}
	switch name {
	case "smallint", "integer", "int", "int2", "int4", "int8", "bigint", "serial", "bigserial":
		return graph.KindInteger
	case "text", "varchar", "character varying", "character", "char", "uuid", "name", "clob":
		return graph.KindString
	case "boolean", "bool":
		return graph.KindBoolean
	case "real", "double precision", "numeric", "decimal", "float", "float4", "float8", "double":
		return graph.KindFloat
	case "date":
		return graph.KindDate
	case "json", "jsonb":
		return graph.KindMap
	}
	if strings.HasPrefix(name, "timestamp") || strings.HasPrefix(name, "datetime") {
		return graph.KindDateTime
	}
	return graph.KindAny
}

func queryFailed(text string, err error) error {
	return grasshopper.NewSchemaQueryError(text, err)
}
