// Package dialect provides database dialect abstraction for Grasshopper.
//
// This package defines the interfaces and constants used for database-specific
// operations, allowing the introspection pipeline, the generated access modules,
// and the adapter to share one driver contract regardless of backend.
//
// # Supported Dialects
//
// The following dialects are identified by constant strings:
//
//	dialect.Bolt     = "bolt"     (Neo4j and bolt-compatible graph databases)
//	dialect.Postgres = "postgres" (PostgreSQL, SQL module generation only)
//	dialect.SQLite   = "sqlite"   (SQLite, SQL module generation only)
//
// # Driver Interface
//
// The Driver interface is deliberately small: one parameterized query entry
// point returning rows as plain maps, and deterministic close. Each Query call
// acquires and releases its own session; drivers do not hold per-call state.
//
//	type Driver interface {
//	    Query(ctx context.Context, text string, params map[string]any) ([]map[string]any, error)
//	    Dialect() string
//	    Close(ctx context.Context) error
//	}
//
// # Sub-packages
//
//   - dialect/bolt: Neo4j driver implementation (session per call)
//   - dialect/sql: relational runtime linked by generated SQL modules
package dialect
