package dialect

import "context"

// Dialect names.
const (
	// Bolt is the Neo4j (bolt protocol) dialect.
	Bolt = "bolt"
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
)

// Driver is the minimal execution contract shared by the introspection
// pipeline, generated access modules, and the adapter. Calls are synchronous
// and blocking; each Query acquires a session scoped to that single call and
// releases it on every exit path.
type Driver interface {
	// Query submits a parameterized query and returns the result rows as
	// column-name keyed maps. An empty result is a nil-length slice, not an
	// error.
	Query(ctx context.Context, text string, params map[string]any) ([]map[string]any, error)

	// Dialect returns the dialect name of the driver.
	Dialect() string

	// Close releases the underlying connection resources.
	Close(ctx context.Context) error
}

// Querier is the read-only subset of Driver. Generated modules and the
// adapter depend on this interface rather than a concrete driver.
type Querier interface {
	Query(ctx context.Context, text string, params map[string]any) ([]map[string]any, error)
}
